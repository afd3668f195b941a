package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/live-commerce-backend/internal/model"
)

// ChatStore persists chat messages.  *repository.ChatRepo satisfies it.
type ChatStore interface {
	Create(ctx context.Context, m *model.ChatMessage) error
	ListByStream(ctx context.Context, streamID uint64) ([]model.ChatMessage, error)
}

type ChatService struct {
	store ChatStore
	now   func() time.Time
}

func NewChatService(store ChatStore) *ChatService {
	return &ChatService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// SendMessage stores a message stamped with the server clock.  The stream
// id is not checked against stream sessions.
func (s *ChatService) SendMessage(ctx context.Context, streamID uint64, sender, message string) (*model.ChatMessage, error) {
	if strings.TrimSpace(sender) == "" || strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: sender and message are required", ErrValidation)
	}
	m := &model.ChatMessage{
		StreamID:  streamID,
		Sender:    strings.TrimSpace(sender),
		Message:   message,
		Timestamp: s.now(),
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns a stream's messages oldest first.  A stream without
// messages is reported as ErrChatNotFound rather than an empty list.
func (s *ChatService) ListMessages(ctx context.Context, streamID uint64) ([]model.ChatMessage, error) {
	msgs, err := s.store.ListByStream(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: stream %d has no messages", ErrChatNotFound, streamID)
	}
	return msgs, nil
}
