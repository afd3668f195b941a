package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/repository"
)

// StreamStore persists stream sessions.  *repository.StreamRepo satisfies it.
type StreamStore interface {
	Create(ctx context.Context, s *model.StreamSession) error
	GetByID(ctx context.Context, id uint64) (*model.StreamSession, error)
	Update(ctx context.Context, s *model.StreamSession) error
	ListActive(ctx context.Context) ([]model.StreamSession, error)
	ListByHost(ctx context.Context, hostID string) ([]model.StreamSession, error)
}

// CreateStreamRequest is the input of CreateStream.
type CreateStreamRequest struct {
	Title       string
	Description string
	HostID      string
}

// StartedStream is what a host needs to begin publishing.
type StartedStream struct {
	Session *model.StreamSession
	Token   RTCToken
}

type StreamService struct {
	store  StreamStore
	tokens TokenGenerator
	now    func() time.Time
}

func NewStreamService(store StreamStore, tokens TokenGenerator) *StreamService {
	return &StreamService{store: store, tokens: tokens, now: func() time.Time { return time.Now().UTC() }}
}

// ChannelName is the RTC channel used for a stream session.
func ChannelName(streamID uint64) string {
	return fmt.Sprintf("stream-%d", streamID)
}

// CreateStream persists a new active session with its start time set to now.
func (s *StreamService) CreateStream(ctx context.Context, req CreateStreamRequest) (*model.StreamSession, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	now := s.now()
	sess := &model.StreamSession{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		HostID:      req.HostID,
		Status:      model.StreamStatusCreated,
		IsActive:    true,
		StartTime:   &now,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// StartStream issues a publisher token for the session's channel and marks
// it LIVE.  Ended sessions cannot be restarted.
func (s *StreamService) StartStream(ctx context.Context, id uint64, uid uint32) (*StartedStream, error) {
	if s.tokens == nil {
		return nil, fmt.Errorf("%w: no token generator", ErrNotConfigured)
	}
	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Status.CanMoveTo(model.StreamStatusLive) {
		return nil, fmt.Errorf("%w: stream %d is %s", ErrInvalidTransition, id, sess.Status)
	}

	tok, err := s.tokens.GenerateToken(ChannelName(id), uid)
	if err != nil {
		return nil, err
	}
	sess.Status = model.StreamStatusLive
	sess.IsActive = true
	sess.AgoraChannelName = &tok.Channel
	sess.AgoraToken = &tok.Token
	if err := s.update(ctx, sess); err != nil {
		return nil, err
	}
	return &StartedStream{Session: sess, Token: tok}, nil
}

// EndStream deactivates the session and stamps its end time.  Ending an
// already ended session returns it unchanged.
func (s *StreamService) EndStream(ctx context.Context, id uint64) (*model.StreamSession, error) {
	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status == model.StreamStatusEnded {
		return sess, nil
	}
	now := s.now()
	sess.Status = model.StreamStatusEnded
	sess.IsActive = false
	sess.EndTime = &now
	if err := s.update(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *StreamService) GetStream(ctx context.Context, id uint64) (*model.StreamSession, error) {
	return s.get(ctx, id)
}

// ListActiveStreams returns every session whose active flag is set.
func (s *StreamService) ListActiveStreams(ctx context.Context) ([]model.StreamSession, error) {
	return s.store.ListActive(ctx)
}

func (s *StreamService) ListHostStreams(ctx context.Context, hostID string) ([]model.StreamSession, error) {
	if strings.TrimSpace(hostID) == "" {
		return nil, fmt.Errorf("%w: hostId is required", ErrValidation)
	}
	return s.store.ListByHost(ctx, hostID)
}

func (s *StreamService) get(ctx context.Context, id uint64) (*model.StreamSession, error) {
	sess, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrStreamNotFound, id)
	}
	return sess, err
}

func (s *StreamService) update(ctx context.Context, sess *model.StreamSession) error {
	err := s.store.Update(ctx, sess)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrStreamNotFound, sess.ID)
	}
	return err
}
