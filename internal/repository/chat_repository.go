package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/live-commerce-backend/internal/model"
)

// ChatRepo stores chat messages.  The stream id is written as given; the
// referenced session is not checked at write time.
type ChatRepo struct {
	db *sql.DB
}

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

// Create inserts the message and sets its ID.
func (r *ChatRepo) Create(ctx context.Context, m *model.ChatMessage) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (stream_id, sender, message, timestamp) VALUES (?, ?, ?, ?)`,
		m.StreamID, m.Sender, m.Message, m.Timestamp)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListByStream returns a stream's messages oldest first.  An empty slice
// (not an error) is returned when the stream has none.
func (r *ChatRepo) ListByStream(ctx context.Context, streamID uint64) ([]model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, stream_id, sender, message, timestamp FROM chat_messages WHERE stream_id = ? ORDER BY timestamp ASC, id ASC`,
		streamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.StreamID, &m.Sender, &m.Message, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
