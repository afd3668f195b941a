package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/live-commerce-backend/internal/model"
)

// StreamRepo persists live-stream sessions.  Sessions are never deleted;
// Update rewrites the mutable columns after a lifecycle change.
type StreamRepo struct {
	db *sql.DB
}

func NewStreamRepo(db *sql.DB) *StreamRepo { return &StreamRepo{db: db} }

const streamColumns = `id, title, description, host_id, status, is_active, agora_channel_name, agora_token, start_time, end_time, view_count`

// Create inserts a new session and sets its ID.
func (r *StreamRepo) Create(ctx context.Context, s *model.StreamSession) error {
	const q = `INSERT INTO stream_sessions (title, description, host_id, status, is_active, agora_channel_name, agora_token, start_time, end_time, view_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		s.Title, s.Description, s.HostID, string(s.Status), s.IsActive,
		nullString(s.AgoraChannelName), nullString(s.AgoraToken),
		nullTime(s.StartTime), nullTime(s.EndTime), s.ViewCount)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID returns ErrNotFound when the id does not resolve.
func (r *StreamRepo) GetByID(ctx context.Context, id uint64) (*model.StreamSession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+streamColumns+` FROM stream_sessions WHERE id = ?`, id)
	s, err := scanStream(row)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// Update writes status, active flag, Agora details, timestamps and view
// count back to the row.  Title, description and host are immutable.
func (r *StreamRepo) Update(ctx context.Context, s *model.StreamSession) error {
	const q = `UPDATE stream_sessions SET status = ?, is_active = ?, agora_channel_name = ?, agora_token = ?, start_time = ?, end_time = ?, view_count = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		string(s.Status), s.IsActive,
		nullString(s.AgoraChannelName), nullString(s.AgoraToken),
		nullTime(s.StartTime), nullTime(s.EndTime), s.ViewCount, s.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when nothing changed, so only a missing
	// row is treated as an error.
	if n == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

// ListActive returns sessions whose active flag is set, newest first.
func (r *StreamRepo) ListActive(ctx context.Context) ([]model.StreamSession, error) {
	return r.list(ctx, `SELECT `+streamColumns+` FROM stream_sessions WHERE is_active = 1 ORDER BY id DESC`)
}

// ListByHost returns every session of one host, newest first.
func (r *StreamRepo) ListByHost(ctx context.Context, hostID string) ([]model.StreamSession, error) {
	return r.list(ctx, `SELECT `+streamColumns+` FROM stream_sessions WHERE host_id = ? ORDER BY id DESC`, hostID)
}

func (r *StreamRepo) list(ctx context.Context, q string, args ...any) ([]model.StreamSession, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.StreamSession, 0)
	for rows.Next() {
		s, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanStream(sc rowScanner) (*model.StreamSession, error) {
	var (
		s              model.StreamSession
		status         string
		desc           sql.NullString
		channel, token sql.NullString
		start, end     sql.NullTime
	)
	if err := sc.Scan(&s.ID, &s.Title, &desc, &s.HostID, &status, &s.IsActive,
		&channel, &token, &start, &end, &s.ViewCount); err != nil {
		return nil, err
	}
	s.Description = desc.String
	s.Status = model.StreamStatus(status)
	s.AgoraChannelName = stringPtr(channel)
	s.AgoraToken = stringPtr(token)
	s.StartTime = timePtr(start)
	s.EndTime = timePtr(end)
	return &s, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
