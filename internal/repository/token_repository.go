package repository

import (
	"context"
	"database/sql"
	"time"
)

const (
	insertRefreshSQL = "INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)"
	selectRefreshSQL = "SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1"
	revokeRefreshSQL = "UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL"
	revokeUserSQL    = "UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL"
)

// TokenRepo keeps the SHA-256 hashes of auth-service refresh tokens; raw
// tokens never reach the database.
type TokenRepo struct {
	DB  *sql.DB
	now func() time.Time
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db, now: time.Now} }

// StoreRefresh records a freshly issued token.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx, insertRefreshSQL, userID, tokenHash, exp)
	return err
}

// ValidateRefresh returns the owning user id.  Unknown, revoked and
// expired tokens all yield ErrNotFound.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, selectRefreshSQL, tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, notFound(err)
	}
	if revokedAt.Valid || r.now().UTC().After(expiresAt) {
		return 0, ErrNotFound
	}
	return userID, nil
}

// Rotate revokes oldHash and stores newHash in one transaction.  When the
// old token was already revoked, for instance by a concurrent refresh with
// the same token, nothing is stored and ErrNotFound is returned.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash string, userID uint64, newHash string, exp time.Time) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, revokeRefreshSQL+" AND user_id=?", oldHash, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err = tx.ExecContext(ctx, insertRefreshSQL, userID, newHash, exp); err != nil {
		return err
	}
	return tx.Commit()
}

// RevokeByHash revokes a single token (logout).
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, revokeRefreshSQL, tokenHash)
	return err
}

// RevokeAllForUser signs the user out of every device.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, revokeUserSQL, userID)
	return err
}
