package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

// YouTubeSession is what is kept per browser after a Google login.
type YouTubeSession struct {
	Token    *oauth2.Token `json:"token"`
	UserName string        `json:"userName,omitempty"`
	Email    string        `json:"email,omitempty"`
}

// SessionStore keeps YouTube sessions keyed by an opaque id.
type SessionStore interface {
	Save(ctx context.Context, sess YouTubeSession) (string, error)
	Load(ctx context.Context, id string) (*YouTubeSession, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore stores sessions as JSON under "<prefix>:<uuid>".
type RedisSessionStore struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	newID  func() string
}

func NewRedisSessionStore(rdb redis.Cmdable, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, prefix: "yt:session", ttl: ttl, newID: uuid.NewString}
}

func (s *RedisSessionStore) key(id string) string { return s.prefix + ":" + id }

func (s *RedisSessionStore) Save(ctx context.Context, sess YouTubeSession) (string, error) {
	body, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	id := s.newID()
	if err := s.rdb.Set(ctx, s.key(id), body, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save youtube session: %w", err)
	}
	return id, nil
}

// Load returns ErrUnauthorized when the id is empty, unknown or expired.
func (s *RedisSessionStore) Load(ctx context.Context, id string) (*YouTubeSession, error) {
	if id == "" {
		return nil, ErrUnauthorized
	}
	body, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load youtube session: %w", err)
	}
	var sess YouTubeSession
	if err := json.Unmarshal(body, &sess); err != nil || sess.Token == nil {
		return nil, ErrUnauthorized
	}
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.rdb.Del(ctx, s.key(id)).Err()
}
