package config

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis instance shared by the rate limiter, the
// stream read cache and the YouTube session store.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TLS         bool
	PingTimeout time.Duration
}

// LoadRedisConfig reads REDIS_HOST + REDIS_PORT, falling back to
// REDIS_ADDR and then localhost:6379.  REDIS_PASSWORD, REDIS_DB and
// REDIS_TLS are optional.
func LoadRedisConfig() RedisConfig {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	return RedisConfig{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          envInt("REDIS_DB", 0),
		TLS:         envBool("REDIS_TLS", false),
		PingTimeout: envDur("REDIS_PING_TIMEOUT", 2*time.Second),
	}
}

// Options converts the config into go-redis options.
func (c RedisConfig) Options() *redis.Options {
	opts := &redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}
	if c.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedisClient connects and pings.  It returns nil when Redis does not
// answer: the stream and reservation services then run without cache and
// rate limits, while the YouTube service refuses to start.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(cfg.Options())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: %s unreachable: %v", cfg.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
