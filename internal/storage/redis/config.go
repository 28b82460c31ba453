package redis

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection and key expiry settings
type Config struct {
	// URL in redis://[user:pass@]host:port/db form
	URL string

	PoolSize     int
	MinIdleConns int

	// GameTTL is refreshed on every write; zero keeps games forever
	GameTTL time.Duration
}

// DefaultConfig points at a local Redis and keeps idle games for a week
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		GameTTL:      7 * 24 * time.Hour,
	}
}

// options turns c into client options, with pool sizes applied on top of
// whatever the URL carries
func (c Config) options() (*redis.Options, error) {
	opts, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if c.PoolSize > 0 {
		opts.PoolSize = c.PoolSize
	}
	if c.MinIdleConns > 0 {
		opts.MinIdleConns = c.MinIdleConns
	}
	return opts, nil
}
