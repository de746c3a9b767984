// Package rds is the go-redis backed cache
package rds

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the client
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client is a string cache over redis
type Client struct {
	rdb redis.UniversalClient
}

// Open builds the client. go-redis dials lazily, callers ping to confirm
func Open(cfg Config) *Client {
	return New(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// New wraps an existing client
func New(rdb redis.UniversalClient) *Client { return &Client{rdb: rdb} }

// Get returns the value at key. a missing key is ok=false with no error
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores val at key. ttl <= 0 keeps it forever
func (c *Client) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

// Ping checks the server answers
func (c *Client) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

// Close closes the client
func (c *Client) Close() error { return c.rdb.Close() }
