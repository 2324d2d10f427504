package cache

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps a Redis connection used as a best-effort read-through
// cache. A nil *Client is valid and behaves as a permanent miss, so
// callers never have to branch on whether caching is configured.
type Client struct {
	rdb *redis.Client
}

var ErrMiss = errors.New("cache: miss")

// NewFromEnv returns a client from CACHE_HOST/CACHE_PORT/CACHE_PASSWORD,
// or nil when no host is configured.
func NewFromEnv() *Client {
	host := os.Getenv("CACHE_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("CACHE_PORT")
	if port == "" {
		port = "6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("CACHE_PASSWORD"),
	})
	return &Client{rdb: rdb}
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", ErrMiss
	}
	v, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrMiss
	}
	return v, err
}

func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Del(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, key).Err()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
