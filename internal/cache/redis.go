package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Client is a small byte cache over redis, used as a read-through cache for
// TMDB detail payloads.
type Client struct {
	rdb *redis.Client
	log *logrus.Logger
}

func New(addr, password string, log *logrus.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	log.WithField("addr", addr).Info("cache: connected to redis")
	return &Client{rdb: rdb, log: log}, nil
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache: get failed")
		return nil, false
	}
	return val, true
}

func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache: set failed")
	}
}

func (c *Client) Close() {
	c.rdb.Close()
}
