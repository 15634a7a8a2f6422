package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/utils"
)

// ErrCacheMiss is returned by GetJSON when the key is absent or the cache
// is disabled.
var ErrCacheMiss = errors.New("cache miss")

// Client is a small JSON cache on top of go-redis. It is optional
// infrastructure: when REDIS_ADDR is unset the client is disabled and every
// read misses, so callers fall through to the database.
type Client struct {
	rdb *redis.Client
	log *logger.Logger
}

func NewClient(baseLog *logger.Logger) *Client {
	clientLog := baseLog.With("client", "Redis")
	addr := utils.GetEnv("REDIS_ADDR", "", clientLog)
	if addr == "" {
		clientLog.Info("REDIS_ADDR not set, cache disabled")
		return &Client{log: clientLog}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", clientLog),
		DB:       utils.GetEnvAsInt("REDIS_DB", 0, clientLog),
	})
	return &Client{rdb: rdb, log: clientLog}
}

func (c *Client) Enabled() bool { return c != nil && c.rdb != nil }

func (c *Client) GetJSON(ctx context.Context, key string, dest any) error {
	if !c.Enabled() {
		return ErrCacheMiss
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
