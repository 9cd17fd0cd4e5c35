package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "feed:all:page:"

// RedisCache shares global feed pages between processes. Expiry is left to redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, number int) (Page, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+strconv.Itoa(number)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("feed cache read failed", "error", err, "page", number)
		}
		return Page{}, false
	}
	page := Page{}
	if err = json.Unmarshal(data, &page); err != nil {
		slog.Error("feed cache entry is corrupted", "error", err, "page", number)
		return Page{}, false
	}
	return page, true
}

func (c *RedisCache) Set(ctx context.Context, number int, page Page) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		slog.Error("feed cache encode failed", "error", err, "page", number)
		return
	}
	if err = c.client.Set(ctx, redisKeyPrefix+strconv.Itoa(number), data, c.ttl).Err(); err != nil {
		slog.Error("feed cache write failed", "error", err, "page", number)
	}
}

func (c *RedisCache) Clear(ctx context.Context) error {
	keys := []string{}
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
