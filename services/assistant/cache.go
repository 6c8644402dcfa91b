package assistant

import (
	"context"
	"encoding/json"
	"time"

	"timetable/utils"

	"github.com/go-redis/redis/v8"
)

// DayCache holds recently read day documents.
type DayCache interface {
	Get(ctx context.Context, collection, day string) (map[string]any, bool, error)
	Set(ctx context.Context, collection, day string, fields map[string]any) error
	Invalidate(ctx context.Context, collection, day string) error
	Ping(ctx context.Context) error
}

type RedisDayCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDayCache(client *redis.Client, ttl time.Duration) *RedisDayCache {
	return &RedisDayCache{client: client, ttl: ttl}
}

func dayKey(collection, day string) string {
	return utils.DayCachePrefix + collection + ":" + day
}

func (c *RedisDayCache) Get(ctx context.Context, collection, day string) (map[string]any, bool, error) {
	data, err := c.client.Get(ctx, dayKey(collection, day)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, false, err
	}
	return fields, true, nil
}

func (c *RedisDayCache) Set(ctx context.Context, collection, day string, fields map[string]any) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dayKey(collection, day), b, c.ttl).Err()
}

func (c *RedisDayCache) Invalidate(ctx context.Context, collection, day string) error {
	return c.client.Del(ctx, dayKey(collection, day)).Err()
}

func (c *RedisDayCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
