package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mailpipe/internal/model"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return fmt.Sprintf("email:%s", id)
}

func (c *RedisCache) StoreResult(ctx context.Context, rec model.StatusRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(rec.ID), b, c.ttl).Err()
}

func (c *RedisCache) GetResult(ctx context.Context, id string) (model.StatusRecord, bool, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.StatusRecord{}, false, nil
		}
		return model.StatusRecord{}, false, err
	}

	var rec model.StatusRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.StatusRecord{}, false, err
	}
	return rec, true, nil
}

var _ ResultCache = (*RedisCache)(nil)
