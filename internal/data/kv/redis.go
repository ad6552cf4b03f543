package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis stores each visitor's entries in one hash so a whole namespace
// expires together.
type Redis struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "cg:persona"
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *Redis) hashKey(visitorID string) string {
	return r.prefix + ":" + visitorID
}

func (r *Redis) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, r.hashKey(visitorID), key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, visitorID, key, value string) error {
	hk := r.hashKey(visitorID)
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, hk, key, value)
		if r.ttl > 0 {
			p.Expire(ctx, hk, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, visitorID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.HDel(ctx, r.hashKey(visitorID), keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

// Ping reports whether the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
