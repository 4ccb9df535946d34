package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Token bucket, one bucket per key. One token is added every refill_time
// seconds up to max_tokens. The key lives as long as an empty bucket takes
// to fill, so an expired key and a full bucket are the same state.
const luaScript = `
local key = KEYS[1]
local max_tokens = tonumber(ARGV[1])
local refill_time = tonumber(ARGV[2])
local current_time = tonumber(ARGV[3])
local bucket = redis.call("HMGET", key, "tokens", "last_refill")
local tokens = tonumber(bucket[1])
local last_refill = tonumber(bucket[2])
if tokens == nil or last_refill == nil then
	tokens = max_tokens
	last_refill = current_time
end
local refill = math.floor(math.max(0, current_time - last_refill) / refill_time)
if refill > 0 then
	tokens = tokens + refill
	last_refill = last_refill + refill * refill_time
end
if tokens >= max_tokens then
	tokens = max_tokens
	last_refill = current_time
end
if tokens > 0 then
	tokens = tokens - 1
	redis.call("HMSET", key, "tokens", tokens, "last_refill", last_refill)
	redis.call("EXPIRE", key, math.ceil(max_tokens * refill_time))
	return 1
else
	return 0
end`

var tokenBucket = redis.NewScript(luaScript)

type RedisStore struct {
	client     *redis.Client
	maxTokens  int
	refillTime int
	now        func() time.Time
}

func NewRedisStore(ctx context.Context, url string, maxTokens int, refill time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	refillSeconds := int(refill / time.Second)
	if refillSeconds < 1 {
		refillSeconds = 1
	}
	return &RedisStore{
		client:     client,
		maxTokens:  maxTokens,
		refillTime: refillSeconds,
		now:        time.Now,
	}, nil
}

func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	res, err := tokenBucket.Run(ctx, s.client, []string{"ratelimit:" + key},
		s.maxTokens, s.refillTime, s.now().Unix()).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (s *RedisStore) HasAPIKey(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, "apikey:"+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) StoreAPIKey(ctx context.Context, key string) error {
	return s.client.Set(ctx, "apikey:"+key, true, 0).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
