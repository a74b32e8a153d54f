package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var (
	ErrBucketNotConfigured = errors.New("rate_limiter_not_configured")
	ErrInvalidBucket       = errors.New("invalid_rate_limit_bucket")
	ErrBucketResponse      = errors.New("invalid_rate_limit_response")
)

// Tokens refill continuously at rate per second up to burst. Redis converts
// Lua numbers to integers on return, so the remaining count is floored.
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local clock = redis.call("TIME")
local now = (clock[1] * 1000) + math.floor(clock[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1])
local ts = tonumber(state[2])

if tokens == nil then
  tokens = burst
else
  local elapsed = math.max(0, now - ts)
  tokens = math.min(burst, tokens + (elapsed / 1000) * rate)
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, math.floor(tokens)}
`

// TokenBucket is a Redis-backed bucket shared by every instance.
type TokenBucket struct {
	client *redis.Client
	script *redis.Script
}

type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

func NewTokenBucket(client *redis.Client) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{
		client: client,
		script: redis.NewScript(tokenBucketScript),
	}
}

// Allow takes one token from the bucket stored at key.
func (t *TokenBucket) Allow(ctx context.Context, key string, rate float64, burst int) (*RateLimitResult, error) {
	if t == nil || t.client == nil {
		return nil, ErrBucketNotConfigured
	}
	if key == "" || rate <= 0 || burst <= 0 {
		return nil, ErrInvalidBucket
	}

	res, err := t.script.Run(ctx, t.client, []string{key}, rate, burst, bucketTTL(rate, burst).Milliseconds()).Int64Slice()
	if err != nil {
		return nil, err
	}
	if len(res) != 2 {
		return nil, ErrBucketResponse
	}

	result := &RateLimitResult{
		Allowed:   res[0] == 1,
		Limit:     burst,
		Remaining: int(res[1]),
	}
	if !result.Allowed {
		result.RetryAfter = time.Duration(float64(time.Second) / rate)
	}
	return result, nil
}

// bucketTTL keeps idle buckets for twice the time a full refill takes.
func bucketTTL(rate float64, burst int) time.Duration {
	if rate <= 0 || burst <= 0 {
		return time.Second
	}
	seconds := math.Max(1, math.Ceil(float64(burst)/rate*2))
	return time.Duration(seconds) * time.Second
}
