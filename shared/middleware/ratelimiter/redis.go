package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenBucketLua = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = burst
end
if ts == nil then
  ts = now
end

local delta = math.max(0, now - ts)
tokens = math.min(burst, tokens + (delta * rate) / 1000.0)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HSET", key, "tokens", tostring(tokens), "ts", tostring(now))
redis.call("PEXPIRE", key, math.ceil((burst / rate) * 1000.0 * 2))

return allowed
`

// RedisLimiter shares buckets between API instances.
type RedisLimiter struct {
	rdb    redis.Scripter
	prefix string
	rate   float64
	burst  float64
	script *redis.Script
	now    func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

func NewRedis(rdb redis.Scripter, prefix string, rate, burst float64) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		rate:   rate,
		burst:  burst,
		script: redis.NewScript(tokenBucketLua),
		now:    time.Now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := r.script.Run(ctx, r.rdb, []string{r.prefix + key}, r.rate, r.burst, r.now().UnixMilli()).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit eval: %w", err)
	}
	return res == 1, nil
}
