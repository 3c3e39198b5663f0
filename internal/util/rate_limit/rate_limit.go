package rate_limit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"taskflow/internal/cache"

	"github.com/valkey-io/valkey-go"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter applies a token bucket per key. With a Valkey client the
// buckets are shared between instances; otherwise they live in process.
type KeyedRateLimiter struct {
	client     valkey.Client
	prefix     string
	rpsLimit   int
	burstLimit int

	mu        sync.Mutex
	limiters  map[string]*localBucket
	idleTTL   time.Duration
	lastSweep time.Time
}

// localBucket is dropped after idleTTL without requests. By then it has
// refilled, so a fresh bucket answers the same way.
type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimitResult struct {
	Allowed       bool      `json:"allowed"`
	Remaining     int       `json:"remaining"`
	ResetTime     time.Time `json:"resetTime"`
	RetryAfterSec int       `json:"retryAfterSec,omitempty"`
}

const (
	defaultTimeout = 5 * time.Second
	bucketTTLSec   = 300
)

// Atomically refills the bucket for the elapsed time, then takes a token if
// one is available. Returns {allowed, remaining, ms until full}.
const tokenBucketLuaScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local rps_limit = tonumber(ARGV[2])
local burst_limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local current = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(current[1]) or burst_limit
local last_refill = tonumber(current[2]) or now

local elapsed = math.max(0, now - last_refill)
local tokens_to_add = math.floor(elapsed * rps_limit / 1000)
tokens = math.min(burst_limit, tokens + tokens_to_add)
if tokens_to_add > 0 then
    last_refill = now
end

local allowed = 0
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
end

redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
redis.call('EXPIRE', key, ttl)

local time_to_full = 0
if tokens < burst_limit then
    time_to_full = math.ceil((burst_limit - tokens) * 1000 / rps_limit)
end

return {allowed, tokens, time_to_full}
`

func NewKeyedRateLimiter(prefix string, rpsLimit, burstLimit int) *KeyedRateLimiter {
	return newKeyedRateLimiter(cache.GetCache(), prefix, rpsLimit, burstLimit)
}

// NewLocalRateLimiter never touches Valkey, even when it is configured.
func NewLocalRateLimiter(prefix string, rpsLimit, burstLimit int) *KeyedRateLimiter {
	return newKeyedRateLimiter(nil, prefix, rpsLimit, burstLimit)
}

func newKeyedRateLimiter(client valkey.Client, prefix string, rpsLimit, burstLimit int) *KeyedRateLimiter {
	if rpsLimit <= 0 {
		rpsLimit = 1
	}
	if burstLimit <= 0 {
		burstLimit = rpsLimit
	}

	idleTTL := bucketTTLSec * time.Second
	if refill := time.Duration(burstLimit) * time.Second / time.Duration(rpsLimit); refill > idleTTL {
		idleTTL = refill
	}

	return &KeyedRateLimiter{
		client:     client,
		prefix:     "rate_limit:" + prefix + ":",
		rpsLimit:   rpsLimit,
		burstLimit: burstLimit,
		limiters:   make(map[string]*localBucket),
		idleTTL:    idleTTL,
	}
}

func (r *KeyedRateLimiter) CheckRateLimit(key string) (*RateLimitResult, error) {
	if r.client == nil {
		return r.checkLocal(key), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := r.client.Do(ctx, r.client.B().Eval().
		Script(tokenBucketLuaScript).
		Numkeys(1).
		Key(r.prefix+key).
		Arg(fmt.Sprintf("%d", time.Now().UnixMilli())).
		Arg(fmt.Sprintf("%d", r.rpsLimit)).
		Arg(fmt.Sprintf("%d", r.burstLimit)).
		Arg(fmt.Sprintf("%d", bucketTTLSec)).
		Build())

	if result.Error() != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", result.Error())
	}

	values, err := result.AsIntSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate limit result: %w", err)
	}

	if len(values) < 3 {
		return nil, fmt.Errorf("invalid rate limit result: expected 3 values, got %d", len(values))
	}

	allowed := values[0] == 1

	return &RateLimitResult{
		Allowed:       allowed,
		Remaining:     int(values[1]),
		ResetTime:     time.Now().Add(time.Duration(values[2]) * time.Millisecond),
		RetryAfterSec: r.retryAfter(allowed),
	}, nil
}

func (r *KeyedRateLimiter) ResetRateLimit(key string) error {
	if r.client == nil {
		r.mu.Lock()
		delete(r.limiters, key)
		r.mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return r.client.Do(ctx, r.client.B().Del().Key(r.prefix+key).Build()).Error()
}

func (r *KeyedRateLimiter) checkLocal(key string) *RateLimitResult {
	now := time.Now()

	r.mu.Lock()
	r.evictIdleLocked(now)
	bucket, ok := r.limiters[key]
	if !ok {
		bucket = &localBucket{limiter: rate.NewLimiter(rate.Limit(r.rpsLimit), r.burstLimit)}
		r.limiters[key] = bucket
	}
	bucket.lastSeen = now
	limiter := bucket.limiter
	r.mu.Unlock()

	allowed := limiter.AllowN(now, 1)
	tokens := limiter.TokensAt(now)

	missing := float64(r.burstLimit) - tokens
	timeToFull := time.Duration(math.Ceil(missing*1000/float64(r.rpsLimit))) * time.Millisecond

	return &RateLimitResult{
		Allowed:       allowed,
		Remaining:     max(0, int(math.Floor(tokens))),
		ResetTime:     now.Add(timeToFull),
		RetryAfterSec: r.retryAfter(allowed),
	}
}

// evictIdleLocked sweeps at most once per idleTTL. r.mu must be held.
func (r *KeyedRateLimiter) evictIdleLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.idleTTL {
		return
	}
	r.lastSweep = now

	for key, bucket := range r.limiters {
		if now.Sub(bucket.lastSeen) >= r.idleTTL {
			delete(r.limiters, key)
		}
	}
}

func (r *KeyedRateLimiter) retryAfter(allowed bool) int {
	if allowed {
		return 0
	}

	return max(1, int(math.Ceil(1.0/float64(r.rpsLimit))))
}
