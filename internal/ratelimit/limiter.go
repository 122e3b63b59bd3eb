// Package ratelimit implements the distributed token-bucket limiter in
// front of the API: Redis holds the shared bucket state so multiple server
// instances share one budget per key, and a local in-process limiter takes
// over, fail-open, whenever Redis can't answer within budget.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RuleMatch selects where a rule draws its rate-limit key from: the
// client IP, or a named header (e.g. an authenticated user id). Rules are
// tried in declaration order and the first whose source is present on the
// request wins.
type RuleMatch struct {
	UseIP  bool   `koanf:"use_ip"`
	Header string `koanf:"header"`
}

// Rule maps one key source to a token-bucket budget of limit requests per
// period.
type Rule struct {
	Name   string        `koanf:"name"`
	Match  RuleMatch     `koanf:"match"`
	Limit  int           `koanf:"limit"`
	Period time.Duration `koanf:"period"`
}

// burstSize and refillRate translate the declarative limit/period into the
// token-bucket parameters both the Redis script and the local fallback use.
func (r Rule) burstSize() int {
	if r.Limit <= 0 {
		return 60
	}
	return r.Limit
}

func (r Rule) refillRate() float64 {
	if r.Period <= 0 {
		return 1.0
	}
	return float64(r.burstSize()) / r.Period.Seconds()
}

// decisionBudget bounds how long a single Allow call may wait on Redis
// before falling back to the local limiter.
const decisionBudget = 5 * time.Millisecond

// tokenBucketScript atomically checks and decrements a Redis-resident token
// bucket, refilling proportionally to elapsed time. KEYS[1] is the bucket
// key; ARGV are burst size, refill rate (tokens/sec), and the current unix
// time in microseconds.
const tokenBucketScript = `
local key = KEYS[1]
local burst = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local bucket = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(bucket[1])
local ts = tonumber(bucket[2])
if tokens == nil then
  tokens = burst
  ts = now
end

local elapsed = math.max(0, now - ts) / 1000000.0
tokens = math.min(burst, tokens + elapsed * refill)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HMSET", key, "tokens", tokens, "ts", now)
redis.call("EXPIRE", key, 3600)
return allowed
`

// Limiter is the distributed rate limiter. Disabled, it allows everything.
type Limiter struct {
	rules    []Rule
	redis    *redis.Client // nil disables the distributed tier
	disabled bool

	mu    sync.Mutex
	local map[string]*rate.Limiter

	degraded atomic.Int64
}

// New builds a Limiter. redisClient may be nil to run local-only.
func New(rules []Rule, redisClient *redis.Client, disabled bool) *Limiter {
	return &Limiter{rules: rules, redis: redisClient, disabled: disabled, local: make(map[string]*rate.Limiter)}
}

// Decision is the outcome of an Allow check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Degraded   bool // true when Redis was unreachable and the local fallback decided
}

// Allow checks whether r is within budget under the first rule whose key
// source (client IP or a named header) it matches. Any error talking to
// the distributed backing store is fail-open: the local in-process
// limiter decides instead and Degraded is set so callers can log it.
func (l *Limiter) Allow(ctx context.Context, r *http.Request) (Decision, error) {
	if l.disabled {
		return Decision{Allowed: true}, nil
	}
	rule := l.matchRule(r)
	key := keyFor(rule, r)

	if l.redis != nil {
		allowed, err := l.allowRedis(ctx, rule, key)
		if err == nil {
			return Decision{Allowed: allowed, RetryAfter: retryAfter(rule, allowed)}, nil
		}
		// fail open: fall through to the local limiter
	}

	allowed := l.allowLocal(rule, key)
	degraded := l.redis != nil
	if degraded {
		l.degraded.Add(1)
	}
	return Decision{Allowed: allowed, RetryAfter: retryAfter(rule, allowed), Degraded: degraded}, nil
}

// DegradedCount returns how many Allow calls have fallen back to the local
// limiter because the distributed backing store was unreachable, surfaced
// at /healthz.
func (l *Limiter) DegradedCount() int64 {
	return l.degraded.Load()
}

// matchRule picks the first rule whose configured key source is present on
// r: a header rule matches only when that header is actually set, so a
// request missing it falls through to the next rule (typically an
// IP-sourced catch-all).
func (l *Limiter) matchRule(r *http.Request) Rule {
	for _, rule := range l.rules {
		switch {
		case rule.Match.Header != "":
			if r.Header.Get(rule.Match.Header) != "" {
				return rule
			}
		case rule.Match.UseIP:
			return rule
		}
	}
	return Rule{Name: "default", Match: RuleMatch{UseIP: true}, Limit: 60, Period: time.Minute}
}

// keyFor derives the bucket key for rule's matched source: the header
// value it selected on, or the client IP.
func keyFor(rule Rule, r *http.Request) string {
	if rule.Match.Header != "" {
		if v := r.Header.Get(rule.Match.Header); v != "" {
			return v
		}
	}
	return clientIP(r)
}

// clientIP is the fallback key source: the first X-Forwarded-For hop if
// present, else the remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}

func (l *Limiter) allowRedis(ctx context.Context, rule Rule, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, decisionBudget)
	defer cancel()

	now := time.Now().UnixMicro()
	bucketKey := fmt.Sprintf("ratelimit:%s:%s", rule.Name, key)
	result, err := l.redis.Eval(ctx, tokenBucketScript, []string{bucketKey}, rule.burstSize(), rule.refillRate(), now).Result()
	if err != nil {
		return false, err
	}
	n, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("ratelimit: unexpected script result %T", result)
	}
	return n == 1, nil
}

func (l *Limiter) allowLocal(rule Rule, key string) bool {
	l.mu.Lock()
	lim, ok := l.local[rule.Name+":"+key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(rule.refillRate()), rule.burstSize())
		l.local[rule.Name+":"+key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func retryAfter(rule Rule, allowed bool) time.Duration {
	refill := rule.refillRate()
	if allowed || refill <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / refill)
}
