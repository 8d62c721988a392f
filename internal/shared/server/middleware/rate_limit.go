package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"
)

// RateLimitRule is a token bucket refilling Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig maps route groups to rules. GroupFor picks the group per request.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter holds one token bucket per principal and group. Buckets that
// have refilled completely are pruned every pruneEvery calls.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
	calls   int
}

type rateBucket struct {
	tokens float64
	last   time.Time
	// full is when the bucket is back at Burst if left alone.
	full time.Time
}

const pruneEvery = 1024

// NewRateLimiter builds an empty limiter; now defaults to time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// Len reports how many buckets are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit rejects requests over their group's rule with 429 RATE_LIMITED.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(SessionIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		key := principal + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, respond.CodeRateLimited, "Too many requests, slow down", gin.H{
			"group":        group,
			"retryAfterMs": retryAfterMs,
		})
	}
}

// Allow takes one token from key's bucket. When empty it reports how long
// until a token is available. A rule with no rate or burst never limits.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%pruneEvery == 0 {
		l.prune(now)
	}

	burst := float64(rule.Burst)
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: burst, last: now}
		l.buckets[key] = bucket
	}
	if elapsed := now.Sub(bucket.last).Seconds(); elapsed > 0 {
		bucket.tokens = math.Min(burst, bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}

	allowed := bucket.tokens >= 1
	if allowed {
		bucket.tokens--
	}
	bucket.full = now.Add(secondsToDuration((burst - bucket.tokens) / rule.Rate))
	if allowed {
		return true, 0
	}
	return false, secondsToDuration((1 - bucket.tokens) / rule.Rate)
}

func (l *RateLimiter) prune(now time.Time) {
	for key, bucket := range l.buckets {
		if !now.Before(bucket.full) {
			delete(l.buckets, key)
		}
	}
}

func secondsToDuration(sec float64) time.Duration {
	if sec <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(sec*1000.0)) * time.Millisecond
}
