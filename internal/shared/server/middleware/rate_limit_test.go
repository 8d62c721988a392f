package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitGenerationStricterThanDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.Request.Method == http.MethodPost {
			return "GENERATION"
		}
		return "DEFAULT"
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("sessionId", "session-1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT":    {Rate: 5, Burst: 10},
			"GENERATION": {Rate: 1, Burst: 2},
		},
	}))

	r.GET("/api/v1/resumes/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/resumes", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/resume-1", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("read request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("generation request %d expected 201, got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("generation request 3 expected 429, got %d", resp.Code)
	}
}

func TestRateLimitIsPerSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("sessionId", c.GetHeader("X-Test-Session"))
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		Limiter: limiter,
		Rules:   map[string]RateLimitRule{"DEFAULT": {Rate: 1, Burst: 1}},
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, session := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Test-Session", session)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("session %s expected 200, got %d", session, resp.Code)
		}
	}
}

func TestRateLimitRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 2, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected first call allowed")
	}
	ok, wait := limiter.Allow("k", rule)
	if ok || wait != 500*time.Millisecond {
		t.Fatalf("expected denial with 500ms wait, got ok=%v wait=%s", ok, wait)
	}
	now = now.Add(500 * time.Millisecond)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected call allowed after refill")
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("sessionId", "session-1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			return "DEFAULT"
		},
		Limiter: limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT": {Rate: 1, Burst: 1},
		},
	}))
	r.GET("/api/v1/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, req1)
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp2.Header().Get("Retry-After"))
	}

	var payload struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Success || payload.Error.Code != "RATE_LIMITED" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if _, ok := payload.Error.Details["retryAfterMs"]; !ok {
		t.Fatalf("expected retryAfterMs in details")
	}
}

func TestRateLimiterPrunesRefilledBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 10, Burst: 2}

	for i := 0; i < pruneEvery-1; i++ {
		limiter.Allow(fmt.Sprintf("session-%d", i), rule)
	}
	if got := limiter.Len(); got != pruneEvery-1 {
		t.Fatalf("expected %d buckets, got %d", pruneEvery-1, got)
	}

	now = now.Add(time.Second)
	limiter.Allow("fresh", rule)
	if got := limiter.Len(); got != 1 {
		t.Fatalf("expected refilled buckets pruned, %d left", got)
	}
}
