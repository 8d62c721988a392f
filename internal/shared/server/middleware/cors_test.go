package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newCORSRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.POST("/api/v1/resumes/:id/regenerate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func corsRequest(router http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/resumes/123/regenerate", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	resp := corsRequest(newCORSRouter("http://localhost:3000"), http.MethodOptions, "http://localhost:3000")

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	assertCORSHeaders(t, resp, "http://localhost:3000")
	if got := resp.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials for listed origin, got %q", got)
	}
}

func TestCORSListedOriginOnPost(t *testing.T) {
	resp := corsRequest(newCORSRouter("http://localhost:3000"), http.MethodPost, "http://localhost:3000")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	assertCORSHeaders(t, resp, "http://localhost:3000")
}

func TestCORSWildcardOmitsCredentials(t *testing.T) {
	resp := corsRequest(newCORSRouter("*"), http.MethodPost, "https://app.example.com")

	assertCORSHeaders(t, resp, "https://app.example.com")
	if got := resp.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Fatalf("wildcard must not advertise credentials, got %q", got)
	}
}

func TestCORSUnlistedOriginGetsNoHeaders(t *testing.T) {
	resp := corsRequest(newCORSRouter("http://localhost:3000"), http.MethodPost, "https://evil.example.com")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected request to pass through, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no Allow-Origin, got %q", got)
	}
}

func assertCORSHeaders(t *testing.T, resp *httptest.ResponseRecorder, origin string) {
	t.Helper()
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Fatalf("expected Allow-Origin %s, got %q", origin, got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("expected Allow-Methods header")
	}
	if got := resp.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Fatalf("expected Allow-Headers header")
	}
	if got := resp.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Fatalf("expected Max-Age 600, got %q", got)
	}
}
