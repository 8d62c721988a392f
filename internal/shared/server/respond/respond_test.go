package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func perform(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	return rec
}

func TestErrorEnvelope(t *testing.T) {
	rec := perform(t, func(c *gin.Context) {
		Error(c, http.StatusNotFound, "RESUME_NOT_FOUND", "Resume not found", nil)
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error.Code != "RESUME_NOT_FOUND" || body.Path != "/x" || body.Timestamp == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestPaginatedEnvelope(t *testing.T) {
	rec := perform(t, func(c *gin.Context) {
		Paginated(c, []int{1, 2}, Pagination{Page: 1, Limit: 2, Total: 3, TotalPages: 2, HasNext: true})
	})
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success, got %v", body)
	}
	p := body["pagination"].(map[string]any)
	if p["totalPages"].(float64) != 2 || p["hasNext"] != true || p["hasPrev"] != false {
		t.Fatalf("unexpected pagination %v", p)
	}
}

func TestNoContent(t *testing.T) {
	rec := perform(t, func(c *gin.Context) { NoContent(c) })
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d %q", rec.Code, rec.Body.String())
	}
}
