package respond

import (
	"time"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/telemetry"
)

// Error codes shared across handlers.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeParamValidation = "PARAM_VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
	Path      string    `json:"path"`
}

// Error sends a standardized error response and aborts the chain.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if sessionID := c.GetString("sessionId"); sessionID != "" {
		fields["session_id"] = sessionID
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: timestamp(),
		Path:      c.Request.URL.Path,
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
