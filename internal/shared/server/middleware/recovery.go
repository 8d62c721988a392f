package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/metrics"
	"resume-maker/internal/shared/server/respond"
	"resume-maker/internal/shared/telemetry"
)

// Recovery turns handler panics into a 500 INTERNAL_ERROR envelope. Panics
// caused by a client that hung up are logged and the response is dropped.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"session_id": SessionIDFromContext(c),
				"resume_id":  c.GetString("resumeId"),
				"error":      rec,
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			}
			if brokenPipe(rec) {
				telemetry.Warn("client connection lost", fields)
				c.Abort()
				return
			}
			fields["stack"] = string(debug.Stack())
			telemetry.Error("panic", fields)
			metrics.IncError("http", "panic")
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "Unexpected server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}

func brokenPipe(rec any) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if !errors.As(opErr, &sysErr) {
		return false
	}
	msg := strings.ToLower(sysErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
