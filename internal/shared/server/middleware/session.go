package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionIDKey = "sessionId"

	// SessionCookieName is the cookie carrying the session identifier.
	SessionCookieName = "sessionId"
	// SessionMaxAge is the lifetime of the session cookie.
	SessionMaxAge = 30 * 24 * time.Hour
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// Session resolves the caller's session from the sessionId cookie, then an
// Authorization bearer token, and otherwise issues a new one. The cookie is
// (re)set whenever the request did not carry it.
func Session(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		fromCookie := ""
		if ck, err := c.Request.Cookie(SessionCookieName); err == nil && sessionIDPattern.MatchString(ck.Value) {
			fromCookie = ck.Value
		}

		id := fromCookie
		if id == "" {
			id = bearerSession(c.GetHeader("Authorization"))
		}
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(sessionIDKey, id)

		if fromCookie == "" {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(SessionMaxAge / time.Second),
				Expires:  time.Now().Add(SessionMaxAge),
				HttpOnly: production,
				Secure:   production,
				SameSite: http.SameSiteStrictMode,
			})
		}
		c.Next()
	}
}

func bearerSession(header string) string {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if !sessionIDPattern.MatchString(token) {
		return ""
	}
	return token
}

// SessionIDFromContext fetches the session ID set by the Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
