package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader     = "X-Session-ID"
	SessionContextKey = "session_id"

	RequestIDHeader     = "X-Request-ID"
	RequestIDContextKey = "request_id"
)

// SessionID reads the visitor session from X-Session-ID. A missing or
// malformed value is replaced with a fresh id; the id in use is always echoed
// back so the storefront can keep it.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(SessionContextKey, id)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

// GetSessionID returns the session set by SessionID, or "" when the
// middleware did not run.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionContextKey)
}

// RequestID propagates X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(RequestIDContextKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}
