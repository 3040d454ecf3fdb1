package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resale-inventory/pkg/log"
)

const HeaderRequestID = "X-Request-ID"

// RequestID tags the request context with the caller's X-Request-ID, or a new one,
// so every log line of the request carries it.
func (m Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Logger writes one line per request.
func (m Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		format := "%s %s %d %s"
		args := []any{c.Request.Method, c.Request.URL.Path, status, time.Since(start)}
		switch {
		case status >= 500:
			m.l.Errorf(ctx, format, args...)
		case status >= 400:
			m.l.Warnf(ctx, format, args...)
		default:
			m.l.Infof(ctx, format, args...)
		}
	}
}
