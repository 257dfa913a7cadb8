package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/finpulse/internal/logger"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

var inboundRequestID = regexp.MustCompile(`^[A-Za-z0-9\-_.]{1,64}$`)

// RequestID is a Gin middleware that tags each incoming HTTP request with an
// identifier.
//
// Behavior:
//   - Reuses a well-formed inbound X-Request-ID (up to 64 of [A-Za-z0-9-_.]);
//     otherwise generates a new UUID (v4).
//   - Stores it in the Gin context under the key "request_id".
//   - Attaches a request-scoped zerolog logger to the request context, so
//     logger.Ctx(c.Request.Context()) carries the id.
//   - Adds it to the response headers as "X-Request-ID".
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID())
//
// Returns:
//   - gin.HandlerFunc: the middleware function.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !inboundRequestID.MatchString(id) {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)

		l := logger.WithRequestID(id)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}
