package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Headers identifying the browser (client) and the tab (session). They play
// the role of the browser's local and session storage areas.
const (
	ClientIDHeader  = "X-Client-ID"
	SessionIDHeader = "X-Session-ID"
)

// Gin context keys set by SessionMiddleware.
const (
	ClientIDKey  = "client_id"
	SessionIDKey = "session_id"
)

// SessionMiddleware resolves the client and session ids of a request,
// generating ids for first-time visitors and echoing them back so the caller
// can persist them. Ids that are not UUIDs are replaced.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := resolveID(c.GetHeader(ClientIDHeader))
		sessionID := resolveID(c.GetHeader(SessionIDHeader))

		c.Set(ClientIDKey, clientID)
		c.Set(SessionIDKey, sessionID)
		c.Header(ClientIDHeader, clientID)
		c.Header(SessionIDHeader, sessionID)

		if l, ok := c.Get("logger"); ok {
			if logger, ok := l.(*zap.Logger); ok {
				c.Set("logger", logger.With(
					zap.String("client_id", clientID),
					zap.String("session_id", sessionID),
				))
			}
		}

		c.Next()
	}
}

func resolveID(v string) string {
	if id, err := uuid.Parse(v); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
