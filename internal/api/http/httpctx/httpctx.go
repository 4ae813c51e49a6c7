// Package httpctx carries the authenticated identity through the
// request context. Identity is always an explicit value set by the auth
// middleware, never ambient global state.
package httpctx

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "vidtube.userID"

// SetUserID attaches the authenticated user ID to the request context.
func SetUserID(c *gin.Context, userID uuid.UUID) {
	c.Set(userIDKey, userID)
}

// UserID returns the authenticated user ID, if any. Anonymous requests
// report false.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
