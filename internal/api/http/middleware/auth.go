package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avdeev/vidtube-server/internal/api/http/httpctx"
	"github.com/avdeev/vidtube-server/internal/logger"
)

// TokenParser resolves user IDs from access tokens.
type TokenParser interface {
	ParseAccessToken(token string) (uuid.UUID, error)
}

// Authenticate validates bearer/cookie access tokens and injects the
// user ID into the request context.
type Authenticate struct {
	tokens TokenParser
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, logger: logger}
}

// tokenFromRequest reads the access token from the Authorization header
// or the accessToken cookie.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	}
	cookie, _ := c.Cookie("accessToken")
	return cookie
}

// Required rejects requests without a valid access token.
func (m *Authenticate) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			abortUnauthorized(c, "unauthorized request")
			return
		}

		userID, err := m.tokens.ParseAccessToken(tokenString)
		if err != nil || userID == uuid.Nil {
			abortUnauthorized(c, "invalid access token")
			return
		}

		httpctx.SetUserID(c, userID)
		c.Next()
	}
}

// Optional injects the user ID when a valid token is present and leaves
// the request anonymous otherwise. It never rejects.
func (m *Authenticate) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if userID, err := m.tokens.ParseAccessToken(tokenString); err == nil && userID != uuid.Nil {
				httpctx.SetUserID(c, userID)
			}
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"statusCode": http.StatusUnauthorized,
		"data":       nil,
		"message":    message,
		"success":    false,
	})
}
