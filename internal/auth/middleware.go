package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	userIDKey        = "user_id"
	AdminTokenHeader = "X-Admin-Token"
)

// TokenFromHeader extracts the token from an Authorization header value.
// The raw token is accepted as is; a "Bearer " prefix is tolerated.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// AuthMiddleware validates tokens and protects routes
func AuthMiddleware(tokens *TokenService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Token is missing!",
			})
			return
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			log.WithFields(logrus.Fields{
				"path":    c.FullPath(),
				"expired": errors.Is(err, ErrTokenExpired),
			}).Debug("token rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Token is invalid or expired!",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// AdminMiddleware requires the X-Admin-Token header to match adminToken.
// An empty adminToken leaves the route open.
func AdminMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			c.Next()
			return
		}

		given := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Admin authorization required.",
			})
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}
