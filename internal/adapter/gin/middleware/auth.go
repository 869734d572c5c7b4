package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user-auth-service/pkg/logger"
	"user-auth-service/pkg/token"
)

const userIDKey = "auth.user_id"

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// Auth rejects requests without a valid bearer token and stores the token's
// user ID on the gin and request contexts.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parser.Parse(extractBearer(c.GetHeader("Authorization")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// UserID returns the user ID stored by Auth.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}

func extractBearer(value string) string {
	scheme, tok, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}
