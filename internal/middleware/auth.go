package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenClaims carries the identity extracted from a validated token.
type TokenClaims struct {
	UserID uint
}

// TokenValidator is an interface for validating JWT tokens.
type TokenValidator interface {
	ValidateToken(token string) (*TokenClaims, error)
}

// ContextUserID is the gin context key under which the authenticated
// user id is stored.
const ContextUserID = "user_id"

// AuthMiddleware creates a middleware that requires a valid bearer token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, validator)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "authentication credentials were not provided"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the requester when a valid token is
// present but lets anonymous requests through. List and detail
// endpoints use it: their payloads carry per-user flags such as
// is_favorited.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, validator); ok {
			c.Set(ContextUserID, claims.UserID)
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 for anonymous
// requests.
func CurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get(ContextUserID); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func bearerClaims(c *gin.Context, validator TokenValidator) (*TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
