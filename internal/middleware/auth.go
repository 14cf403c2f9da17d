package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskly-be/internal/entities"
	"taskly-be/internal/jwt"
	"taskly-be/internal/repository"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextUser  = "user"
	ContextToken = "token"
)

const bearerPrefix = "Bearer "

// AuthMiddleware authenticates requests by bearer token. A token is accepted
// only when its signature verifies AND the exact token string is still a
// member of the decoded user's token collection, so revoked tokens fail even
// though they are cryptographically intact. Every failure mode produces the
// same 401 response; callers learn nothing about which step rejected them.
func AuthMiddleware(jwtService *jwt.JWTService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			unauthorized(c)
			return
		}
		token := strings.TrimPrefix(header, bearerPrefix)

		userID, err := jwtService.Verify(token)
		if err != nil {
			unauthorized(c)
			return
		}

		user, err := userRepo.FindByIDWithToken(c.Request.Context(), userID, token)
		if err != nil {
			unauthorized(c)
			return
		}

		// Handlers need the user to scope their queries and the exact
		// token to know which session to revoke on logout.
		c.Set(ContextUser, user)
		c.Set(ContextToken, token)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "Please authenticate.",
	})
}

// CurrentUser returns the authenticated user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*entities.User)
	return user, ok
}

// CurrentToken returns the verified token the request authenticated with.
func CurrentToken(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextToken)
	if !exists {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}
