package middleware

import (
	"strings"

	"postulate-api/models"
	"postulate-api/services"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
	ctxEmail  = "email"
)

// TokenVerifier is satisfied by services.TokenService.
type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// AuthMiddleware validates the bearer token. It trusts the claims and does
// not look the user up.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, services.AuthenticationError("Authorization header is required"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			abortWith(c, services.AuthenticationError("Invalid authorization header format"))
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxEmail, claims.Email)

		c.Next()
	}
}

// RequireRole checks if user has specific role
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			abortWith(c, services.AuthenticationError("Authentication required"))
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		abortWith(c, services.AuthorizationError("Insufficient permissions"))
	}
}

// CurrentActor returns the caller set by AuthMiddleware.
func CurrentActor(c *gin.Context) (services.Actor, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		return services.Actor{}, false
	}
	role, _ := c.Get(ctxRole)
	r, _ := role.(models.Role)
	return services.Actor{UserID: userID, Role: r}, true
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
