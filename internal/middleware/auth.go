package middleware

import (
	"strings"

	"github.com/dimitrije/harbor-teams/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserEmailKey   = "user_email"
	AccessTokenKey = "access_token"
)

func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil || claims.Email == "" {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(UserEmailKey, claims.Email)
		c.Set(AccessTokenKey, parts[1])

		c.Next()
	}
}

func GetUserEmail(c *drift.Context) string {
	if email, ok := c.Get(UserEmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

// GetAccessToken returns the bearer token the request was authenticated
// with. Form submissions forward it as their credential.
func GetAccessToken(c *drift.Context) string {
	if token, ok := c.Get(AccessTokenKey); ok {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}
