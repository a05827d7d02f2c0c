package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myposcore/backend/internal/response"
)

const (
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "
)

// TokenValidator checks a bearer token and returns its subject and role.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (subject, role string, err error)
}

// AuthMiddleware requires a valid Bearer token (401, code 2) and, when roles
// are given, one of them (403, code 3).
func AuthMiddleware(validator TokenValidator, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderAuthorization)
		if !strings.HasPrefix(raw, BearerPrefix) || strings.TrimSpace(strings.TrimPrefix(raw, BearerPrefix)) == "" {
			c.Abort()
			response.Unauthorized(c, "missing bearer token")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(raw, BearerPrefix))

		subject, role, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.Abort()
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		if len(roles) > 0 && !contains(roles, role) {
			c.Abort()
			response.Forbidden(c, "insufficient role")
			return
		}

		c.Set(string(ContextKeySubject), subject)
		c.Set(string(ContextKeyRole), role)
		ctx := context.WithValue(c.Request.Context(), ContextKeySubject, subject)
		c.Request = c.Request.WithContext(context.WithValue(ctx, ContextKeyRole, role))
		c.Next()
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
