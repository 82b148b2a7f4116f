package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/service"
	"github.com/studahub/backend/pkg/response"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Auth validates the bearer token and stores user id + role in the context.
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after Auth.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(CtxRole)
		current, _ := role.(model.Role)
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient role")
	}
}

// UserID returns the authenticated user id, empty when unauthenticated.
func UserID(c *gin.Context) string {
	id, _ := c.Get(CtxUserID)
	s, _ := id.(string)
	return s
}

// Role returns the authenticated role.
func Role(c *gin.Context) model.Role {
	r, _ := c.Get(CtxRole)
	role, _ := r.(model.Role)
	return role
}

// IsStaff reports whether the caller is an admin or collaborator.
func IsStaff(c *gin.Context) bool {
	r := Role(c)
	return r == model.RoleAdmin || r == model.RoleCollaborator
}
