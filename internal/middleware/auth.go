package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectred/donor-api/pkg/auth"

	"github.com/projectred/donor-api/internal/model"
)

const ContextPrincipal = "principal"

type AuthMiddleware struct {
	tokens *auth.TokenService
}

func NewAuthMiddleware(tokens *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token and stores the resolved
// principal in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(c, "invalid authorization format")
			return
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			m.reject(c, "invalid token")
			return
		}

		c.Set(ContextPrincipal, &model.Principal{
			Kind:  claims.Kind,
			ID:    claims.SubjectID,
			Email: claims.Email,
		})
		c.Next()
	}
}

// RequirePerson restricts a route to donor/recipient principals.
func (m *AuthMiddleware) RequirePerson() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil || !p.IsPerson() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "requires a donor account",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}
		c.Next()
	}
}

// RequireHospital restricts a route to hospital staff principals.
func (m *AuthMiddleware) RequireHospital() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil || !p.IsHospital() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "requires a hospital account",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: message,
		TraceID: c.GetString(ContextRequestID),
	})
}

// GetPrincipal returns the authenticated principal, or nil on
// unauthenticated routes.
func GetPrincipal(c *gin.Context) *model.Principal {
	if v, ok := c.Get(ContextPrincipal); ok {
		if p, ok := v.(*model.Principal); ok {
			return p
		}
	}
	return nil
}
