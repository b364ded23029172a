package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/patient-api/internal/handler"
	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/service/access"
	"github.com/jwalitptl/patient-api/pkg/auth"
)

// Context keys set by the auth middleware.
const (
	ContextUserEmail = "user_email"
	ContextUser      = "user"
)

type AuthMiddleware struct {
	jwt         auth.JWTService
	revocations *auth.RevocationStore
	access      *access.Service
}

func NewAuthMiddleware(jwt auth.JWTService, revocations *auth.RevocationStore, access *access.Service) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:         jwt,
		revocations: revocations,
		access:      access,
	}
}

// Authenticate verifies the bearer token and stores the claimed email in
// the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		token := parts[1]
		if m.revocations.IsRevoked(token) {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("token has been revoked"))
			c.Abort()
			return
		}

		email, err := m.jwt.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextUserEmail, email)
		c.Next()
	}
}

// RequireRoles resolves the authenticated email to a live user and
// enforces the role set. An empty set means any authenticated active
// user. Runs after Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextUserEmail)

		user, err := m.access.Authorize(c.Request.Context(), email, roles...)
		if err != nil {
			handler.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireRoles.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextUser); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
