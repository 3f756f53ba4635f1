package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/interfaces/http/dto"
)

// ActorKey is the gin context key holding the authenticated *identity.User.
const ActorKey = "actor"

// ActorLoader loads the authenticated user for each request.
// identity.UserRepository satisfies it.
type ActorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// ActorMiddlewareConfig holds configuration for the actor middleware.
// Skip lists should mirror the JWT middleware's so public endpoints
// stay public.
type ActorMiddlewareConfig struct {
	Loader           ActorLoader
	SkipPaths        []string
	SkipPathPrefixes []string
}

// ActorMiddlewareWithConfig resolves actors on every path except the
// configured public ones.
func ActorMiddlewareWithConfig(cfg ActorMiddlewareConfig) gin.HandlerFunc {
	resolve := ActorMiddleware(cfg.Loader)
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		resolve(c)
	}
}

// ActorMiddleware resolves the JWT subject to a full user record and
// stores it in the context. It rejects tokens whose user no longer
// exists or is no longer active, so a deactivation takes effect on the
// next request even while old tokens are still circulating.
func ActorMiddleware(loader ActorLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr := GetJWTUserID(c)
		if userIDStr == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid user identity")
			return
		}

		user, err := loader.FindByID(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Account not found")
			return
		}

		if !user.IsActive() {
			abortWithError(c, http.StatusUnauthorized, "ACCOUNT_INACTIVE", "Account is not active")
			return
		}

		c.Set(ActorKey, user)
		c.Next()
	}
}

// GetActor retrieves the authenticated user from gin.Context.
func GetActor(c *gin.Context) *identity.User {
	if v, exists := c.Get(ActorKey); exists {
		if user, ok := v.(*identity.User); ok {
			return user
		}
	}
	return nil
}

// MustGetActor retrieves the authenticated user or panics.
// Handlers behind ActorMiddleware can use it safely.
func MustGetActor(c *gin.Context) *identity.User {
	user := GetActor(c)
	if user == nil {
		panic("actor not found in context")
	}
	return user
}

// RequireRole rejects requests from actors below the given role.
// Super admins pass every gate.
func RequireRole(min identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if actor.Role != identity.RoleSuperAdmin && !actor.Role.AtLeast(min) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient role")
			return
		}
		c.Next()
	}
}

// RequireManager rejects requests from actors that manage nobody.
// Super admins pass; platform operations have their own gate.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if actor.Role != identity.RoleSuperAdmin && !actor.Role.IsManager() {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Manager role required")
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin restricts a route to platform operators.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if actor.Role != identity.RoleSuperAdmin {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Super admin role required")
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}
