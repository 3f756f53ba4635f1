package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appflag "github.com/salespulse/backend/internal/application/featureflag"
	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/domain/shared"
)

// RequireFeature rejects requests when the feature is disabled for the
// actor's team. Super admins bypass the gate so platform operators can
// inspect a team's data regardless of its plan.
func RequireFeature(evaluator *appflag.EvaluationService, feature featureflag.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		if actor.Role == identity.RoleSuperAdmin {
			c.Next()
			return
		}

		err := evaluator.RequireEnabled(c.Request.Context(), actor.TeamID, actor.Role, feature)
		if err != nil {
			if errors.Is(err, shared.ErrFeatureDisabled) {
				abortWithError(c, http.StatusForbidden, "FEATURE_DISABLED", "This feature is not enabled for your team")
				return
			}
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Feature check failed")
			return
		}

		c.Next()
	}
}
