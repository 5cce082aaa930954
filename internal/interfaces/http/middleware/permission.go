package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/constants"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/utils"
)

type PermissionMiddleware struct {
	authorizer authorization.Authorizer
	logger     logger.Interface
}

func NewPermissionMiddleware(authorizer authorization.Authorizer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

// LoadCapabilities resolves the caller's capabilities once per request.
// It must run after the auth middleware.
func (m *PermissionMiddleware) LoadCapabilities() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		caps, err := m.authorizer.CapabilitiesFor(p)
		if err != nil {
			m.logger.Errorw("failed to resolve capabilities", "role", p.Role, "error", err)
			caps = authorization.None()
		}
		c.Set(constants.ContextKeyCapabilities, caps)
		c.Next()
	}
}

func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)

		allowed, err := m.authorizer.Authorize(p, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "role", p.Role, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", p.UserID, "role", p.Role, "resource", resource, "action", action)
			if !p.IsAuthenticated() {
				utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			} else {
				utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireStaff admits the roles allowed to triage issues.
func (m *PermissionMiddleware) RequireStaff() gin.HandlerFunc {
	return m.RequirePermission(authorization.ResourceIssues, authorization.ActionUpdate)
}

func (m *PermissionMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequirePermission(authorization.ResourceProfileRoles, authorization.ActionUpdate)
}

// GetCapabilities returns what LoadCapabilities stored, or no capabilities.
func GetCapabilities(c *gin.Context) authorization.Capabilities {
	if v, ok := c.Get(constants.ContextKeyCapabilities); ok {
		if caps, ok := v.(authorization.Capabilities); ok {
			return caps
		}
	}
	return authorization.None()
}
