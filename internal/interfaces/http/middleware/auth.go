package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/constants"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/utils"
)

// AccessVerifier validates access tokens. Refresh tokens must be rejected.
type AccessVerifier interface {
	VerifyAccess(tokenString string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier AccessVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier AccessVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// OptionalAuth attaches the principal when a valid bearer token is present
// and otherwise lets the request through as anonymous.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := m.verifier.VerifyAccess(token); err == nil {
				setPrincipal(c, claims)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.verifier.VerifyAccess(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		setPrincipal(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setPrincipal(c *gin.Context, claims *auth.Claims) {
	c.Set(constants.ContextKeyUserID, claims.UserID)
	c.Set(constants.ContextKeyUserRole, string(claims.Role))
}

// GetPrincipal returns the caller, or the anonymous principal when no
// session was attached.
func GetPrincipal(c *gin.Context) authorization.Principal {
	userID := c.GetString(constants.ContextKeyUserID)
	if userID == "" {
		return authorization.Anonymous()
	}
	return authorization.Principal{
		UserID: userID,
		Role:   authorization.ParseRole(c.GetString(constants.ContextKeyUserRole)),
	}
}
