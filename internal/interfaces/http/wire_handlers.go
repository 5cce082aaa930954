package http

import (
	"context"

	"github.com/candor-hq/candor/internal/interfaces/http/handlers"
	issueHandlers "github.com/candor-hq/candor/internal/interfaces/http/handlers/issue"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	authHandler      *handlers.AuthHandler
	profileHandler   *handlers.ProfileHandler
	referenceHandler *handlers.ReferenceHandler
	healthHandler    *handlers.HealthHandler
	issueHandler     *issueHandlers.Handler
}

func (c *Container) initHandlers() {
	u := c.ucs

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)
	c.rateLimiter = middleware.NewRateLimiter(c.limiter, c.log)

	checks := map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if c.redis != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		})
	}

	c.hdlrs = &allHandlers{
		authHandler: handlers.NewAuthHandler(
			u.signUpUC, u.signInUC, u.refreshTokenUC, u.googleOAuthUC, u.getCapabilitiesUC, c.log,
		),
		profileHandler:   handlers.NewProfileHandler(u.getProfileUC, u.updateProfileUC, u.changeRoleUC, c.log),
		referenceHandler: handlers.NewReferenceHandler(u.listDepartmentsUC, u.listCategoriesUC),
		healthHandler:    handlers.NewHealthHandler(checks),
		issueHandler: issueHandlers.NewHandler(
			u.createIssueUC, u.fetchIssuesUC, u.getIssueUC, u.updateIssueUC, u.trackIssueUC,
			u.addIssueUpdateUC, u.listIssueUpdatesUC, u.dashboardStatsUC, u.presignAttachmentUC, c.log,
		),
	}
}
