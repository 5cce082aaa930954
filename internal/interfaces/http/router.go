package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/candor-hq/candor/internal/infrastructure/ratelimit"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
	"github.com/candor-hq/candor/internal/interfaces/http/routes"
	"github.com/candor-hq/candor/internal/shared/config"

	_ "github.com/candor-hq/candor/docs"
)

// Router represents the HTTP router configuration.
type Router struct {
	*Container
}

func NewRouter(c *Container) *Router {
	return &Router{Container: c}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(r.authMiddleware.OptionalAuth())
	r.engine.Use(r.permissionMiddleware.LoadCapabilities())

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	rl := r.cfg.RateLimit

	routes.SetupReferenceRoutes(r.engine, &routes.ReferenceRouteConfig{
		ReferenceHandler: r.hdlrs.referenceHandler,
		HealthHandler:    r.hdlrs.healthHandler,
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler: r.hdlrs.authHandler,
		RateLimiter: r.rateLimiter,
		AuthRule:    toRule(rl.Auth),
	})

	routes.SetupProfileRoutes(r.engine, &routes.ProfileRouteConfig{
		ProfileHandler:       r.hdlrs.profileHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
	})

	routes.SetupIssueRoutes(r.engine, &routes.IssueRouteConfig{
		IssueHandler:         r.hdlrs.issueHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
		RateLimiter:          r.rateLimiter,
		SubmitRule:           toRule(rl.Submit),
		TrackRule:            toRule(rl.Track),
	})
}

func toRule(cfg config.RateLimitRule) ratelimit.Rule {
	return ratelimit.Rule{Limit: cfg.Limit, Window: cfg.Window}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
