package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/infrastructure/ratelimit"
	issuehandlers "github.com/candor-hq/candor/internal/interfaces/http/handlers/issue"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
	"github.com/candor-hq/candor/internal/shared/authorization"
)

// IssueRouteConfig holds dependencies for the reporting, tracking and
// dashboard routes.
type IssueRouteConfig struct {
	IssueHandler         *issuehandlers.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	RateLimiter          *middleware.RateLimiter
	SubmitRule           ratelimit.Rule
	TrackRule            ratelimit.Rule
}

func SetupIssueRoutes(engine *gin.Engine, cfg *IssueRouteConfig) {
	h := cfg.IssueHandler
	staff := cfg.PermissionMiddleware.RequireStaff()

	issues := engine.Group("/issues")
	{
		issues.POST("", cfg.RateLimiter.Limit("submit", cfg.SubmitRule), h.CreateIssue)
		issues.GET("", cfg.AuthMiddleware.RequireAuth(), h.ListIssues)

		// Sub-resources before the bare /:id routes.
		issues.POST("/:id/updates", cfg.AuthMiddleware.RequireAuth(), staff, h.AddIssueUpdate)
		issues.GET("/:id/updates", h.ListIssueUpdates)

		issues.GET("/:id", cfg.AuthMiddleware.RequireAuth(), staff, h.GetIssue)
		issues.PATCH("/:id", cfg.AuthMiddleware.RequireAuth(), staff, h.UpdateIssue)
	}

	engine.GET("/track/:token", cfg.RateLimiter.Limit("track", cfg.TrackRule), h.TrackIssue)

	engine.GET("/dashboard/stats", cfg.AuthMiddleware.RequireAuth(), h.GetDashboardStats)

	attachments := engine.Group("/attachments")
	{
		attachments.POST("/presign", cfg.RateLimiter.Limit("submit", cfg.SubmitRule), h.PresignUpload)
		attachments.GET("/download",
			cfg.AuthMiddleware.RequireAuth(),
			cfg.PermissionMiddleware.RequirePermission(authorization.ResourceAttachments, authorization.ActionRead),
			h.PresignDownload)
	}
}
