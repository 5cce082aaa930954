package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/interfaces/http/handlers"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
)

type ProfileRouteConfig struct {
	ProfileHandler       *handlers.ProfileHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupProfileRoutes(engine *gin.Engine, cfg *ProfileRouteConfig) {
	profile := engine.Group("/profile")
	profile.Use(cfg.AuthMiddleware.RequireAuth())
	{
		profile.GET("", cfg.ProfileHandler.GetProfile)
		profile.PATCH("", cfg.ProfileHandler.UpdateProfile)
	}

	admin := engine.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.PermissionMiddleware.RequireAdmin())
	{
		admin.PATCH("/profiles/:id/role", cfg.ProfileHandler.ChangeRole)
	}
}
