package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/infrastructure/ratelimit"
	"github.com/candor-hq/candor/internal/interfaces/http/handlers"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler *handlers.AuthHandler
	RateLimiter *middleware.RateLimiter
	AuthRule    ratelimit.Rule
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/sign-up", cfg.RateLimiter.Limit("auth", cfg.AuthRule), cfg.AuthHandler.SignUp)
		auth.POST("/sign-in", cfg.RateLimiter.Limit("auth", cfg.AuthRule), cfg.AuthHandler.SignIn)
		auth.POST("/refresh", cfg.AuthHandler.RefreshToken)
		auth.GET("/capabilities", cfg.AuthHandler.Capabilities)

		auth.GET("/oauth/google", cfg.AuthHandler.InitiateGoogleOAuth)
		auth.GET("/oauth/google/callback", cfg.AuthHandler.HandleGoogleCallback)
	}
}
