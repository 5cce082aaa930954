package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/interfaces/http/handlers"
)

type ReferenceRouteConfig struct {
	ReferenceHandler *handlers.ReferenceHandler
	HealthHandler    *handlers.HealthHandler
}

// SetupReferenceRoutes configures the public pick-lists and the health probe.
func SetupReferenceRoutes(engine *gin.Engine, cfg *ReferenceRouteConfig) {
	engine.GET("/health", cfg.HealthHandler.HealthCheck)
	engine.GET("/departments", cfg.ReferenceHandler.ListDepartments)
	engine.GET("/categories", cfg.ReferenceHandler.ListCategories)
}
