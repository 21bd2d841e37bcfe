package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/dev-shahrooz/Smart-Pricing/configs"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Config          *config.Config
	Policy          services.Policy
	Logger          *zap.Logger
	BOMs            services.BOMRepository
	ComponentModels *services.ComponentModelStore
	Monitoring      *services.MonitoringService
}

// NewRouter wires every route onto a new gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Monitoring == nil {
		deps.Monitoring = services.NewMonitoringService(logger, 0)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(deps.Monitoring.LoggingMiddleware())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("X-API-KEY")
	r.Use(cors.New(corsConfig))

	adminHandler := NewAdminHandler(deps.Config, logger)
	monitoringHandler := NewMonitoringHandler(deps.Monitoring)
	bomHandler := NewBOMHandler(deps.BOMs, logger)
	pricingHandler := NewPricingHandler(deps.BOMs, deps.Policy, logger)
	fxHandler := NewFXHandler(deps.BOMs, deps.Policy, logger)
	componentHandler := NewComponentHandler(deps.ComponentModels, logger)

	r.GET("/health", adminHandler.HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(APIKeyAuth(deps.Config.APIKey))
	v1.Use(LimitBody(deps.Config.MaxUploadBytes()))
	{
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}

		// data routes are closed during maintenance
		api := v1.Group("", adminHandler.MaintenanceGate())

		bom := api.Group("/bom")
		{
			bom.POST("/upload", bomHandler.Upload)
			bom.GET("/products", bomHandler.ListProducts)
			bom.GET("/products/:code", bomHandler.GetProduct)
		}

		pricing := api.Group("/pricing")
		{
			pricing.POST("/quote", pricingHandler.Quote)
			pricing.POST("/scenarios", pricingHandler.Scenarios)
			pricing.POST("/elasticity", pricingHandler.Elasticity)
			pricing.POST("/catalog", pricingHandler.Catalog)
		}

		fx := api.Group("/fx")
		{
			fx.POST("/forecast", fxHandler.Forecast)
			fx.POST("/scenarios", fxHandler.Scenarios)
		}

		components := api.Group("/components")
		{
			components.POST("/train", componentHandler.Train)
			components.GET("/:part/forecast", componentHandler.Forecast)
		}
	}
	return r
}

// APIKeyAuth requires a matching X-API-KEY header. An empty key disables the check.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
