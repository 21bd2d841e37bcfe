package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/dev-shahrooz/Smart-Pricing/configs"
	"github.com/dev-shahrooz/Smart-Pricing/internal/logger"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/handlers"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

var (
	app  *gin.Engine
	once sync.Once
)

// setupApp builds the router once per serverless instance.
// Environment variables come from the platform, so .env is not loaded here.
func setupApp() *gin.Engine {
	once.Do(func() {
		cfg := config.LoadConfig()
		log := logger.NewOrNop(cfg.Environment)

		policy, err := config.LoadPricingPolicy(cfg.PricingPolicyPath)
		if err != nil {
			log.Error("pricing policy invalid, using defaults", zap.Error(err))
			policy = services.DefaultPolicy()
		}

		gin.SetMode(gin.ReleaseMode)
		app = handlers.NewRouter(handlers.Dependencies{
			Config:          cfg,
			Policy:          policy,
			Logger:          log,
			BOMs:            services.NewMemoryBOMStore(),
			ComponentModels: services.NewComponentModelStore(cfg.ComponentModelsDir),
			Monitoring:      services.NewMonitoringService(log, services.DefaultMonitoringCapacity),
		})
		log.Info("serverless app initialized")
	})
	return app
}

// Handler is the serverless entry point for every request.
func Handler(w http.ResponseWriter, r *http.Request) {
	setupApp().ServeHTTP(w, r)
}
