package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	config "github.com/dev-shahrooz/Smart-Pricing/configs"
	"github.com/dev-shahrooz/Smart-Pricing/internal/logger"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/handlers"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.LoadConfig()
	log := logger.NewOrNop(cfg.Environment)
	defer log.Sync() //nolint:errcheck

	if envErr != nil {
		log.Warn(".env file not found or could not be loaded", zap.Error(envErr))
	}

	deps, err := buildDependencies(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize", zap.Error(err))
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting pricing server", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

// buildDependencies loads the pricing policy and constructs the shared services.
func buildDependencies(cfg *config.Config, log *zap.Logger) (handlers.Dependencies, error) {
	policy, err := config.LoadPricingPolicy(cfg.PricingPolicyPath)
	if err != nil {
		return handlers.Dependencies{}, err
	}
	log.Info("pricing policy loaded",
		zap.String("path", cfg.PricingPolicyPath),
		zap.Float64("data_driven_weight", policy.DataDrivenWeight),
		zap.Float64("ridge_lambda", policy.RidgeLambda),
	)

	return handlers.Dependencies{
		Config:          cfg,
		Policy:          policy,
		Logger:          log,
		BOMs:            services.NewMemoryBOMStore(),
		ComponentModels: services.NewComponentModelStore(cfg.ComponentModelsDir),
		Monitoring:      services.NewMonitoringService(log, services.DefaultMonitoringCapacity),
	}, nil
}
