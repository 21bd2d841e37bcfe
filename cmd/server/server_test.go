package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	config "github.com/dev-shahrooz/Smart-Pricing/configs"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/handlers"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

func TestMain(m *testing.M) {
	// test mode for gin
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		PricingPolicyPath:  filepath.Join("..", "..", "configs", "pricing_policy.yaml"),
		ComponentModelsDir: t.TempDir(),
		MaxUploadMB:        10,
	}
}

func TestBuildDependencies(t *testing.T) {
	deps, err := buildDependencies(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, services.DefaultPolicy(), deps.Policy)
	assert.NotNil(t, deps.BOMs)
	assert.NotNil(t, deps.ComponentModels)
	assert.NotNil(t, deps.Monitoring)
	assert.Empty(t, deps.BOMs.Snapshot())
}

func TestBuildDependenciesRejectsInvalidPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.PricingPolicyPath = filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(cfg.PricingPolicyPath, []byte("pricing:\n  data_driven_weight: 2\n"), 0o644))

	_, err := buildDependencies(cfg, zap.NewNop())
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestRouterSetup(t *testing.T) {
	deps, err := buildDependencies(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	router := handlers.NewRouter(deps)

	// health check
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bom/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
