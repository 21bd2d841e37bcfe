package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

// FXHandler serves exchange-rate forecasts and forecast-driven price scenarios.
type FXHandler struct {
	repo   services.BOMRepository
	policy services.Policy
	logger *zap.Logger
}

// NewFXHandler creates an FXHandler.
func NewFXHandler(repo services.BOMRepository, policy services.Policy, logger *zap.Logger) *FXHandler {
	return &FXHandler{repo: repo, policy: policy, logger: logger}
}

// Forecast fits the uploaded FX history and projects horizon_days days ahead.
func (h *FXHandler) Forecast(c *gin.Context) {
	horizon, err := formInt(c, "horizon_days", h.policy.DefaultHorizonDays)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	z, err := formFloat(c, "z", h.policy.FXZ)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	forecast, err := h.forecastFromUpload(c, horizon, z)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, forecast)
}

// Scenarios prices a product once per forecast day. The JSON "params" field carries the
// product code, cost parameters and optional horizon_days/z. An optional "sales" file
// enables the data-driven blend.
func (h *FXHandler) Scenarios(c *gin.Context) {
	var req models.ForecastScenarioParams
	if err := bindFormJSON(c, "params", &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if req.ProductCode == "" {
		respondBadRequest(c, "params.product_code is required")
		return
	}
	if err := services.ValidateCostParams(req.Params); err != nil {
		respondError(c, h.logger, err)
		return
	}
	items, ok := h.repo.Get(req.ProductCode)
	if !ok {
		respondError(c, h.logger, fmt.Errorf("%w: product %s is not in the current BOM", services.ErrMissingReference, req.ProductCode))
		return
	}

	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = h.policy.DefaultHorizonDays
	}
	z := req.Z
	if z == 0 {
		z = h.policy.FXZ
	}
	forecast, err := h.forecastFromUpload(c, horizon, z)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	p := req.Params
	elasticity := models.None[models.ElasticityResult]()
	elasticityErr := ""
	if hasUpload(c, "sales") {
		name, file, err := openUpload(c, "sales")
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		defer file.Close()
		sales, err := services.LoadSales(name, file)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		unitCost := services.ComputeCostBreakdown(items, p.Manufacturing, p.Logistics, p.Inventory).Total()
		elasticity, elasticityErr = fitOptional(h.logger, req.ProductCode, sales[req.ProductCode], unitCost, h.policy)
	}

	respondOK(c, gin.H{
		"product_code":     req.ProductCode,
		"snapshot_id":      h.repo.Snapshot(),
		"forecast":         forecast,
		"scenarios":        services.SimulateForecast(items, p, forecast, elasticity, h.policy.DataDrivenWeight),
		"elasticity_error": elasticityErr,
	})
}

// forecastFromUpload checks the horizon against the policy before reading the upload.
func (h *FXHandler) forecastFromUpload(c *gin.Context, horizon int, z float64) (models.FxForecastResult, error) {
	if err := services.CheckHorizon(horizon, h.policy.MaxHorizonDays); err != nil {
		return models.FxForecastResult{}, err
	}
	name, file, err := openUpload(c, "file")
	if err != nil {
		return models.FxForecastResult{}, err
	}
	defer file.Close()

	history, err := services.LoadFXHistory(name, file)
	if err != nil {
		return models.FxForecastResult{}, err
	}
	return services.ForecastFX(history, horizon, z)
}
