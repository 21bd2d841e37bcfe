package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

// PricingHandler serves quotes, exchange-rate scenarios and elasticity analysis.
type PricingHandler struct {
	repo   services.BOMRepository
	policy services.Policy
	logger *zap.Logger
}

// NewPricingHandler creates a PricingHandler.
func NewPricingHandler(repo services.BOMRepository, policy services.Policy, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{repo: repo, policy: policy, logger: logger}
}

// Quote prices one product from the current BOM.
func (h *PricingHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := services.ValidateCostParams(req.Params); err != nil {
		respondError(c, h.logger, err)
		return
	}
	items, snapshot, err := h.bomFor(req.ProductCode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	p := req.Params
	breakdown := services.ComputeCostBreakdown(items, p.Manufacturing, p.Logistics, p.Inventory)
	elasticity, elasticityErr := fitOptional(h.logger, req.ProductCode, req.Sales, breakdown.Total(), h.policy)
	rec := services.RecommendPrice(breakdown, p.Finance, elasticity, h.policy.DataDrivenWeight)

	respondOK(c, models.QuoteResponse{
		ProductCode:     req.ProductCode,
		SnapshotID:      snapshot,
		CostBreakdown:   breakdown,
		TotalCost:       breakdown.Total(),
		Recommendation:  rec,
		DisplayPrice:    RoundCurrency(rec.FinalSuggestedPrice),
		ElasticityError: elasticityErr,
	})
}

// Scenarios runs the pricing pipeline over a manual list of exchange rates.
func (h *PricingHandler) Scenarios(c *gin.Context) {
	var req models.ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := services.ValidateCostParams(req.Params); err != nil {
		respondError(c, h.logger, err)
		return
	}
	items, snapshot, err := h.bomFor(req.ProductCode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	p := req.Params
	unitCost := services.ComputeCostBreakdown(items, p.Manufacturing, p.Logistics, p.Inventory).Total()
	elasticity, elasticityErr := fitOptional(h.logger, req.ProductCode, req.Sales, unitCost, h.policy)

	respondOK(c, models.ScenarioResponse{
		ProductCode:     req.ProductCode,
		SnapshotID:      snapshot,
		Scenarios:       services.SimulateExchangeRates(items, p, req.ExchangeRates, elasticity, h.policy.DataDrivenWeight),
		ElasticityError: elasticityErr,
	})
}

// Elasticity fits one product's uploaded sales and optimizes its price against unit_cost.
func (h *PricingHandler) Elasticity(c *gin.Context) {
	name, file, err := openUpload(c, "file")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	productCode := strings.TrimSpace(c.PostForm("product_code"))
	if productCode == "" {
		respondBadRequest(c, "product_code is required")
		return
	}
	unitCost, err := formFloat(c, "unit_cost", -1)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if unitCost < 0 {
		respondBadRequest(c, "unit_cost is required and must not be negative")
		return
	}

	sales, err := services.LoadSales(name, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	records, ok := sales[productCode]
	if !ok {
		respondError(c, h.logger, fmt.Errorf("%w: no sales rows for product %s", services.ErrInsufficientData, productCode))
		return
	}

	result, err := services.AnalyzeElasticity(records, unitCost, h.policy.EstimateOptions(), h.policy.OptimizeOptions())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, result)
}

// Catalog fits and prices every uploaded product against the current BOM.
func (h *PricingHandler) Catalog(c *gin.Context) {
	name, file, err := openUpload(c, "file")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	var params models.CatalogParams
	if err := bindFormJSON(c, "params", &params); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := services.ValidateCostParams(params.Params); err != nil {
		respondError(c, h.logger, err)
		return
	}

	sales, err := services.LoadSales(name, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	outcomes := services.AnalyzeCatalog(c.Request.Context(), sales, h.repo, params.Params, h.policy)
	for code, o := range outcomes {
		if o.Kind != services.OutcomeOK {
			h.logger.Warn("catalog product skipped",
				zap.String("product_code", code),
				zap.String("kind", string(o.Kind)),
				zap.Error(o.Err),
			)
		}
	}
	respondOK(c, gin.H{"snapshot_id": h.repo.Snapshot(), "products": outcomes})
}

func (h *PricingHandler) bomFor(productCode string) ([]models.BomItem, string, error) {
	items, ok := h.repo.Get(productCode)
	if !ok {
		return nil, "", fmt.Errorf("%w: product %s is not in the current BOM", services.ErrMissingReference, productCode)
	}
	return items, h.repo.Snapshot(), nil
}
