package services

import (
	"context"
	"fmt"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

// CatalogOutcome is one product's row of a catalog analysis. Result and Recommendation
// are set only when Kind is OutcomeOK.
type CatalogOutcome struct {
	ProductCode    string                                    `json:"product_code"`
	Kind           OutcomeKind                               `json:"kind"`
	UnitCost       float64                                   `json:"unit_cost"`
	Result         models.Option[models.ElasticityResult]    `json:"result"`
	Recommendation models.Option[models.PriceRecommendation] `json:"recommendation"`
	Error          string                                    `json:"error,omitempty"`
	Err            error                                     `json:"-"`
}

// AnalyzeCatalog prices every product that has both sales history and a BOM.
// Products without a BOM are reported as missing references; fit failures are reported
// per product and never stop the batch.
func AnalyzeCatalog(
	ctx context.Context,
	sales map[string][]models.SalesRecord,
	repo BOMRepository,
	params models.CostParams,
	policy Policy,
) map[string]CatalogOutcome {
	out := make(map[string]CatalogOutcome, len(sales))
	costs := make(map[string]models.CostBreakdown)
	fittable := make(map[string][]models.SalesRecord)

	for code, records := range sales {
		items, ok := repo.Get(code)
		if !ok {
			err := fmt.Errorf("%w: product %s has no BOM", ErrMissingReference, code)
			out[code] = failedOutcome(code, err)
			continue
		}
		costs[code] = ComputeCostBreakdown(items, params.Manufacturing, params.Logistics, params.Inventory)
		fittable[code] = records
	}

	fits := EstimateAll(ctx, fittable, policy.EstimateOptions(), policy.BatchConcurrency)
	for code, fit := range fits {
		if fit.Err != nil {
			out[code] = failedOutcome(code, fit.Err)
			continue
		}
		breakdown := costs[code]
		unitCost := breakdown.Total()
		result := OptimizePrice(fit.Model, unitCost, policy.OptimizeOptions())
		rec := RecommendPrice(breakdown, params.Finance, models.Some(result), policy.DataDrivenWeight)
		out[code] = CatalogOutcome{
			ProductCode:    code,
			Kind:           OutcomeOK,
			UnitCost:       unitCost,
			Result:         models.Some(result),
			Recommendation: models.Some(rec),
		}
	}
	return out
}

func failedOutcome(code string, err error) CatalogOutcome {
	return CatalogOutcome{
		ProductCode: code,
		Kind:        OutcomeKindOf(err),
		Error:       err.Error(),
		Err:         err,
	}
}
