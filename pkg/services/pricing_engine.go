package services

import (
	"math"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

// DefaultDataDrivenWeight is the share of the optimizer's price in the final blend
// (the cost-plus price gets the remaining 30%).
const DefaultDataDrivenWeight = 0.7

// ComputeCostBreakdown aggregates BOM, assembly, labor, logistics and inventory-carry
// costs for one unit. An empty item list yields an all-zero BOM-dependent breakdown.
func ComputeCostBreakdown(
	items []models.BomItem,
	manufacturing models.ManufacturingParams,
	logistics models.LogisticsParams,
	inventory models.InventoryParams,
) models.CostBreakdown {
	var totalComponents int
	var bomCostUSD float64
	for _, item := range items {
		totalComponents += item.Quantity
		bomCostUSD += float64(item.Quantity) * item.UnitPriceUSD
	}
	bomCost := bomCostUSD * logistics.ExchangeRateBuy

	assemblyCost := float64(totalComponents) * (manufacturing.SMDCostPerComponent + manufacturing.THTCostPerComponent)

	laborHours := (manufacturing.AssemblyTimeMin + manufacturing.QCTestTimeMin) / 60.0
	laborCost := laborHours * manufacturing.WorkerHourCost

	logisticsCost := logistics.ShippingCostUSD*logistics.ExchangeRateBuy +
		logistics.CustomClearance +
		(logistics.DutyPercent/100.0)*bomCost

	inventoryCost := bomCost * (float64(inventory.InventoryDays) / 365.0) * (inventory.CapitalCostRate / 100.0)

	return models.CostBreakdown{
		BOMCost:       bomCost,
		AssemblyCost:  assemblyCost,
		LaborCost:     laborCost,
		LogisticsCost: logisticsCost,
		InventoryCost: inventoryCost,
	}
}

// CostPlusPrice applies the target margin to the total cost and floors the result
// at the competitor anchor when one is given.
func CostPlusPrice(breakdown models.CostBreakdown, finance models.FinanceParams) (basePrice, costPlus float64) {
	basePrice = breakdown.Total() * (1 + finance.TargetMarginPercent/100.0)
	anchor := 0.0
	if finance.CompetitorPriceAvg > 0 {
		anchor = finance.CompetitorPriceAvg
	}
	return basePrice, math.Max(basePrice, anchor)
}

// RecommendPrice reconciles the cost-plus price with an optional optimizer result.
// The optimizer price is ignored when no price in its search range was profitable.
func RecommendPrice(
	breakdown models.CostBreakdown,
	finance models.FinanceParams,
	elasticity models.Option[models.ElasticityResult],
	dataDrivenWeight float64,
) models.PriceRecommendation {
	basePrice, costPlus := CostPlusPrice(breakdown, finance)

	rec := models.PriceRecommendation{
		BasePrice:           basePrice,
		CostPlusPrice:       costPlus,
		FinalSuggestedPrice: math.Max(0, costPlus),
		Diagnostics:         models.None[models.ElasticityDiagnostics](),
	}

	result, ok := elasticity.Get()
	if !ok {
		return rec
	}

	rec.Diagnostics = models.Some(models.ElasticityDiagnostics{
		Elasticity:   result.Elasticity,
		OptimalPrice: result.OptimalPrice,
		MaxProfit:    result.MaxProfit,
		PriceCI:      result.PriceCI,
		Confidence:   result.Confidence,
		AllNegative:  result.AllNegative,
	})
	if result.AllNegative {
		return rec
	}

	w := clamp(dataDrivenWeight, 0, 1)
	rec.DataDrivenWeight = w
	rec.FinalSuggestedPrice = math.Max(0, (1-w)*costPlus+w*result.OptimalPrice)
	return rec
}

// ValidateCostParams rejects negative values where a negative input has no meaning.
func ValidateCostParams(p models.CostParams) error {
	const src = "params"
	checks := []struct {
		field string
		value float64
	}{
		{"smd_cost_per_component", p.Manufacturing.SMDCostPerComponent},
		{"tht_cost_per_component", p.Manufacturing.THTCostPerComponent},
		{"assembly_time_min", p.Manufacturing.AssemblyTimeMin},
		{"qc_test_time_min", p.Manufacturing.QCTestTimeMin},
		{"worker_hour_cost", p.Manufacturing.WorkerHourCost},
		{"shipping_cost_usd", p.Logistics.ShippingCostUSD},
		{"custom_clearance", p.Logistics.CustomClearance},
		{"duty_percent", p.Logistics.DutyPercent},
		{"exchange_rate_buy", p.Logistics.ExchangeRateBuy},
		{"inventory_days", float64(p.Inventory.InventoryDays)},
		{"capital_cost_rate", p.Inventory.CapitalCostRate},
		{"exchange_rate_now", p.Finance.ExchangeRateNow},
		{"competitor_price_avg", p.Finance.CompetitorPriceAvg},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return invalid(src, 0, c.field, "must be a finite number")
		}
		if c.value < 0 {
			return invalid(src, 0, c.field, "must not be negative")
		}
	}
	if p.Finance.TargetMarginPercent <= -100 {
		return invalid(src, 0, "target_margin_percent", "must be greater than -100")
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
