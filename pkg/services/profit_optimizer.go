package services

import (
	"math"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

// Confidence labels derived from the relative width of the price CI.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// OptimizeOptions price grid and reporting parameters
type OptimizeOptions struct {
	GridSize int
	SpanLow  float64
	SpanHigh float64
	Factors  []float64
	Z        float64
}

// DefaultOptimizeOptions 50 points over [0.8, 1.5] x avg price, cost factors 0.9..1.2.
func DefaultOptimizeOptions() OptimizeOptions {
	return OptimizeOptions{
		GridSize: 50,
		SpanLow:  0.8,
		SpanHigh: 1.5,
		Factors:  []float64{0.9, 1.0, 1.1, 1.2},
		Z:        1.96,
	}
}

func (o OptimizeOptions) normalized() OptimizeOptions {
	def := DefaultOptimizeOptions()
	if o.GridSize < 2 {
		o.GridSize = def.GridSize
	}
	if o.SpanLow <= 0 || o.SpanHigh < o.SpanLow {
		o.SpanLow, o.SpanHigh = def.SpanLow, def.SpanHigh
	}
	if o.Factors == nil {
		o.Factors = def.Factors
	}
	if o.Z <= 0 {
		o.Z = def.Z
	}
	return o
}

// PredictUnits evaluates the fitted demand curve exp(a + b*ln(p)) using the clamped slope.
func PredictUnits(model models.ElasticityModel, price float64) float64 {
	return math.Exp(model.Intercept + model.Slope*math.Log(price))
}

// OptimizePrice grid-searches the demand curve for the price maximizing (p - unitCost) * q.
// Ties go to the lowest price. A negative maximum sets AllNegative instead of failing.
func OptimizePrice(model models.ElasticityModel, unitCost float64, opts OptimizeOptions) models.ElasticityResult {
	opts = opts.normalized()

	prices := linspace(opts.SpanLow*model.AvgPrice, opts.SpanHigh*model.AvgPrice, opts.GridSize)
	profits := profitCurve(model, unitCost, prices)

	best := 0
	for i := 1; i < len(profits); i++ {
		if profits[i] > profits[best] {
			best = i
		}
	}
	optimal := prices[best]
	maxProfit := profits[best]

	priceCI := models.Interval{Low: optimal, High: optimal}
	threshold := 0.9 * maxProfit
	found := false
	for i, p := range profits {
		if p < threshold {
			continue
		}
		if !found {
			priceCI = models.Interval{Low: prices[i], High: prices[i]}
			found = true
			continue
		}
		priceCI.Low = math.Min(priceCI.Low, prices[i])
		priceCI.High = math.Max(priceCI.High, prices[i])
	}

	sensitivity := make([]models.SensitivityRow, 0, len(opts.Factors))
	for _, f := range opts.Factors {
		cost := unitCost * f
		sensitivity = append(sensitivity, models.SensitivityRow{
			CostFactor: f,
			UnitCost:   cost,
			Profits:    profitCurve(model, cost, prices),
		})
	}

	return models.ElasticityResult{
		Elasticity:     model.Slope,
		RawElasticity:  model.RawSlope,
		RSquared:       model.RSquared,
		AvgPrice:       model.AvgPrice,
		UnitCost:       unitCost,
		OptimalPrice:   optimal,
		PredictedUnits: PredictUnits(model, optimal),
		MaxProfit:      maxProfit,
		PriceGrid:      prices,
		ProfitGrid:     profits,
		ElasticityCI: models.Interval{
			Low:  model.RawSlope - opts.Z*model.SlopeStdErr,
			High: model.RawSlope + opts.Z*model.SlopeStdErr,
		},
		PriceCI:     priceCI,
		Confidence:  confidenceLabel(priceCI, optimal),
		Sensitivity: sensitivity,
		AllNegative: maxProfit < 0,
	}
}

// AnalyzeElasticity fits one product's sales and optimizes against unitCost.
func AnalyzeElasticity(records []models.SalesRecord, unitCost float64, est EstimateOptions, opt OptimizeOptions) (models.ElasticityResult, error) {
	model, err := FitElasticity(records, est)
	if err != nil {
		return models.ElasticityResult{}, err
	}
	return OptimizePrice(model, unitCost, opt), nil
}

func profitCurve(model models.ElasticityModel, unitCost float64, prices []float64) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = (p - unitCost) * PredictUnits(model, p)
	}
	return out
}

func confidenceLabel(ci models.Interval, optimal float64) string {
	if optimal <= 0 {
		return ConfidenceLow
	}
	rel := ci.Width() / optimal
	switch {
	case rel < 0.05:
		return ConfidenceHigh
	case rel < 0.15:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
