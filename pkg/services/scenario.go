package services

import (
	"time"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

// SimulateExchangeRates runs the cost model and recommender once per rate, substituting it
// for both the buy-side and current exchange rate. Output order follows rates.
func SimulateExchangeRates(
	items []models.BomItem,
	params models.CostParams,
	rates []float64,
	elasticity models.Option[models.ElasticityResult],
	dataDrivenWeight float64,
) []models.ScenarioResult {
	out := make([]models.ScenarioResult, 0, len(rates))
	for _, rate := range rates {
		out = append(out, simulateRate(items, params, rate, elasticity, dataDrivenWeight))
	}
	return out
}

// SimulateForecast is SimulateExchangeRates driven by an FX forecast: one scenario per
// forecast day, carrying that day's date and low/high band through unchanged.
// A projected rate below zero is costed at 0 and the row is marked RateFloored.
func SimulateForecast(
	items []models.BomItem,
	params models.CostParams,
	forecast models.FxForecastResult,
	elasticity models.Option[models.ElasticityResult],
	dataDrivenWeight float64,
) []models.ScenarioResult {
	out := make([]models.ScenarioResult, 0, len(forecast.ForecastRates))
	for i, rate := range forecast.ForecastRates {
		floored := rate < 0
		if floored {
			rate = 0
		}
		row := simulateRate(items, params, rate, elasticity, dataDrivenWeight)
		row.RateFloored = floored
		if i < len(forecast.ForecastDates) {
			row.Date = models.Some(forecast.ForecastDates[i])
		}
		if i < len(forecast.ForecastLow) && i < len(forecast.ForecastHigh) {
			row.RateBand = models.Some(models.Interval{Low: forecast.ForecastLow[i], High: forecast.ForecastHigh[i]})
		}
		out = append(out, row)
	}
	return out
}

func simulateRate(
	items []models.BomItem,
	params models.CostParams,
	rate float64,
	elasticity models.Option[models.ElasticityResult],
	dataDrivenWeight float64,
) models.ScenarioResult {
	logistics := params.Logistics
	logistics.ExchangeRateBuy = rate
	finance := params.Finance
	finance.ExchangeRateNow = rate

	breakdown := ComputeCostBreakdown(items, params.Manufacturing, logistics, params.Inventory)
	rec := RecommendPrice(breakdown, finance, elasticity, dataDrivenWeight)

	return models.ScenarioResult{
		ExchangeRate:     rate,
		TotalCost:        breakdown.Total(),
		CostPlusPrice:    rec.CostPlusPrice,
		RecommendedPrice: rec.FinalSuggestedPrice,
		Date:             models.None[time.Time](),
		RateBand:         models.None[models.Interval](),
	}
}
