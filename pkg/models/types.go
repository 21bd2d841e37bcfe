package models

import (
	"encoding/json"
	"time"
)

// BomItem is one line of a bill of materials.
type BomItem struct {
	ProductCode  string  `json:"product_code"`
	PartName     string  `json:"part_name"`
	Quantity     int     `json:"quantity"`
	UnitPriceUSD float64 `json:"unit_price_usd"`
}

// ManufacturingParams per-unit assembly and labor inputs (pricing currency)
type ManufacturingParams struct {
	SMDCostPerComponent float64 `json:"smd_cost_per_component" binding:"gte=0"`
	THTCostPerComponent float64 `json:"tht_cost_per_component" binding:"gte=0"`
	AssemblyTimeMin     float64 `json:"assembly_time_min" binding:"gte=0"`
	QCTestTimeMin       float64 `json:"qc_test_time_min" binding:"gte=0"`
	WorkerHourCost      float64 `json:"worker_hour_cost" binding:"gte=0"`
}

// LogisticsParams shipping, customs and the buy-side exchange rate (currency per USD).
type LogisticsParams struct {
	ShippingCostUSD float64 `json:"shipping_cost_usd" binding:"gte=0"`
	CustomClearance float64 `json:"custom_clearance" binding:"gte=0"`
	DutyPercent     float64 `json:"duty_percent" binding:"gte=0"`
	ExchangeRateBuy float64 `json:"exchange_rate_buy" binding:"gte=0"`
}

// InventoryParams inventory carrying inputs
type InventoryParams struct {
	InventoryDays   int     `json:"inventory_days" binding:"gte=0"`
	CapitalCostRate float64 `json:"capital_cost_rate" binding:"gte=0"`
}

// FinanceParams margin target and the optional competitor anchor (0 = no anchor).
type FinanceParams struct {
	ExchangeRateNow     float64 `json:"exchange_rate_now" binding:"gte=0"`
	TargetMarginPercent float64 `json:"target_margin_percent"`
	CompetitorPriceAvg  float64 `json:"competitor_price_avg" binding:"gte=0"`
}

// CostBreakdown holds the five cost components in the pricing currency.
// The total is always derived, never stored.
type CostBreakdown struct {
	BOMCost       float64 `json:"bom_cost"`
	AssemblyCost  float64 `json:"assembly_cost"`
	LaborCost     float64 `json:"labor_cost"`
	LogisticsCost float64 `json:"logistics_cost"`
	InventoryCost float64 `json:"inventory_cost"`
}

// Total returns the sum of the five components.
func (c CostBreakdown) Total() float64 {
	return c.BOMCost + c.AssemblyCost + c.LaborCost + c.LogisticsCost + c.InventoryCost
}

// MarshalJSON adds the derived total to the encoded breakdown.
func (c CostBreakdown) MarshalJSON() ([]byte, error) {
	type plain CostBreakdown
	return json.Marshal(struct {
		plain
		Total float64 `json:"total"`
	}{plain(c), c.Total()})
}

// SalesRecord is one historical sales observation (price in pricing currency).
type SalesRecord struct {
	Month       string `json:"month"`
	ProductCode string `json:"product_code"`
	Price       int    `json:"price" binding:"gte=0"`
	UnitsSold   int    `json:"units_sold" binding:"gte=0"`
}

// FxHistoryPoint is one observed exchange rate (currency per USD).
type FxHistoryPoint struct {
	Date time.Time `json:"date"`
	Rate float64   `json:"rate"`
}

// Interval is a closed [Low, High] band.
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width returns High - Low.
func (i Interval) Width() float64 { return i.High - i.Low }

// ElasticityModel is a fitted log-log demand curve for one product.
// Slope is the bounded elasticity used for optimization; RawSlope and SlopeStdErr
// are kept for confidence-interval reporting.
type ElasticityModel struct {
	Intercept   float64 `json:"intercept"`
	Slope       float64 `json:"slope"`
	RawSlope    float64 `json:"raw_slope"`
	SlopeStdErr float64 `json:"slope_std_err"`
	RSquared    float64 `json:"r_squared"`
	AvgPrice    float64 `json:"avg_price"`
	Lambda      float64 `json:"lambda"`
	LowerBound  float64 `json:"lower_bound"`
	UpperBound  float64 `json:"upper_bound"`
	Points      int     `json:"points"`
}

// SensitivityRow is the profit curve recomputed under a scaled unit cost.
type SensitivityRow struct {
	CostFactor float64   `json:"cost_factor"`
	UnitCost   float64   `json:"unit_cost"`
	Profits    []float64 `json:"profits"`
}

// ElasticityResult is the profit optimizer output.
type ElasticityResult struct {
	Elasticity     float64          `json:"elasticity"`
	RawElasticity  float64          `json:"raw_elasticity"`
	RSquared       float64          `json:"r_squared"`
	AvgPrice       float64          `json:"avg_price"`
	UnitCost       float64          `json:"unit_cost"`
	OptimalPrice   float64          `json:"optimal_price"`
	PredictedUnits float64          `json:"predicted_units"`
	MaxProfit      float64          `json:"max_profit"`
	PriceGrid      []float64        `json:"price_grid"`
	ProfitGrid     []float64        `json:"profit_grid"`
	ElasticityCI   Interval         `json:"elasticity_ci"`
	PriceCI        Interval         `json:"price_ci"`
	Confidence     string           `json:"confidence"`
	Sensitivity    []SensitivityRow `json:"sensitivity"`
	AllNegative    bool             `json:"all_negative"`
}

// ElasticityDiagnostics is the subset of an ElasticityResult shown next to a recommendation.
type ElasticityDiagnostics struct {
	Elasticity   float64  `json:"elasticity"`
	OptimalPrice float64  `json:"optimal_price_ml"`
	MaxProfit    float64  `json:"max_profit_ml"`
	PriceCI      Interval `json:"price_ci"`
	Confidence   string   `json:"confidence"`
	AllNegative  bool     `json:"all_negative"`
}

// PriceRecommendation exposes both the cost-plus price and the final reconciled price.
type PriceRecommendation struct {
	BasePrice           float64                       `json:"base_price"`
	CostPlusPrice       float64                       `json:"cost_plus_price"`
	FinalSuggestedPrice float64                       `json:"final_suggested_price"`
	DataDrivenWeight    float64                       `json:"data_driven_weight"`
	Diagnostics         Option[ElasticityDiagnostics] `json:"elasticity"`
}

// FxForecastResult bundles the history and a daily trend forecast with a constant band.
type FxForecastResult struct {
	HistoryDates  []time.Time `json:"history_dates"`
	HistoryRates  []float64   `json:"history_rates"`
	ForecastDates []time.Time `json:"forecast_dates"`
	ForecastRates []float64   `json:"forecast_rates"`
	ForecastLow   []float64   `json:"forecast_low"`
	ForecastHigh  []float64   `json:"forecast_high"`
	Slope         float64     `json:"slope"`
	Intercept     float64     `json:"intercept"`
	RSquared      float64     `json:"r_squared"`
	Sigma         float64     `json:"sigma"`
}

// ScenarioResult is one exchange-rate scenario row.
type ScenarioResult struct {
	ExchangeRate     float64           `json:"exchange_rate"`
	TotalCost        float64           `json:"total_cost"`
	CostPlusPrice    float64           `json:"cost_plus_price"`
	RecommendedPrice float64           `json:"recommended_price"`
	Date             Option[time.Time] `json:"date"`
	RateBand         Option[Interval]  `json:"rate_band"`
	// RateFloored marks a forecast row whose projected rate fell below zero.
	RateFloored      bool              `json:"rate_floored,omitempty"`
}

// ComponentPurchase is one historical purchase of a component part.
type ComponentPurchase struct {
	Date         time.Time `json:"date"`
	PartName     string    `json:"part_name"`
	UnitPriceUSD float64   `json:"unit_price_usd"`
	Qty          float64   `json:"qty"`
	Source       string    `json:"source"`
}

// ComponentPriceModel is a linear time-trend of a part's monthly mean unit price.
// Time is expressed in Unix seconds of the month start.
type ComponentPriceModel struct {
	PartName  string  `json:"part_name"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	LastMonth string  `json:"last_month"`
	Months    int     `json:"months"`
}

// ComponentForecast is the predicted unit price for the month after the model's last month.
type ComponentForecast struct {
	PartName     string  `json:"part_name"`
	Month        string  `json:"month"`
	UnitPriceUSD float64 `json:"unit_price_usd"`
}
