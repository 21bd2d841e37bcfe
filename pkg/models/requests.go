package models

// CostParams groups the caller-supplied parameters shared by quote and scenario requests.
type CostParams struct {
	Manufacturing ManufacturingParams `json:"manufacturing"`
	Logistics     LogisticsParams     `json:"logistics"`
	Inventory     InventoryParams     `json:"inventory"`
	Finance       FinanceParams       `json:"finance"`
}

// QuoteRequest prices one product from the current BOM snapshot.
// Sales, when present, enables the data-driven blend.
type QuoteRequest struct {
	ProductCode string        `json:"product_code" binding:"required"`
	Params      CostParams    `json:"params"`
	Sales       []SalesRecord `json:"sales,omitempty" binding:"omitempty,dive"`
}

// QuoteResponse cost breakdown plus recommendation
type QuoteResponse struct {
	ProductCode     string              `json:"product_code"`
	SnapshotID      string              `json:"snapshot_id"`
	CostBreakdown   CostBreakdown       `json:"cost_breakdown"`
	TotalCost       float64             `json:"total_cost"`
	Recommendation  PriceRecommendation `json:"recommendation"`
	DisplayPrice    float64             `json:"display_price"`
	ElasticityError string              `json:"elasticity_error,omitempty"`
}

// ScenarioResponse scenario rows for one product
type ScenarioResponse struct {
	ProductCode     string           `json:"product_code"`
	SnapshotID      string           `json:"snapshot_id"`
	Scenarios       []ScenarioResult `json:"scenarios"`
	ElasticityError string           `json:"elasticity_error,omitempty"`
}

// ScenarioRequest runs the pipeline over a manual list of exchange rates.
type ScenarioRequest struct {
	ProductCode   string        `json:"product_code" binding:"required"`
	ExchangeRates []float64     `json:"exchange_rates" binding:"required,min=1,dive,gt=0"`
	Params        CostParams    `json:"params"`
	Sales         []SalesRecord `json:"sales,omitempty" binding:"omitempty,dive"`
}

// ForecastScenarioParams is the JSON "params" form field of a forecast-driven scenario upload.
type ForecastScenarioParams struct {
	ProductCode string     `json:"product_code" binding:"required"`
	HorizonDays int        `json:"horizon_days"`
	Z           float64    `json:"z"`
	Params      CostParams `json:"params"`
}

// CatalogParams is the JSON "params" form field of a catalog analysis upload.
type CatalogParams struct {
	Params CostParams `json:"params"`
}
