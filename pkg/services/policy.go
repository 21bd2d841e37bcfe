package services

import (
	"math"
)

// Range is a closed numeric range in the policy file.
type Range struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Policy tunes the pricing engine. It is loaded from YAML by the config package.
type Policy struct {
	DataDrivenWeight   float64   `json:"data_driven_weight"`
	RidgeLambda        float64   `json:"ridge_lambda"`
	ElasticityBounds   Range     `json:"elasticity_bounds"`
	GridSize           int       `json:"grid_size"`
	GridSpan           Range     `json:"grid_span"`
	FXZ                float64   `json:"fx_z"`
	DefaultHorizonDays int       `json:"default_horizon_days"`
	MaxHorizonDays     int       `json:"max_horizon_days"`
	SensitivityFactors []float64 `json:"sensitivity_factors"`
	BatchConcurrency   int       `json:"batch_concurrency"`
}

// DefaultPolicy 70% data-driven blend and the default fit/grid settings.
func DefaultPolicy() Policy {
	est := DefaultEstimateOptions()
	opt := DefaultOptimizeOptions()
	return Policy{
		DataDrivenWeight:   DefaultDataDrivenWeight,
		RidgeLambda:        est.Lambda,
		ElasticityBounds:   Range{Low: est.LowerBound, High: est.UpperBound},
		GridSize:           opt.GridSize,
		GridSpan:           Range{Low: opt.SpanLow, High: opt.SpanHigh},
		FXZ:                DefaultFXZ,
		DefaultHorizonDays: 30,
		MaxHorizonDays:     DefaultMaxHorizonDays,
		SensitivityFactors: opt.Factors,
		BatchConcurrency:   4,
	}
}

// Validate rejects settings the engine cannot run with.
func (p Policy) Validate() error {
	const src = "pricing policy"
	switch {
	case math.IsNaN(p.DataDrivenWeight) || p.DataDrivenWeight < 0 || p.DataDrivenWeight > 1:
		return invalid(src, 0, "data_driven_weight", "must be within [0, 1]")
	case p.RidgeLambda < 0:
		return invalid(src, 0, "ridge_lambda", "must not be negative")
	case p.ElasticityBounds.Low > p.ElasticityBounds.High:
		return invalid(src, 0, "elasticity_bounds", "low exceeds high")
	case p.GridSize < 2:
		return invalid(src, 0, "grid_size", "must be at least 2")
	case p.GridSpan.Low <= 0 || p.GridSpan.High < p.GridSpan.Low:
		return invalid(src, 0, "grid_span", "must satisfy 0 < low <= high")
	case p.FXZ <= 0:
		return invalid(src, 0, "fx_z", "must be positive")
	case p.DefaultHorizonDays <= 0:
		return invalid(src, 0, "default_horizon_days", "must be positive")
	case p.MaxHorizonDays < p.DefaultHorizonDays:
		return invalid(src, 0, "max_horizon_days", "must be at least default_horizon_days")
	case len(p.SensitivityFactors) == 0:
		return invalid(src, 0, "sensitivity_factors", "must not be empty")
	case p.BatchConcurrency < 1:
		return invalid(src, 0, "batch_concurrency", "must be at least 1")
	}
	for _, f := range p.SensitivityFactors {
		if f < 0 {
			return invalid(src, 0, "sensitivity_factors", "must not contain negative factors")
		}
	}
	return nil
}

// EstimateOptions derives the elasticity fit options.
func (p Policy) EstimateOptions() EstimateOptions {
	return EstimateOptions{
		Lambda:     p.RidgeLambda,
		LowerBound: p.ElasticityBounds.Low,
		UpperBound: p.ElasticityBounds.High,
	}
}

// OptimizeOptions derives the grid search options.
func (p Policy) OptimizeOptions() OptimizeOptions {
	factors := make([]float64, len(p.SensitivityFactors))
	copy(factors, p.SensitivityFactors)
	return OptimizeOptions{
		GridSize: p.GridSize,
		SpanLow:  p.GridSpan.Low,
		SpanHigh: p.GridSpan.High,
		Factors:  factors,
		Z:        DefaultFXZ,
	}
}
