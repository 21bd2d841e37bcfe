package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

// EstimateOptions controls the ridge fit and the plausible elasticity range.
type EstimateOptions struct {
	Lambda     float64
	LowerBound float64
	UpperBound float64
}

// DefaultEstimateOptions λ=0.1, bounds [-3.0, -0.3]
func DefaultEstimateOptions() EstimateOptions {
	return EstimateOptions{Lambda: 0.1, LowerBound: -3.0, UpperBound: -0.3}
}

func (o EstimateOptions) validate() error {
	if o.Lambda < 0 || math.IsNaN(o.Lambda) {
		return invalid("estimate options", 0, "lambda", "must be >= 0")
	}
	if o.LowerBound > o.UpperBound {
		return invalid("estimate options", 0, "bounds", "lower bound exceeds upper bound")
	}
	return nil
}

// FitElasticity fits log(units) = a + b*log(price) over the records with positive price
// and units. The returned Slope is clamped into the configured bounds.
func FitElasticity(records []models.SalesRecord, opts EstimateOptions) (models.ElasticityModel, error) {
	if err := opts.validate(); err != nil {
		return models.ElasticityModel{}, err
	}

	prices := make([]float64, 0, len(records))
	x := make([]float64, 0, len(records))
	y := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Price <= 0 || r.UnitsSold <= 0 {
			continue
		}
		p := float64(r.Price)
		prices = append(prices, p)
		x = append(x, math.Log(p))
		y = append(y, math.Log(float64(r.UnitsSold)))
	}
	if len(prices) < 3 {
		return models.ElasticityModel{}, fmt.Errorf("%w: %d valid sales points, need at least 3", ErrInsufficientData, len(prices))
	}
	if allEqual(prices) {
		return models.ElasticityModel{}, fmt.Errorf("%w: every observed price is %.0f", ErrDegenerateFit, prices[0])
	}

	fit, err := fitRidge(x, y, opts.Lambda)
	if err != nil {
		return models.ElasticityModel{}, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}
	slopeVar, err := ridgeSlopeVariance(x, opts.Lambda)
	if err != nil {
		return models.ElasticityModel{}, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}
	sigma := fit.sigma()

	return models.ElasticityModel{
		Intercept:   fit.Intercept,
		Slope:       clamp(fit.Slope, opts.LowerBound, opts.UpperBound),
		RawSlope:    fit.Slope,
		SlopeStdErr: math.Sqrt(sigma * sigma * slopeVar),
		RSquared:    fit.RSquared,
		AvgPrice:    calculateMean(prices),
		Lambda:      opts.Lambda,
		LowerBound:  opts.LowerBound,
		UpperBound:  opts.UpperBound,
		Points:      len(prices),
	}, nil
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// OutcomeKind classifies a per-product batch result.
type OutcomeKind string

const (
	OutcomeOK               OutcomeKind = "ok"
	OutcomeNoData           OutcomeKind = "no_data"
	OutcomeDegenerate       OutcomeKind = "degenerate"
	OutcomeMissingReference OutcomeKind = "missing_reference"
	OutcomeFailed           OutcomeKind = "failed"
)

// EstimateOutcome is either a fitted model (Kind == OutcomeOK) or the error that prevented it.
type EstimateOutcome struct {
	Kind  OutcomeKind
	Model models.ElasticityModel
	Err   error
}

// OutcomeKindOf maps an error to its batch outcome kind. A nil error is OutcomeOK.
func OutcomeKindOf(err error) OutcomeKind {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInsufficientData):
		return OutcomeNoData
	case errors.Is(err, ErrDegenerateFit):
		return OutcomeDegenerate
	case errors.Is(err, ErrMissingReference):
		return OutcomeMissingReference
	default:
		return OutcomeFailed
	}
}

// EstimateAll fits every product in sales with at most concurrency fits in flight.
// One product's failure is recorded in its outcome and never aborts the others.
func EstimateAll(ctx context.Context, sales map[string][]models.SalesRecord, opts EstimateOptions, concurrency int) map[string]EstimateOutcome {
	codes := make([]string, 0, len(sales))
	for code := range sales {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	if concurrency < 1 {
		concurrency = 1
	}
	outcomes := make([]EstimateOutcome, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, code := range codes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = EstimateOutcome{Kind: OutcomeFailed, Err: err}
				return nil
			}
			model, err := FitElasticity(sales[code], opts)
			outcomes[i] = EstimateOutcome{Kind: OutcomeKindOf(err), Model: model, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := make(map[string]EstimateOutcome, len(codes))
	for i, code := range codes {
		result[code] = outcomes[i]
	}
	return result
}
