package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

// demandCurve produces sales following units = scale * price^elasticity.
func demandCurve(code string, scale, elasticity float64, prices ...int) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, len(prices))
	for i, p := range prices {
		out = append(out, models.SalesRecord{
			Month:       fmt.Sprintf("2024-%02d", i+1),
			ProductCode: code,
			Price:       p,
			UnitsSold:   int(math.Round(scale * math.Pow(float64(p), elasticity))),
		})
	}
	return out
}

var gridPrices = []int{80, 90, 100, 110, 120, 130, 140, 150}

func TestFitElasticityRecoversSlope(t *testing.T) {
	records := demandCurve("P1", 1e6, -1.5, gridPrices...)

	m, err := FitElasticity(records, EstimateOptions{Lambda: 0, LowerBound: -3, UpperBound: -0.3})
	require.NoError(t, err)

	assert.InDelta(t, -1.5, m.RawSlope, 0.02)
	assert.Equal(t, m.RawSlope, m.Slope)
	assert.Greater(t, m.RSquared, 0.99)
	assert.InDelta(t, 115, m.AvgPrice, 1e-9)
	assert.Equal(t, len(gridPrices), m.Points)
	assert.GreaterOrEqual(t, m.SlopeStdErr, 0.0)
}

func TestFitElasticityClampsToBounds(t *testing.T) {
	opts := EstimateOptions{Lambda: 0, LowerBound: -3, UpperBound: -0.3}

	steep, err := FitElasticity(demandCurve("P1", 1e12, -5, gridPrices...), opts)
	require.NoError(t, err)
	assert.Less(t, steep.RawSlope, -3.0)
	assert.Equal(t, -3.0, steep.Slope)

	flat, err := FitElasticity(demandCurve("P2", 1000, -0.1, gridPrices...), opts)
	require.NoError(t, err)
	assert.Greater(t, flat.RawSlope, -0.3)
	assert.Equal(t, -0.3, flat.Slope)
}

func TestFitElasticitySlopeAlwaysWithinDefaultBounds(t *testing.T) {
	opts := DefaultEstimateOptions()
	for _, e := range []float64{0.5, -0.1, -1, -2, -6} {
		// about 1000 units at price 100 whatever the elasticity
		scale := 1000 * math.Pow(100, -e)
		m, err := FitElasticity(demandCurve("P", scale, e, gridPrices...), opts)
		require.NoError(t, err, "elasticity %v", e)
		assert.GreaterOrEqual(t, m.Slope, opts.LowerBound)
		assert.LessOrEqual(t, m.Slope, opts.UpperBound)
	}
}

func TestFitElasticityRidgeShrinksSlope(t *testing.T) {
	records := demandCurve("P1", 1e6, -1.5, gridPrices...)

	ols, err := FitElasticity(records, EstimateOptions{Lambda: 0, LowerBound: -10, UpperBound: 10})
	require.NoError(t, err)
	ridge, err := FitElasticity(records, EstimateOptions{Lambda: 1, LowerBound: -10, UpperBound: 10})
	require.NoError(t, err)

	assert.Less(t, math.Abs(ridge.RawSlope), math.Abs(ols.RawSlope))
	assert.Equal(t, 1.0, ridge.Lambda)
}

func TestFitElasticityInsufficientData(t *testing.T) {
	records := []models.SalesRecord{
		{Price: 100, UnitsSold: 10},
		{Price: 120, UnitsSold: 8},
		{Price: 0, UnitsSold: 50},
		{Price: 130, UnitsSold: 0},
	}
	_, err := FitElasticity(records, DefaultEstimateOptions())
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = FitElasticity(nil, DefaultEstimateOptions())
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFitElasticityIdenticalPricesIsDegenerate(t *testing.T) {
	records := []models.SalesRecord{
		{Price: 100, UnitsSold: 10},
		{Price: 100, UnitsSold: 12},
		{Price: 100, UnitsSold: 9},
	}
	_, err := FitElasticity(records, DefaultEstimateOptions())
	assert.ErrorIs(t, err, ErrDegenerateFit)
}

func TestFitElasticityRejectsInvertedBounds(t *testing.T) {
	_, err := FitElasticity(demandCurve("P", 1e6, -1, gridPrices...), EstimateOptions{LowerBound: -0.3, UpperBound: -3})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFitElasticityIsDeterministic(t *testing.T) {
	records := demandCurve("P1", 5e5, -1.2, 95, 100, 103, 110, 125)
	a, errA := FitElasticity(records, DefaultEstimateOptions())
	b, errB := FitElasticity(records, DefaultEstimateOptions())
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestEstimateAllIsolatesFailures(t *testing.T) {
	sales := map[string][]models.SalesRecord{
		"GOOD":  demandCurve("GOOD", 1e6, -1.5, gridPrices...),
		"SHORT": demandCurve("SHORT", 1e6, -1.5, 100, 110),
		"FLAT": {
			{Price: 100, UnitsSold: 10},
			{Price: 100, UnitsSold: 11},
			{Price: 100, UnitsSold: 12},
		},
	}

	outcomes := EstimateAll(context.Background(), sales, DefaultEstimateOptions(), 2)

	require.Len(t, outcomes, 3)
	assert.Equal(t, OutcomeOK, outcomes["GOOD"].Kind)
	assert.NoError(t, outcomes["GOOD"].Err)
	assert.Equal(t, len(gridPrices), outcomes["GOOD"].Model.Points)
	assert.Equal(t, OutcomeNoData, outcomes["SHORT"].Kind)
	assert.ErrorIs(t, outcomes["SHORT"].Err, ErrInsufficientData)
	assert.Equal(t, OutcomeDegenerate, outcomes["FLAT"].Kind)

	again := EstimateAll(context.Background(), sales, DefaultEstimateOptions(), 1)
	assert.Equal(t, outcomes, again)
}

func TestEstimateAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := EstimateAll(ctx, map[string][]models.SalesRecord{
		"P1": demandCurve("P1", 1e6, -1.5, gridPrices...),
	}, DefaultEstimateOptions(), 4)

	assert.Equal(t, OutcomeFailed, outcomes["P1"].Kind)
	assert.ErrorIs(t, outcomes["P1"].Err, context.Canceled)
}

func TestOutcomeKindOf(t *testing.T) {
	assert.Equal(t, OutcomeOK, OutcomeKindOf(nil))
	assert.Equal(t, OutcomeMissingReference, OutcomeKindOf(ErrMissingReference))
	assert.Equal(t, OutcomeFailed, OutcomeKindOf(context.DeadlineExceeded))
}
