package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

var fxStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// linearRates produces n consecutive daily observations of base + step*t.
func linearRates(n int, base, step float64) []models.FxHistoryPoint {
	out := make([]models.FxHistoryPoint, n)
	for i := range out {
		out[i] = models.FxHistoryPoint{Date: fxStart.AddDate(0, 0, i), Rate: base + step*float64(i)}
	}
	return out
}

func TestForecastFXExactLine(t *testing.T) {
	history := linearRates(10, 50000, 100)

	res, err := ForecastFX(history, 7, DefaultFXZ)
	require.NoError(t, err)

	assert.InDelta(t, 100, res.Slope, 1e-6)
	assert.InDelta(t, 50000, res.Intercept, 1e-6)
	assert.InDelta(t, 1, res.RSquared, 1e-9)
	assert.InDelta(t, 0, res.Sigma, 1e-6)

	require.Len(t, res.ForecastDates, 7)
	require.Len(t, res.ForecastRates, 7)
	require.Len(t, res.ForecastLow, 7)
	require.Len(t, res.ForecastHigh, 7)
	assert.Len(t, res.HistoryDates, 10)
	assert.Len(t, res.HistoryRates, 10)

	last := history[len(history)-1].Date
	for i := range res.ForecastDates {
		assert.Equal(t, last.AddDate(0, 0, i+1), res.ForecastDates[i])
		assert.InDelta(t, 50000+100*float64(10+i), res.ForecastRates[i], 1e-6)
	}
}

func TestForecastFXBandOrdering(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	history := linearRates(30, 58000, 25)
	for i := range history {
		history[i].Rate += r.NormFloat64() * 400
	}

	res, err := ForecastFX(history, 14, 1.96)
	require.NoError(t, err)
	assert.Greater(t, res.Sigma, 0.0)

	for i := range res.ForecastRates {
		assert.LessOrEqual(t, res.ForecastLow[i], res.ForecastRates[i])
		assert.LessOrEqual(t, res.ForecastRates[i], res.ForecastHigh[i])
		assert.InDelta(t, 2*1.96*res.Sigma, res.ForecastHigh[i]-res.ForecastLow[i], 1e-6)
	}
}

func TestForecastFXDefaultsZ(t *testing.T) {
	history := linearRates(12, 60000, 10)
	history[3].Rate += 500
	history[8].Rate -= 300

	def, err := ForecastFX(history, 3, 0)
	require.NoError(t, err)
	explicit, err := ForecastFX(history, 3, DefaultFXZ)
	require.NoError(t, err)
	assert.Equal(t, explicit, def)
}

func TestForecastFXErrors(t *testing.T) {
	_, err := ForecastFX(linearRates(10, 50000, 1), 0, DefaultFXZ)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = ForecastFX(linearRates(10, 50000, 1), -5, DefaultFXZ)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = ForecastFX(linearRates(4, 50000, 1), 7, DefaultFXZ)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// horizon is checked before history length
	_, err = ForecastFX(nil, 0, DefaultFXZ)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestCheckHorizon(t *testing.T) {
	assert.NoError(t, CheckHorizon(1, DefaultMaxHorizonDays))
	assert.NoError(t, CheckHorizon(DefaultMaxHorizonDays, DefaultMaxHorizonDays))
	assert.ErrorIs(t, CheckHorizon(0, DefaultMaxHorizonDays), ErrInvalidHorizon)
	assert.ErrorIs(t, CheckHorizon(DefaultMaxHorizonDays+1, DefaultMaxHorizonDays), ErrInvalidHorizon)
	assert.ErrorIs(t, CheckHorizon(2_000_000_000, DefaultMaxHorizonDays), ErrInvalidHorizon)
}

func TestForecastFXSameDayIsDegenerate(t *testing.T) {
	history := make([]models.FxHistoryPoint, 6)
	for i := range history {
		history[i] = models.FxHistoryPoint{Date: fxStart, Rate: 50000 + float64(i)}
	}
	_, err := ForecastFX(history, 3, DefaultFXZ)
	assert.ErrorIs(t, err, ErrDegenerateFit)
}

func TestForecastFXSortsInput(t *testing.T) {
	sorted := linearRates(8, 52000, 40)
	shuffled := []models.FxHistoryPoint{sorted[5], sorted[0], sorted[7], sorted[2], sorted[1], sorted[6], sorted[4], sorted[3]}

	a, err := ForecastFX(sorted, 5, DefaultFXZ)
	require.NoError(t, err)
	b, err := ForecastFX(shuffled, 5, DefaultFXZ)
	require.NoError(t, err)

	assert.Equal(t, a.HistoryDates, b.HistoryDates)
	assert.Equal(t, a.ForecastDates, b.ForecastDates)
	assert.InDeltaSlice(t, a.ForecastRates, b.ForecastRates, 1e-6)
	// caller's slice is left alone
	assert.Equal(t, sorted[5], shuffled[0])
}

func TestForecastFXIsIdempotent(t *testing.T) {
	history := linearRates(20, 61000, -15)
	history[10].Rate += 250

	a, err := ForecastFX(history, 10, DefaultFXZ)
	require.NoError(t, err)
	b, err := ForecastFX(history, 10, DefaultFXZ)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDayOffset(t *testing.T) {
	a := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 12, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, dayOffset(a, b))
	assert.Equal(t, -3, dayOffset(b, a))
	assert.Equal(t, 0, dayOffset(a, a))
}
