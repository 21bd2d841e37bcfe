package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

const (
	// MinFXHistory is the fewest observations the FX trend is fitted on.
	MinFXHistory = 5
	// DefaultFXZ approximate 95% band
	DefaultFXZ = 1.96
	// DefaultMaxHorizonDays caps forecast requests at ten years.
	DefaultMaxHorizonDays = 3650
)

// CheckHorizon rejects a forecast horizon outside 1..maxDays.
func CheckHorizon(horizonDays, maxDays int) error {
	if horizonDays <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidHorizon, horizonDays)
	}
	if horizonDays > maxDays {
		return fmt.Errorf("%w: horizon of %d days exceeds the limit of %d", ErrInvalidHorizon, horizonDays, maxDays)
	}
	return nil
}

// ForecastFX fits rate = intercept + slope*t over day offsets from the first observation
// and projects one point per calendar day after the last observed date.
// The band is rate -/+ z*sigma, constant across the horizon.
func ForecastFX(points []models.FxHistoryPoint, horizonDays int, z float64) (models.FxForecastResult, error) {
	if horizonDays <= 0 {
		return models.FxForecastResult{}, fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidHorizon, horizonDays)
	}
	if len(points) < MinFXHistory {
		return models.FxForecastResult{}, fmt.Errorf("%w: %d exchange-rate observations, need at least %d", ErrInsufficientData, len(points), MinFXHistory)
	}
	if z <= 0 {
		z = DefaultFXZ
	}

	history := make([]models.FxHistoryPoint, len(points))
	copy(history, points)
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })

	first := history[0].Date
	t := make([]float64, len(history))
	rates := make([]float64, len(history))
	for i, p := range history {
		t[i] = float64(dayOffset(first, p.Date))
		rates[i] = p.Rate
	}

	fit, err := fitLinear(t, rates)
	if err != nil {
		return models.FxForecastResult{}, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}
	sigma := fit.sigma()

	result := models.FxForecastResult{
		HistoryDates:  make([]time.Time, len(history)),
		HistoryRates:  rates,
		ForecastDates: make([]time.Time, horizonDays),
		ForecastRates: make([]float64, horizonDays),
		ForecastLow:   make([]float64, horizonDays),
		ForecastHigh:  make([]float64, horizonDays),
		Slope:         fit.Slope,
		Intercept:     fit.Intercept,
		RSquared:      fit.RSquared,
		Sigma:         sigma,
	}
	for i, p := range history {
		result.HistoryDates[i] = p.Date
	}

	lastDate := history[len(history)-1].Date
	lastOffset := dayOffset(first, lastDate)
	for i := 1; i <= horizonDays; i++ {
		rate := fit.predict(float64(lastOffset + i))
		result.ForecastDates[i-1] = lastDate.AddDate(0, 0, i)
		result.ForecastRates[i-1] = rate
		result.ForecastLow[i-1] = rate - z*sigma
		result.ForecastHigh[i-1] = rate + z*sigma
	}
	return result, nil
}

// dayOffset whole calendar days from a to b
func dayOffset(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(math.Round(ub.Sub(ua).Hours() / 24))
}
