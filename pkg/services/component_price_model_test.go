package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

func purchase(part string, y int, m time.Month, d int, price float64) models.ComponentPurchase {
	return models.ComponentPurchase{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), PartName: part, UnitPriceUSD: price}
}

func TestTrainComponentModels(t *testing.T) {
	trained := TrainComponentModels([]models.ComponentPurchase{
		purchase("MCU", 2024, time.January, 3, 1.0),
		purchase("MCU", 2024, time.January, 20, 1.2),
		purchase("MCU", 2024, time.February, 11, 1.3),
		purchase("MCU", 2024, time.March, 5, 1.5),
		purchase("Crystal", 2024, time.February, 1, 0.25),
		purchase("Crystal", 2024, time.February, 28, 0.35),
	})

	require.Len(t, trained, 2)
	crystal, mcu := trained[0], trained[1]

	assert.Equal(t, "Crystal", crystal.PartName)
	assert.Equal(t, 1, crystal.Months)
	assert.Zero(t, crystal.Slope)
	assert.InDelta(t, 0.3, crystal.Intercept, 1e-12)
	assert.Equal(t, "2024-02", crystal.LastMonth)

	assert.Equal(t, "MCU", mcu.PartName)
	assert.Equal(t, 3, mcu.Months)
	assert.Equal(t, "2024-03", mcu.LastMonth)
	assert.Greater(t, mcu.Slope, 0.0)

	next, err := PredictComponentPrice(mcu)
	require.NoError(t, err)
	assert.Equal(t, "2024-04", next.Month)
	assert.InDelta(t, 1.704, next.UnitPriceUSD, 0.01)

	flat, err := PredictComponentPrice(crystal)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", flat.Month)
	assert.InDelta(t, 0.3, flat.UnitPriceUSD, 1e-12)
}

func TestTrainComponentModelsEmpty(t *testing.T) {
	assert.Empty(t, TrainComponentModels(nil))
}

func TestPredictComponentPriceBadMonth(t *testing.T) {
	_, err := PredictComponentPrice(models.ComponentPriceModel{PartName: "MCU", LastMonth: "March"})
	assert.Error(t, err)
}

func TestComponentModelStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	store := NewComponentModelStore(dir)

	trained := TrainComponentModels([]models.ComponentPurchase{
		purchase("STM32F103 (LQFP-48)", 2024, time.January, 3, 2.0),
		purchase("STM32F103 (LQFP-48)", 2024, time.February, 3, 2.2),
	})
	paths, err := store.Save(trained)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "stm32f103-lqfp-48.json"), paths[0])
	_, err = os.Stat(paths[0])
	require.NoError(t, err)

	loaded, err := store.Load("STM32F103 (LQFP-48)")
	require.NoError(t, err)
	assert.Equal(t, trained[0], loaded)

	forecast, err := store.PredictNextMonth("stm32f103 lqfp 48")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", forecast.Month)
}

func TestComponentModelStoreMissingModel(t *testing.T) {
	store := NewComponentModelStore(t.TempDir())

	_, err := store.Load("unknown part")
	assert.ErrorIs(t, err, ErrModelNotFound)

	_, err = store.PredictNextMonth("unknown part")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "ne555-timer", slugify("  NE555 Timer!! "))
	assert.Equal(t, "component", slugify("***"))
	assert.Equal(t, "10k-resistor-0603", slugify("10k_Resistor/0603"))
}
