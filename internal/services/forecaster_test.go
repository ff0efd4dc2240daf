package services

import (
	"testing"

	"github.com/vantora/replenish/internal/models"
	"github.com/stretchr/testify/assert"
)

func constantSeries(productID, days, qty int) models.DailySeries {
	points := make([]models.DailyPoint, days)
	for i := 0; i < days; i++ {
		points[i] = models.DailyPoint{Day: int64(i), Quantity: qty}
	}
	return models.DailySeries{ProductID: productID, Points: points}
}

func TestForecaster_Fit(t *testing.T) {
	f := NewForecaster()

	t.Run("constant demand forecasts close to the constant", func(t *testing.T) {
		series := constantSeries(1, 60, 10)
		ads, err := f.Fit(series)
		assert.NoError(t, err)
		got, _ := ads.Float64()
		assert.InDelta(t, 10.0, got, 2.0, "ADS should track steady demand")
	})

	t.Run("too few observations is skipped", func(t *testing.T) {
		series := constantSeries(2, 10, 10)
		_, err := f.Fit(series)
		if assert.Error(t, err) {
			var domainErr *models.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, models.KindForecastSkipped, domainErr.Kind)
		}
	})

	t.Run("zero-sum series is skipped", func(t *testing.T) {
		series := constantSeries(3, 20, 0)
		_, err := f.Fit(series)
		if assert.Error(t, err) {
			var domainErr *models.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, models.KindForecastSkipped, domainErr.Kind)
		}
	})

	t.Run("forecast never goes negative", func(t *testing.T) {
		points := make([]models.DailyPoint, 40)
		for i := 0; i < 40; i++ {
			qty := 0
			if i%7 == 0 {
				qty = 50
			}
			points[i] = models.DailyPoint{Day: int64(i), Quantity: qty}
		}
		series := models.DailySeries{ProductID: 4, Points: points}

		ads, err := f.Fit(series)
		assert.NoError(t, err)
		got, _ := ads.Float64()
		assert.GreaterOrEqual(t, got, 0.0)
	})
}
