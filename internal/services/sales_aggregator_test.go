package services

import (
	"testing"

	"github.com/vantora/replenish/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSalesAggregator_Aggregate(t *testing.T) {
	agg := NewSalesAggregator()
	const day = secondsPerDay

	t.Run("dense series with gap fill", func(t *testing.T) {
		start := int64(0)
		end := int64(19 * day)

		var records []models.SaleRecord
		for i := int64(0); i < 20; i++ {
			if i == 5 || i == 10 {
				continue // leave gaps to verify 0-fill
			}
			records = append(records, models.SaleRecord{ProductID: 1, Timestamp: i * day, Quantity: 3})
		}

		series := agg.Aggregate(records, start, end)
		if assert.Len(t, series, 1) {
			s := series[0]
			assert.Equal(t, 1, s.ProductID)
			assert.Len(t, s.Points, 20, "dense series spans every day including gaps")

			byDay := make(map[int64]int)
			for _, p := range s.Points {
				byDay[p.Day] = p.Quantity
			}
			assert.Equal(t, 0, byDay[5])
			assert.Equal(t, 0, byDay[10])
			assert.Equal(t, 3, byDay[0])
		}
	})

	t.Run("fewer than minObservations is omitted", func(t *testing.T) {
		var records []models.SaleRecord
		for i := int64(0); i < 10; i++ {
			records = append(records, models.SaleRecord{ProductID: 2, Timestamp: i * day, Quantity: 5})
		}

		series := agg.Aggregate(records, 0, 9*day)
		assert.Empty(t, series)
	})

	t.Run("all-zero sum is omitted", func(t *testing.T) {
		var records []models.SaleRecord
		for i := int64(0); i < 20; i++ {
			records = append(records, models.SaleRecord{ProductID: 3, Timestamp: i * day, Quantity: 0})
		}

		series := agg.Aggregate(records, 0, 19*day)
		assert.Empty(t, series)
	})

	t.Run("out of range records are excluded", func(t *testing.T) {
		var records []models.SaleRecord
		for i := int64(0); i < 20; i++ {
			records = append(records, models.SaleRecord{ProductID: 4, Timestamp: i * day, Quantity: 2})
		}
		// Requesting a narrower window than the records span.
		records = append(records, models.SaleRecord{ProductID: 4, Timestamp: 100 * day, Quantity: 999})

		series := agg.Aggregate(records, 0, 19*day)
		if assert.Len(t, series, 1) {
			assert.Equal(t, 40, series[0].Sum())
		}
	})

	t.Run("multiple products sorted by id", func(t *testing.T) {
		var records []models.SaleRecord
		for _, pid := range []int{20, 10} {
			for i := int64(0); i < 20; i++ {
				records = append(records, models.SaleRecord{ProductID: pid, Timestamp: i * day, Quantity: 1})
			}
		}

		series := agg.Aggregate(records, 0, 19*day)
		if assert.Len(t, series, 2) {
			assert.Equal(t, 10, series[0].ProductID)
			assert.Equal(t, 20, series[1].ProductID)
		}
	})

	t.Run("no records", func(t *testing.T) {
		series := agg.Aggregate(nil, 0, 19*day)
		assert.Empty(t, series)
	})
}
