// Package services - Sales Aggregator (C1)
package services

import (
	"sort"

	"github.com/vantora/replenish/internal/models"
)

const (
	secondsPerDay = 86400
	// minObservations is the Forecaster's "≥15 daily observations" contract;
	// the aggregator skips emitting a series shorter than this.
	minObservations = 15
)

// SalesAggregator groups posted sale lines by product/day and produces a
// dense daily series: group by truncated date, reindex to a dense date
// range, fill missing days with 0.
type SalesAggregator struct{}

// NewSalesAggregator creates a new Sales Aggregator.
func NewSalesAggregator() *SalesAggregator {
	return &SalesAggregator{}
}

// Aggregate builds one DailySeries per product observed in records with a
// timestamp in [start, end] (unix seconds). Products with no sales in range
// are omitted; series shorter than minObservations after gap-filling, or
// summing to zero, are omitted too.
func (a *SalesAggregator) Aggregate(records []models.SaleRecord, start, end int64) []models.DailySeries {
	byProduct := make(map[int]map[int64]int)

	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	for _, rec := range records {
		day := truncateToDay(rec.Timestamp)
		if day < startDay || day > endDay {
			continue
		}
		if byProduct[rec.ProductID] == nil {
			byProduct[rec.ProductID] = make(map[int64]int)
		}
		byProduct[rec.ProductID][day] += rec.Quantity
	}

	productIDs := make([]int, 0, len(byProduct))
	for pid := range byProduct {
		productIDs = append(productIDs, pid)
	}
	sort.Ints(productIDs)

	var out []models.DailySeries
	for _, pid := range productIDs {
		days := byProduct[pid]

		firstDay, lastDay := int64(0), int64(0)
		first := true
		for day := range days {
			if first || day < firstDay {
				firstDay = day
			}
			if first || day > lastDay {
				lastDay = day
			}
			first = false
		}
		if first {
			continue // no observations for this product
		}

		lo := maxInt64(firstDay, startDay)
		hi := minInt64(lastDay, endDay)

		var points []models.DailyPoint
		sum := 0
		for day := lo; day <= hi; day++ {
			qty := days[day]
			points = append(points, models.DailyPoint{Day: day, Quantity: qty})
			sum += qty
		}

		if len(points) < minObservations || sum <= 0 {
			continue
		}

		out = append(out, models.DailySeries{ProductID: pid, Points: points})
	}

	return out
}

func truncateToDay(unixSeconds int64) int64 {
	return unixSeconds / secondsPerDay
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
