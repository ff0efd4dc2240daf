package models

import "github.com/shopspring/decimal"

// DailyPoint is one (date, quantity) sample of a dense daily sales series.
type DailyPoint struct {
	Day      int64 `json:"day"` // unix day number (timestamp / 86400), truncated to calendar date
	Quantity int   `json:"quantity"`
}

// DailySeries is the Sales Aggregator's output for one product: a dense,
// gap-filled daily series over [first_sale, last_sale] ∩ [start, end].
type DailySeries struct {
	ProductID int          `json:"product_id"`
	Points    []DailyPoint `json:"points"`
}

// Sum returns the total observed quantity across the series.
func (s DailySeries) Sum() int {
	total := 0
	for _, p := range s.Points {
		total += p.Quantity
	}
	return total
}

// ADSSnapshot is the Forecaster's per-product output: a non-negative,
// 2-decimal Average Daily Sales figure with its last update time.
type ADSSnapshot struct {
	ProductID   int             `json:"product_id"`
	ADS         decimal.Decimal `json:"ads"`
	LastUpdated int64           `json:"last_updated"` // unix seconds
}
