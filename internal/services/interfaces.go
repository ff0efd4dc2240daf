// Package services - Service layer interfaces for dependency injection and testing
package services

import (
	"context"

	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
)

// SalesAggregatorServicer defines the interface for grouping posted sales
// into dense per-product daily series.
type SalesAggregatorServicer interface {
	// Aggregate builds one DailySeries per product observed in the given
	// range, gap-filled and filtered.
	Aggregate(records []models.SaleRecord, start, end int64) []models.DailySeries
}

// ForecasterServicer defines the interface for per-product ADS forecasting.
type ForecasterServicer interface {
	// Fit trains the seasonal model on series and returns the resulting
	// ADS, or a ForecastSkipped error.
	Fit(series models.DailySeries) (decimal.Decimal, error)
}

// DealAssemblerServicer defines the interface for turning catalogue/stock/
// ADS state into brand-grouped Deals.
type DealAssemblerServicer interface {
	Assemble(input AssembleInput) ([]models.Deal, error)
}

// SelectorServicer defines the interface for the multi-choice knapsack
// Variant selection.
type SelectorServicer interface {
	Select(ctx context.Context, dealVariants []DealVariants, budget decimal.Decimal) ([]Selection, error)
}

// ReportMaterializerServicer defines the interface for writing a run's
// chosen Variants into Report items and totals.
type ReportMaterializerServicer interface {
	Materialize(reportID string, brands map[int]models.Brand, selections []Selection) ([]models.ReportItem, ReportTotals)
}

// RunServicer defines the interface for the Phase1/Phase2/Commit run
// lifecycle.
type RunServicer interface {
	Phase1(ctx context.Context, reportID string, maxInvestmentPeriod int) error
	Phase2(ctx context.Context, reportID string, budget decimal.Decimal) error
	Commit(ctx context.Context, reportID string) error
}

// Compile-time interface compliance checks.
var (
	_ SalesAggregatorServicer    = (*SalesAggregator)(nil)
	_ ForecasterServicer         = (*Forecaster)(nil)
	_ DealAssemblerServicer      = (*DealAssembler)(nil)
	_ SelectorServicer           = (*Selector)(nil)
	_ ReportMaterializerServicer = (*ReportMaterializer)(nil)
	_ RunServicer                = (*RunService)(nil)
	_ ForecastServicer           = (*ForecastService)(nil)
)
