// Package services - Forecast Service: C1 -> C2 -> ADS table orchestration
package services

import (
	"context"
	"fmt"

	"github.com/vantora/replenish/internal/database"
)

// RefreshResult summarizes one ADS refresh run.
type RefreshResult struct {
	ProductsObserved int
	Updated          int
	Skipped          int
}

// ForecastService wires the Sales Aggregator, Forecaster and Forecast
// Worker Pool into a single "refresh ADS" operation, separate from the
// Phase1/Phase2/Commit run lifecycle.
type ForecastService struct {
	catalogue  database.CatalogueQuerier
	aggregator *SalesAggregator
	pool       *ForecastWorkerPool
}

// NewForecastService wires a ForecastService from its dependencies.
func NewForecastService(catalogue database.CatalogueQuerier, aggregator *SalesAggregator, pool *ForecastWorkerPool) *ForecastService {
	return &ForecastService{
		catalogue:  catalogue,
		aggregator: aggregator,
		pool:       pool,
	}
}

// RefreshADS pulls posted sales in [start, end], aggregates them into dense
// per-product daily series, fits the seasonal model for each, and upserts
// the resulting ADS snapshots. now is the timestamp recorded on every
// written snapshot (typically the current time; passed explicitly so
// callers control it deterministically).
func (s *ForecastService) RefreshADS(ctx context.Context, start, end, now int64) (RefreshResult, error) {
	records, err := s.catalogue.PostedSales(ctx, start, end)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to load posted sales: %w", err)
	}

	series := s.aggregator.Aggregate(records, start, end)

	results, err := s.pool.Run(ctx, series, now)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("forecast run failed: %w", err)
	}

	res := RefreshResult{ProductsObserved: len(series)}
	for _, r := range results {
		if r.Skipped {
			res.Skipped++
			continue
		}
		res.Updated++
	}
	return res, nil
}

// ForecastServicer defines the interface for the ADS refresh operation.
type ForecastServicer interface {
	RefreshADS(ctx context.Context, start, end, now int64) (RefreshResult, error)
}

var _ ForecastServicer = (*ForecastService)(nil)
