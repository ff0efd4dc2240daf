// Package services - Deal Worker Pool
package services

import (
	"context"

	"github.com/vantora/replenish/internal/metrics"
	"github.com/vantora/replenish/internal/models"
	"golang.org/x/sync/errgroup"
)

// DealVariants pairs a Deal with its enumerated Variant list.
type DealVariants struct {
	Deal     models.Deal
	Variants []models.Variant
}

// DealWorkerPool fans variant enumeration out across Deals, grounded on
// RouteWorkerPool's worker-pool shape. Variant enumeration is pure CPU work
// with no shared mutable state between Deals, so errgroup's bounded
// concurrency is sufficient without a serialized writer stage.
type DealWorkerPool struct {
	workerCount int
}

// NewDealWorkerPool creates a new deal worker pool with the given bounded
// concurrency.
func NewDealWorkerPool(workerCount int) *DealWorkerPool {
	if workerCount <= 0 {
		workerCount = 16
	}
	return &DealWorkerPool{workerCount: workerCount}
}

// Run enumerates Variants for every Deal in parallel, preserving the input
// Deal order in the result.
func (p *DealWorkerPool) Run(ctx context.Context, deals []models.Deal) ([]DealVariants, error) {
	if len(deals) == 0 {
		return nil, nil
	}

	results := make([]DealVariants, len(deals))
	sem := make(chan struct{}, p.workerCount)
	g, gctx := errgroup.WithContext(ctx)

	metrics.WorkerPoolQueueSize.WithLabelValues("deal").Set(float64(len(deals)))
	defer metrics.WorkerPoolQueueSize.WithLabelValues("deal").Set(0)

	for i, deal := range deals {
		i, deal := i, deal
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			return nil, gctx.Err()
		}
		g.Go(func() error {
			defer func() { <-sem }()
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = DealVariants{Deal: deal, Variants: EnumerateVariants(deal)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
