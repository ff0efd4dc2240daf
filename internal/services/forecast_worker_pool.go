// Package services - Forecast Worker Pool
package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/vantora/replenish/internal/database"
	"github.com/vantora/replenish/internal/metrics"
	"github.com/vantora/replenish/internal/models"
	"golang.org/x/sync/errgroup"
)

// ForecastWorkerPool fits per-product forecasts in parallel and persists
// ADS snapshots through a single serialized writer: forecast fits are
// embarrassingly parallel but ADS upserts must not interleave. Uses
// errgroup so one product's fit failure cannot abort the others
// (ForecastSkipped is a per-product warning, not a fatal error).
type ForecastWorkerPool struct {
	workerCount int
	forecaster  *Forecaster
	adsRepo     database.ADSQuerier

	// runMu serializes whole Run calls, so two forecast runs through this
	// pool never interleave their ADS upserts.
	runMu sync.Mutex
}

// NewForecastWorkerPool creates a new forecast worker pool with the given
// bounded concurrency.
func NewForecastWorkerPool(forecaster *Forecaster, adsRepo database.ADSQuerier, workerCount int) *ForecastWorkerPool {
	if workerCount <= 0 {
		workerCount = 16
	}
	return &ForecastWorkerPool{
		workerCount: workerCount,
		forecaster:  forecaster,
		adsRepo:     adsRepo,
	}
}

// snapshotResult pairs an ADS snapshot with the skip outcome for reporting.
type snapshotResult struct {
	Snapshot models.ADSSnapshot
	Skipped  bool
	Reason   string
}

// Run fits every series and upserts the resulting ADS snapshots, serialized
// through a single writer goroutine. When a product's fit is skipped and no
// ADS snapshot exists yet, it writes 0. now is the upsert timestamp (unix
// seconds) recorded on every written snapshot.
func (p *ForecastWorkerPool) Run(ctx context.Context, series []models.DailySeries, now int64) ([]snapshotResult, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if len(series) == 0 {
		return nil, nil
	}

	seriesQueue := make(chan models.DailySeries, len(series))
	for _, s := range series {
		seriesQueue <- s
	}
	close(seriesQueue)
	metrics.WorkerPoolQueueSize.WithLabelValues("forecast").Set(float64(len(series)))
	defer metrics.WorkerPoolQueueSize.WithLabelValues("forecast").Set(0)

	writes := make(chan snapshotResult, len(series))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workerCount; i++ {
		g.Go(func() error {
			return p.worker(gctx, seriesQueue, writes, now)
		})
	}

	var writerWg sync.WaitGroup
	writerWg.Add(1)
	results := make([]snapshotResult, 0, len(series))
	go func() {
		defer writerWg.Done()
		for res := range writes {
			if err := p.persist(ctx, res); err != nil {
				log.Printf("Warning: failed to persist ADS for product %d: %v", res.Snapshot.ProductID, err)
				continue
			}
			results = append(results, res)
		}
	}()

	err := g.Wait()
	close(writes)
	writerWg.Wait()

	return results, err
}

func (p *ForecastWorkerPool) worker(ctx context.Context, queue <-chan models.DailySeries, writes chan<- snapshotResult, now int64) error {
	for s := range queue {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fitStart := time.Now()
		ads, err := p.forecaster.Fit(s)
		metrics.ForecastFitDuration.Observe(time.Since(fitStart).Seconds())

		res := snapshotResult{Snapshot: models.ADSSnapshot{ProductID: s.ProductID, ADS: ads, LastUpdated: now}}
		if err != nil {
			res.Skipped = true
			res.Reason = err.Error()
			if !models.IsKind(err, models.KindForecastSkipped) {
				return err
			}
			metrics.ForecastSkippedTotal.Inc()
		}

		select {
		case writes <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// persist applies the skip-on-failure semantics: a skipped fit only writes
// a fresh 0 snapshot when none already exists; it never overwrites one.
func (p *ForecastWorkerPool) persist(ctx context.Context, res snapshotResult) error {
	if res.Skipped {
		existing, err := p.adsRepo.GetADS(ctx, res.Snapshot.ProductID)
		if err != nil {
			return err
		}
		if existing.LastUpdated != 0 {
			return nil
		}
	}
	return p.adsRepo.UpsertADS(ctx, res.Snapshot)
}
