// Package services - Run Service: Phase1/Phase2/Commit lifecycle orchestration
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vantora/replenish/internal/database"
	"github.com/vantora/replenish/internal/metrics"
	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
)

// PurchaseDocumentLine is one line of the Purchase Document materialized on
// commit.
type PurchaseDocumentLine struct {
	ProductID     int
	Quantity      int
	PurchasePrice decimal.Decimal
}

// PurchaseDocumentCreator is the external collaborator a committed run
// hands its order lines to.
type PurchaseDocumentCreator interface {
	CreateDocument(ctx context.Context, reportID string, lines []PurchaseDocumentLine) error
}

// RunService orchestrates the Phase1 (enumerate + budget bounds) ->
// Phase2 (select + materialize) -> Commit lifecycle, wiring together the
// Deal Assembler, Variant Enumerator, Budget-Bounds Estimator, Selector
// and Report Materializer.
type RunService struct {
	catalogue    database.CatalogueQuerier
	reports      database.ReportQuerier
	ads          database.ADSQuerier
	assembler    *DealAssembler
	dealPool     *DealWorkerPool
	bounds       *BudgetBoundsEstimator
	selector     *Selector
	materializer *ReportMaterializer
	cache        *VariantCache
	notifier     *RunNotifier
	documents    PurchaseDocumentCreator
}

// NewRunService wires a RunService from its dependencies.
func NewRunService(
	catalogue database.CatalogueQuerier,
	reports database.ReportQuerier,
	ads database.ADSQuerier,
	assembler *DealAssembler,
	dealPool *DealWorkerPool,
	bounds *BudgetBoundsEstimator,
	selector *Selector,
	materializer *ReportMaterializer,
	cache *VariantCache,
	notifier *RunNotifier,
	documents PurchaseDocumentCreator,
) *RunService {
	return &RunService{
		catalogue:    catalogue,
		reports:      reports,
		ads:          ads,
		assembler:    assembler,
		dealPool:     dealPool,
		bounds:       bounds,
		selector:     selector,
		materializer: materializer,
		cache:        cache,
		notifier:     notifier,
		documents:    documents,
	}
}

// catalogueSnapshot is the consistent read of catalogue/stock/ADS state
// taken at run start, guaranteeing a run sees one snapshot regardless of
// mid-run catalogue changes.
type catalogueSnapshot struct {
	products       []models.Product
	brands         map[int]models.Brand
	tiersByProduct map[int][]models.PriceTier
	stock          map[int]decimal.Decimal
	ads            map[int]models.ADSSnapshot
}

func (s *RunService) loadSnapshot(ctx context.Context, warehouse int) (catalogueSnapshot, error) {
	products, err := s.catalogue.ListProducts(ctx)
	if err != nil {
		return catalogueSnapshot{}, fmt.Errorf("failed to list products: %w", err)
	}

	brands := make(map[int]models.Brand)
	tiers := make(map[int][]models.PriceTier)
	stock := make(map[int]decimal.Decimal)

	for _, p := range products {
		if _, ok := brands[p.BrandID]; !ok {
			b, err := s.catalogue.GetBrand(ctx, p.BrandID)
			if err != nil {
				return catalogueSnapshot{}, fmt.Errorf("failed to get brand %d: %w", p.BrandID, err)
			}
			brands[p.BrandID] = b
		}

		t, err := s.catalogue.ListTiers(ctx, p.ID)
		if err != nil {
			return catalogueSnapshot{}, fmt.Errorf("failed to list tiers for product %d: %w", p.ID, err)
		}
		tiers[p.ID] = t

		qty, err := s.catalogue.Stock(ctx, warehouse, p.ID)
		if err != nil {
			return catalogueSnapshot{}, fmt.Errorf("failed to get stock for product %d: %w", p.ID, err)
		}
		stock[p.ID] = qty
	}

	adsMap, err := s.ads.GetAllADS(ctx)
	if err != nil {
		return catalogueSnapshot{}, fmt.Errorf("failed to load ADS snapshots: %w", err)
	}

	return catalogueSnapshot{
		products:       products,
		brands:         brands,
		tiersByProduct: tiers,
		stock:          stock,
		ads:            adsMap,
	}, nil
}

// Phase1 assembles Deals, enumerates Variants, estimates the [min,max]
// budget range and persists the serialized Variants for Phase2. The
// Report stays in DRAFT.
func (s *RunService) Phase1(ctx context.Context, reportID string, maxInvestmentPeriod int) error {
	startTime := time.Now()
	defer func() { metrics.RunPhaseDuration.WithLabelValues("phase1").Observe(time.Since(startTime).Seconds()) }()

	rep, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if rep.Status != models.StatusDraft {
		return models.NewStateConflictError(fmt.Sprintf("report %s is not in DRAFT status", reportID))
	}

	snapshot, err := s.loadSnapshot(ctx, rep.Warehouse)
	if err != nil {
		return err
	}

	deals, err := s.assembler.Assemble(AssembleInput{
		Products:            snapshot.products,
		Brands:              snapshot.brands,
		TiersByProduct:      snapshot.tiersByProduct,
		Stock:               snapshot.stock,
		ADS:                 snapshot.ads,
		CoverageDays:        rep.CoverageDays,
		CreditTerms:         rep.CreditTerms,
		MaxInvestmentPeriod: maxInvestmentPeriod,
	})
	if err != nil {
		return err
	}

	dealVariants, err := s.dealPool.Run(ctx, deals)
	if err != nil {
		return fmt.Errorf("variant enumeration failed: %w", err)
	}

	bounds := s.bounds.Estimate(dealVariants)

	blob, err := s.cache.Set(ctx, reportID, dealVariants)
	if err != nil {
		return err
	}

	rep.MinBudget = bounds.MinBudget
	rep.MaxBudget = bounds.MaxBudget
	rep.MaxInvestmentPeriod = maxInvestmentPeriod
	rep.SerializedVariants = blob

	if err := s.reports.UpdatePhase1Result(ctx, rep); err != nil {
		return err
	}

	s.notify(ctx, reportID, "phase1", "")
	return nil
}

// Phase2 runs the Selector against the cached Variants for final budget B,
// then materializes the Report's items.
func (s *RunService) Phase2(ctx context.Context, reportID string, budget decimal.Decimal) error {
	startTime := time.Now()
	defer func() { metrics.RunPhaseDuration.WithLabelValues("phase2").Observe(time.Since(startTime).Seconds()) }()

	rep, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if rep.Status != models.StatusDraft {
		return models.NewStateConflictError(fmt.Sprintf("report %s is not in DRAFT status", reportID))
	}
	if budget.LessThan(rep.MinBudget) || budget.GreaterThan(rep.MaxBudget) {
		return models.NewBudgetOutOfRangeError(fmt.Sprintf("budget %s outside [%s, %s]", budget, rep.MinBudget, rep.MaxBudget))
	}

	dealVariants, err := s.cache.Get(ctx, reportID, rep.SerializedVariants)
	if err != nil {
		return err
	}

	solveCtx, cancel := context.WithTimeout(ctx, DefaultSolverTimeout)
	defer cancel()

	selections, err := s.selector.Select(solveCtx, dealVariants, budget)
	if err != nil {
		s.notify(ctx, reportID, "failed", err.Error())
		return err
	}

	items, _ := s.materializer.Materialize(reportID, brandsFromDeals(dealVariants), selections)

	if err := s.reports.ReplaceReportItems(ctx, reportID, items); err != nil {
		return err
	}

	s.notify(ctx, reportID, "phase2", "")
	return nil
}

// Commit transitions a DRAFT report to ORDER_CREATED and materializes a
// Purchase Document with one line per Item having best_quantity > 0.
// Once ORDER_CREATED, the Report is immutable.
func (s *RunService) Commit(ctx context.Context, reportID string) error {
	startTime := time.Now()
	defer func() { metrics.RunPhaseDuration.WithLabelValues("commit").Observe(time.Since(startTime).Seconds()) }()

	rep, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if rep.Status != models.StatusDraft {
		return models.NewStateConflictError(fmt.Sprintf("report %s is not in DRAFT status", reportID))
	}

	items, err := s.reports.GetReportItems(ctx, reportID)
	if err != nil {
		return err
	}

	var lines []PurchaseDocumentLine
	for _, it := range items {
		if it.BestQuantity <= 0 {
			continue
		}
		lines = append(lines, PurchaseDocumentLine{
			ProductID:     it.ProductID,
			Quantity:      it.BestQuantity,
			PurchasePrice: it.PurchasePrice,
		})
	}

	if s.documents != nil {
		if err := s.documents.CreateDocument(ctx, reportID, lines); err != nil {
			return fmt.Errorf("failed to create purchase document: %w", err)
		}
	}

	if err := s.reports.UpdateStatus(ctx, reportID, models.StatusOrderCreated); err != nil {
		return err
	}

	s.notify(ctx, reportID, "committed", "")
	return nil
}

func (s *RunService) notify(ctx context.Context, reportID, phase, detail string) {
	if s.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = s.notifier.Publish(notifyCtx, RunEvent{ReportID: reportID, Phase: phase, Detail: detail})
}

func brandsFromDeals(dealVariants []DealVariants) map[int]models.Brand {
	brands := make(map[int]models.Brand)
	for _, dv := range dealVariants {
		brands[dv.Deal.BrandID] = models.Brand{ID: dv.Deal.BrandID, Name: dv.Deal.BrandName}
	}
	return brands
}
