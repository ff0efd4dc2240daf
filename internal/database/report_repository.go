// Package database - Report/ReportItem repository
package database

import (
	"context"
	"fmt"

	"github.com/vantora/replenish/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool is an interface for database connections (supports both pgxpool.Pool and pgxmock).
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close()
}

// ReportRepository handles Report and ReportItem persistence.
type ReportRepository struct {
	db DBPool
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db DBPool) *ReportRepository {
	return &ReportRepository{db: db}
}

// CreateReport inserts a new DRAFT report.
func (r *ReportRepository) CreateReport(ctx context.Context, rep *models.Report) error {
	query := `
		INSERT INTO reports (
			id, user_name, warehouse, coverage_days, credit_terms, status,
			min_budget, max_budget, max_investment_period, serialized_variants, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		rep.ID, rep.User, rep.Warehouse, rep.CoverageDays, rep.CreditTerms, rep.Status,
		rep.MinBudget, rep.MaxBudget, rep.MaxInvestmentPeriod, rep.SerializedVariants, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetReport retrieves a report by id, without its items.
func (r *ReportRepository) GetReport(ctx context.Context, id string) (*models.Report, error) {
	query := `
		SELECT id, user_name, warehouse, coverage_days, credit_terms, status,
			min_budget, max_budget, max_investment_period, serialized_variants, created_at
		FROM reports
		WHERE id = $1
	`
	var rep models.Report
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rep.ID, &rep.User, &rep.Warehouse, &rep.CoverageDays, &rep.CreditTerms, &rep.Status,
		&rep.MinBudget, &rep.MaxBudget, &rep.MaxInvestmentPeriod, &rep.SerializedVariants, &rep.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query report %s: %w", id, err)
	}
	return &rep, nil
}

// UpdatePhase1Result persists the Phase 1 outcome: budget bounds and the
// serialized variant envelope. Status stays DRAFT.
func (r *ReportRepository) UpdatePhase1Result(ctx context.Context, rep *models.Report) error {
	query := `
		UPDATE reports
		SET min_budget = $2, max_budget = $3, serialized_variants = $4
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, rep.ID, rep.MinBudget, rep.MaxBudget, rep.SerializedVariants)
	if err != nil {
		return fmt.Errorf("failed to update phase1 result for report %s: %w", rep.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s not found", rep.ID)
	}
	return nil
}

// UpdateStatus transitions the report's status (DRAFT -> ORDER_CREATED on commit).
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	query := `UPDATE reports SET status = $2 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update report %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s not found", id)
	}
	return nil
}

// ReplaceReportItems deletes and re-inserts the full item set for a report
// inside one transaction, sending the inserts as pgx batches of up to 1000
// rows.
func (r *ReportRepository) ReplaceReportItems(ctx context.Context, reportID string, items []models.ReportItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM report_items WHERE report_id = $1`, reportID); err != nil {
		return fmt.Errorf("failed to clear report items: %w", err)
	}

	const batchSize = 1000
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := insertReportItemBatch(ctx, tx, items[i:end]); err != nil {
			return fmt.Errorf("failed to insert report item batch %d-%d: %w", i, end, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertReportItemBatch(ctx context.Context, tx pgx.Tx, items []models.ReportItem) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO report_items (
			report_id, product_id, brand_id, brand_name, product_sku, product_name,
			inventory, average_daily_sales, sale_price, purchase_price,
			pricelevel_minimum_quantity, system_coverage_days, credit_terms,
			system_suggested_quantity, best_quantity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	for _, item := range items {
		batch.Queue(query,
			item.ReportID, item.ProductID, item.BrandID, item.BrandName, item.ProductSKU, item.ProductName,
			item.Inventory, item.AverageDailySales, item.SalePrice, item.PurchasePrice,
			item.PriceLevelMinimumQty, item.SystemCoverageDays, item.CreditTerms,
			item.SystemSuggestedQuantity, item.BestQuantity,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("batch exec failed at index %d: %w", i, err)
		}
	}
	return results.Close()
}

// GetReportItems retrieves every item belonging to a report.
func (r *ReportRepository) GetReportItems(ctx context.Context, reportID string) ([]models.ReportItem, error) {
	query := `
		SELECT report_id, product_id, brand_id, brand_name, product_sku, product_name,
			inventory, average_daily_sales, sale_price, purchase_price,
			pricelevel_minimum_quantity, system_coverage_days, credit_terms,
			system_suggested_quantity, best_quantity
		FROM report_items
		WHERE report_id = $1
		ORDER BY brand_name, product_sku
	`
	rows, err := r.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report items: %w", err)
	}
	defer rows.Close()

	var items []models.ReportItem
	for rows.Next() {
		var it models.ReportItem
		err := rows.Scan(
			&it.ReportID, &it.ProductID, &it.BrandID, &it.BrandName, &it.ProductSKU, &it.ProductName,
			&it.Inventory, &it.AverageDailySales, &it.SalePrice, &it.PurchasePrice,
			&it.PriceLevelMinimumQty, &it.SystemCoverageDays, &it.CreditTerms,
			&it.SystemSuggestedQuantity, &it.BestQuantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// ListReports returns every report owned by user, newest first (the
// supplemental admin/audit listing).
func (r *ReportRepository) ListReports(ctx context.Context, user string) ([]models.Report, error) {
	query := `
		SELECT id, user_name, warehouse, coverage_days, credit_terms, status,
			min_budget, max_budget, max_investment_period, created_at
		FROM reports
		WHERE user_name = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports for user %s: %w", user, err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var rep models.Report
		err := rows.Scan(
			&rep.ID, &rep.User, &rep.Warehouse, &rep.CoverageDays, &rep.CreditTerms, &rep.Status,
			&rep.MinBudget, &rep.MaxBudget, &rep.MaxInvestmentPeriod, &rep.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reports, nil
}
