// Package database provides interface definitions for testability
package database

import (
	"context"

	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
)

// HealthChecker defines the interface for database health checking.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// CatalogueQuerier defines the interface for read-only Catalogue/Stock queries.
type CatalogueQuerier interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetBrand(ctx context.Context, brandID int) (models.Brand, error)
	ListTiers(ctx context.Context, productID int) ([]models.PriceTier, error)
	Stock(ctx context.Context, warehouseID, productID int) (decimal.Decimal, error)
	PostedSales(ctx context.Context, start, end int64) ([]models.SaleRecord, error)
}

// ReportQuerier defines the interface for Report/ReportItem persistence.
type ReportQuerier interface {
	CreateReport(ctx context.Context, rep *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	UpdatePhase1Result(ctx context.Context, rep *models.Report) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	ReplaceReportItems(ctx context.Context, reportID string, items []models.ReportItem) error
	GetReportItems(ctx context.Context, reportID string) ([]models.ReportItem, error)
	ListReports(ctx context.Context, user string) ([]models.Report, error)
}

// ADSQuerier defines the interface for ADS snapshot persistence.
type ADSQuerier interface {
	UpsertADS(ctx context.Context, snap models.ADSSnapshot) error
	GetADS(ctx context.Context, productID int) (models.ADSSnapshot, error)
	GetAllADS(ctx context.Context) (map[int]models.ADSSnapshot, error)
}

// Compile-time interface compliance checks.
var (
	_ ReportQuerier = (*ReportRepository)(nil)
	_ ADSQuerier    = (*ADSRepository)(nil)
)
