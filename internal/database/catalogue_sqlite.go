// Package database - read-only Catalogue fixture repository
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
)

// CatalogueRepository provides read-only access to the SQLite Catalogue
// fixture, standing in for the external Catalogue/Stock/Ledger collaborator.
type CatalogueRepository struct {
	db *sql.DB
}

// Compile-time interface compliance checks.
var _ HealthChecker = (*DB)(nil)
var _ CatalogueQuerier = (*CatalogueRepository)(nil)

// NewCatalogueRepository creates a new catalogue repository.
func NewCatalogueRepository(db *sql.DB) *CatalogueRepository {
	return &CatalogueRepository{db: db}
}

// ListProducts corresponds to list_products().
func (r *CatalogueRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, sku, name, brand_id, sale_price FROM products ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var salePrice string
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.BrandID, &salePrice); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		dec, err := decimal.NewFromString(salePrice)
		if err != nil {
			return nil, fmt.Errorf("invalid sale_price for product %d: %w", p.ID, err)
		}
		p.SalePrice = dec
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

// GetBrand retrieves a single brand by id.
func (r *CatalogueRepository) GetBrand(ctx context.Context, brandID int) (models.Brand, error) {
	query := `SELECT id, name, country FROM brands WHERE id = ?`
	var b models.Brand
	err := r.db.QueryRowContext(ctx, query, brandID).Scan(&b.ID, &b.Name, &b.Country)
	if err == sql.ErrNoRows {
		return models.Brand{}, fmt.Errorf("brand %d not found", brandID)
	}
	if err != nil {
		return models.Brand{}, fmt.Errorf("failed to query brand %d: %w", brandID, err)
	}
	return b, nil
}

// ListTiers corresponds to list_tiers(product_id), ordered by min_qty ascending.
func (r *CatalogueRepository) ListTiers(ctx context.Context, productID int) ([]models.PriceTier, error) {
	query := `SELECT product_id, min_qty, unit_price FROM price_tiers WHERE product_id = ? ORDER BY min_qty ASC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tiers for product %d: %w", productID, err)
	}
	defer rows.Close()

	var tiers []models.PriceTier
	for rows.Next() {
		var t models.PriceTier
		var price string
		if err := rows.Scan(&t.ProductID, &t.MinQty, &price); err != nil {
			return nil, fmt.Errorf("failed to scan tier: %w", err)
		}
		dec, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("invalid unit_price for product %d tier: %w", productID, err)
		}
		t.UnitPrice = dec
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tiers, nil
}

// Stock corresponds to stock(warehouse_id, product_id).
func (r *CatalogueRepository) Stock(ctx context.Context, warehouseID, productID int) (decimal.Decimal, error) {
	query := `SELECT quantity FROM stock WHERE warehouse_id = ? AND product_id = ?`
	var quantity string
	err := r.db.QueryRowContext(ctx, query, warehouseID, productID).Scan(&quantity)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query stock: %w", err)
	}
	dec, err := decimal.NewFromString(quantity)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stock quantity: %w", err)
	}
	return dec, nil
}

// PostedSales corresponds to posted_sales(start, end): only rows whose
// document status is "posted" and type is "sale" are included.
func (r *CatalogueRepository) PostedSales(ctx context.Context, start, end int64) ([]models.SaleRecord, error) {
	query := `
		SELECT product_id, timestamp, quantity, status, doc_type
		FROM sale_records
		WHERE timestamp >= ? AND timestamp <= ? AND status = 'posted' AND doc_type = 'sale'
		ORDER BY product_id, timestamp
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted sales: %w", err)
	}
	defer rows.Close()

	var records []models.SaleRecord
	for rows.Next() {
		var rec models.SaleRecord
		if err := rows.Scan(&rec.ProductID, &rec.Timestamp, &rec.Quantity, &rec.Status, &rec.DocType); err != nil {
			return nil, fmt.Errorf("failed to scan sale record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}
