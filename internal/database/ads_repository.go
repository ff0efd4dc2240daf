// Package database - ADS snapshot repository
package database

import (
	"context"
	"fmt"

	"github.com/vantora/replenish/internal/models"
)

// ADSRepository persists per-product Average Daily Sales snapshots.
type ADSRepository struct {
	db DBPool
}

// NewADSRepository creates a new ADS repository.
func NewADSRepository(db DBPool) *ADSRepository {
	return &ADSRepository{db: db}
}

// UpsertADS writes one product's ADS snapshot. Callers serialize calls for
// overlapping products themselves; this method performs a single atomic
// upsert and does no locking of its own.
func (r *ADSRepository) UpsertADS(ctx context.Context, snap models.ADSSnapshot) error {
	query := `
		INSERT INTO ads_snapshots (product_id, ads, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE SET
			ads = EXCLUDED.ads,
			last_updated = EXCLUDED.last_updated
	`
	_, err := r.db.Exec(ctx, query, snap.ProductID, snap.ADS, snap.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert ADS for product %d: %w", snap.ProductID, err)
	}
	return nil
}

// GetADS retrieves one product's ADS snapshot. When the query fails for any
// reason, including when no snapshot exists yet, it returns a zero-value
// snapshot for productID and a nil error.
func (r *ADSRepository) GetADS(ctx context.Context, productID int) (models.ADSSnapshot, error) {
	query := `SELECT product_id, ads, last_updated FROM ads_snapshots WHERE product_id = $1`
	var snap models.ADSSnapshot
	err := r.db.QueryRow(ctx, query, productID).Scan(&snap.ProductID, &snap.ADS, &snap.LastUpdated)
	if err != nil {
		return models.ADSSnapshot{ProductID: productID}, nil
	}
	return snap, nil
}

// GetAllADS returns every stored ADS snapshot, keyed by product id — the
// Deal Assembler's input map.
func (r *ADSRepository) GetAllADS(ctx context.Context) (map[int]models.ADSSnapshot, error) {
	query := `SELECT product_id, ads, last_updated FROM ads_snapshots`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ADS snapshots: %w", err)
	}
	defer rows.Close()

	out := make(map[int]models.ADSSnapshot)
	for rows.Next() {
		var snap models.ADSSnapshot
		if err := rows.Scan(&snap.ProductID, &snap.ADS, &snap.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan ADS snapshot: %w", err)
		}
		out[snap.ProductID] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}
