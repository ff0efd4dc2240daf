// Package models provides data structures for the replenishment domain
package models

import "github.com/shopspring/decimal"

// Product is a single catalogue item belonging to a Brand.
type Product struct {
	ID        int             `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	BrandID   int             `json:"brand_id"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// Brand groups Products for joint deal-level optimization (a.k.a. Deal ID).
type Brand struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// PriceTier is one (minimal_quantity, unit_price) rung of a Product's tiered
// purchase-price schedule. Larger MinQty is assumed (not enforced) to carry a
// lower UnitPrice.
type PriceTier struct {
	ProductID int             `json:"product_id"`
	MinQty    int             `json:"min_qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Stock is the on-hand quantity of a Product at a warehouse.
type Stock struct {
	ProductID   int             `json:"product_id"`
	WarehouseID int             `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// SaleRecord is a single posted sale line, the Forecaster's raw input.
type SaleRecord struct {
	ProductID int    `json:"product_id"`
	Timestamp int64  `json:"timestamp"` // unix seconds; truncated to calendar date by the aggregator
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"` // only "posted" documents of type "sale" contribute
	DocType   string `json:"doc_type"`
}

// SortedTiers returns tiers ordered by MinQty ascending. It does not mutate
// the input slice.
func SortedTiers(tiers []PriceTier) []PriceTier {
	out := make([]PriceTier, len(tiers))
	copy(out, tiers)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].MinQty > out[j].MinQty; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
