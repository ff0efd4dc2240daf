package models

import "github.com/shopspring/decimal"

// Item is a denormalized, optimization-time record bound to one Product,
// Deal (brand) and warehouse. Quantities are ints because purchase orders
// move in whole units; money/ADS stay decimal.
type Item struct {
	ProductID               int             `json:"product_id"`
	SKU                     string          `json:"sku"`
	Name                    string          `json:"name"`
	BrandID                 int             `json:"brand_id"`
	Inventory               decimal.Decimal `json:"inventory"`
	ADS                     decimal.Decimal `json:"ads"`
	SalePrice               decimal.Decimal `json:"sale_price"`
	Tiers                   []PriceTier     `json:"tiers"`
	SystemSuggestedQuantity int             `json:"system_suggested_quantity"`
	CanBeSoldTotal          int             `json:"can_be_sold_total"`
	CreditTerms             int             `json:"credit_terms"`
	SystemCoverageDays      int             `json:"system_coverage_days"`
	BestQuantity            int             `json:"best_quantity"`
}

// HasProfitableTier reports whether at least one tier price is strictly
// below SalePrice — a condition every Item must satisfy.
func (it Item) HasProfitableTier() bool {
	for _, t := range it.Tiers {
		if t.UnitPrice.LessThan(it.SalePrice) {
			return true
		}
	}
	return false
}

// Deal is the brand-grouped set of Items jointly optimized as one unit.
type Deal struct {
	BrandID   int    `json:"brand_id"`
	BrandName string `json:"brand_name"`
	Items     []Item `json:"items"`
}

// DealSum returns Σ best_quantity over the Deal's Items.
func (d Deal) DealSum() int {
	sum := 0
	for _, it := range d.Items {
		sum += it.BestQuantity
	}
	return sum
}

// DealSumAtSuggested returns Σ system_suggested_quantity over the Deal's
// Items.
func (d Deal) DealSumAtSuggested() int {
	sum := 0
	for _, it := range d.Items {
		sum += it.SystemSuggestedQuantity
	}
	return sum
}

// ItemAllocation is one Item's realized quantity and purchase price within
// a Variant.
type ItemAllocation struct {
	ProductID     int             `json:"product_id"`
	Quantity      int             `json:"quantity"` // order quantity (excludes existing inventory)
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// Variant is a frozen snapshot of one feasible deal-level order sum M
// together with the per-item allocation that realizes it.
type Variant struct {
	BrandID     int              `json:"brand_id"`
	M           int              `json:"m"`
	Allocations []ItemAllocation `json:"allocations"`
	Budget      decimal.Decimal  `json:"budget"`
	Efficiency  decimal.Decimal  `json:"efficiency"`
}

// QuantityFor returns the order quantity allocated to productID in this
// Variant, or 0 if the product is not part of the Deal.
func (v Variant) QuantityFor(productID int) int {
	for _, a := range v.Allocations {
		if a.ProductID == productID {
			return a.Quantity
		}
	}
	return 0
}
