// Package services - Deal Assembler (C4)
package services

import (
	"fmt"
	"sort"

	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
)

// DealAssembler turns catalogue/stock/ADS snapshots into per-product Items
// grouped by brand into Deals.
type DealAssembler struct{}

// NewDealAssembler creates a new Deal Assembler.
func NewDealAssembler() *DealAssembler {
	return &DealAssembler{}
}

// AssembleInput bundles the catalogue-derived inputs the Assembler needs.
type AssembleInput struct {
	Products            []models.Product
	Brands              map[int]models.Brand
	TiersByProduct      map[int][]models.PriceTier
	Stock               map[int]decimal.Decimal
	ADS                 map[int]models.ADSSnapshot
	CoverageDays        int // H_cov
	CreditTerms         int // T_cr
	MaxInvestmentPeriod int // H_max
}

// Assemble computes one Item per Product, groups them by brand, drops
// zero-demand Deals and rejects Deals with an Item that can never be
// profitable at any tier (a fatal input error).
func (a *DealAssembler) Assemble(input AssembleInput) ([]models.Deal, error) {
	brandBySKU := make(map[string]int)
	for _, p := range input.Products {
		if seenBrand, ok := brandBySKU[p.SKU]; ok && seenBrand != p.BrandID {
			return nil, models.NewInputValidationError("sku",
				fmt.Sprintf("sku %q is catalogued under both brand %d and brand %d", p.SKU, seenBrand, p.BrandID))
		}
		brandBySKU[p.SKU] = p.BrandID
	}

	byBrand := make(map[int][]models.Item)

	for _, p := range input.Products {
		inventory := input.Stock[p.ID]
		ads := decimal.Zero
		if snap, ok := input.ADS[p.ID]; ok {
			ads = snap.ADS
		}

		rawNeed := ads.Mul(decimal.NewFromInt(int64(input.CoverageDays))).Sub(inventory).Ceil()
		suggested := rawNeed
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}

		canBeSoldRaw := ads.Mul(decimal.NewFromInt(int64(input.MaxInvestmentPeriod))).Sub(inventory).Floor()
		canBeSold := canBeSoldRaw
		if canBeSold.IsNegative() {
			canBeSold = decimal.Zero
		}

		item := models.Item{
			ProductID:               p.ID,
			SKU:                     p.SKU,
			Name:                    p.Name,
			BrandID:                 p.BrandID,
			Inventory:               inventory,
			ADS:                     ads,
			SalePrice:               p.SalePrice,
			Tiers:                   input.TiersByProduct[p.ID],
			SystemSuggestedQuantity: int(suggested.IntPart()),
			CanBeSoldTotal:          int(canBeSold.IntPart()),
			CreditTerms:             input.CreditTerms,
			SystemCoverageDays:      input.CoverageDays,
			BestQuantity:            int(suggested.IntPart()),
		}

		byBrand[p.BrandID] = append(byBrand[p.BrandID], item)
	}

	brandIDs := make([]int, 0, len(byBrand))
	for id := range byBrand {
		brandIDs = append(brandIDs, id)
	}
	sort.Ints(brandIDs)

	var deals []models.Deal
	for _, brandID := range brandIDs {
		items := byBrand[brandID]

		totalSuggested := 0
		for _, it := range items {
			totalSuggested += it.SystemSuggestedQuantity
		}
		if totalSuggested == 0 {
			continue // no demand, drop the deal
		}

		for _, it := range items {
			if !it.HasProfitableTier() {
				brandName := input.Brands[brandID].Name
				return nil, models.NewInputValidationError("tiers",
					fmt.Sprintf("brand %q (id %d): product %q (id %d) has no tier priced below sale price", brandName, brandID, it.Name, it.ProductID))
			}
		}

		deals = append(deals, models.Deal{BrandID: brandID, BrandName: input.Brands[brandID].Name, Items: items})
	}

	return deals, nil
}
