// Package services - Report Materializer (C8)
package services

import (
	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// ReportTotals are the run-level aggregates computed alongside per-item
// materialization.
type ReportTotals struct {
	TotalBudget decimal.Decimal
	TotalProfit decimal.Decimal
	// DaysForSaleStdDevByBrand is the sample stdev of (inventory +
	// best_quantity)/ads per brand, over Items with ads > 0; a brand with
	// fewer than 2 such Items has no entry.
	DaysForSaleStdDevByBrand map[int]float64
}

// ReportMaterializer writes the chosen Variant's per-item results into
// ReportItems and computes the run's totals.
type ReportMaterializer struct{}

// NewReportMaterializer creates a new Report Materializer.
func NewReportMaterializer() *ReportMaterializer {
	return &ReportMaterializer{}
}

// Materialize produces one ReportItem per Item across all selections, plus
// the report-level totals.
func (m *ReportMaterializer) Materialize(reportID string, brands map[int]models.Brand, selections []Selection) ([]models.ReportItem, ReportTotals) {
	var items []models.ReportItem
	totals := ReportTotals{
		TotalBudget:              decimal.Zero,
		TotalProfit:              decimal.Zero,
		DaysForSaleStdDevByBrand: make(map[int]float64),
	}

	for _, sel := range selections {
		daysForSale := make([]float64, 0, len(sel.Variant.Allocations))

		for _, it := range sel.Deal.Items {
			qty := sel.Variant.QuantityFor(it.ProductID)
			purchasePrice := ResolveTier(it.Tiers, sel.Variant.M).UnitPrice
			minQty := ResolveTier(it.Tiers, sel.Variant.M).MinQty

			bestQty := decimal.NewFromInt(int64(qty))
			itemBudget := bestQty.Mul(purchasePrice)
			itemProfit := it.SalePrice.Sub(purchasePrice).Mul(bestQty)

			totals.TotalBudget = totals.TotalBudget.Add(itemBudget)
			totals.TotalProfit = totals.TotalProfit.Add(itemProfit)

			if it.ADS.IsPositive() {
				dfs := it.Inventory.Add(bestQty).Div(it.ADS).InexactFloat64()
				daysForSale = append(daysForSale, dfs)
			}

			items = append(items, models.ReportItem{
				ReportID:                reportID,
				ProductID:               it.ProductID,
				BrandID:                 it.BrandID,
				BrandName:               brands[it.BrandID].Name,
				ProductSKU:              it.SKU,
				ProductName:             it.Name,
				Inventory:               it.Inventory,
				AverageDailySales:       it.ADS,
				SalePrice:               it.SalePrice,
				PurchasePrice:           purchasePrice,
				PriceLevelMinimumQty:    minQty,
				SystemCoverageDays:      it.SystemCoverageDays,
				CreditTerms:             it.CreditTerms,
				SystemSuggestedQuantity: it.SystemSuggestedQuantity,
				BestQuantity:            qty,
			})
		}

		if len(daysForSale) >= 2 {
			totals.DaysForSaleStdDevByBrand[sel.BrandID] = stat.StdDev(daysForSale, nil)
		}
	}

	return items, totals
}
