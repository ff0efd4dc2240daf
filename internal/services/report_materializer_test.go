package services

import (
	"testing"

	"github.com/vantora/replenish/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestReportMaterializer_Materialize(t *testing.T) {
	m := NewReportMaterializer()
	brands := map[int]models.Brand{1: {ID: 1, Name: "Acme"}}

	item := models.Item{
		ProductID: 10, SKU: "SKU-10", Name: "Widget", BrandID: 1,
		Inventory: dec("5"), ADS: dec("2"), SalePrice: dec("10.00"),
		Tiers: []models.PriceTier{{ProductID: 10, MinQty: 1, UnitPrice: dec("7.00")}},
		SystemSuggestedQuantity: 20, CreditTerms: 45, SystemCoverageDays: 14,
	}
	deal := models.Deal{BrandID: 1, BrandName: "Acme", Items: []models.Item{item}}
	variant := models.Variant{
		M:           1,
		Allocations: []models.ItemAllocation{{ProductID: 10, Quantity: 20, PurchasePrice: dec("7.00")}},
		Budget:      dec("140.00"),
	}
	selections := []Selection{{BrandID: 1, Deal: deal, Variant: variant}}

	t.Run("produces one report item per deal item with totals", func(t *testing.T) {
		items, totals := m.Materialize("report-1", brands, selections)

		if assert.Len(t, items, 1) {
			ri := items[0]
			assert.Equal(t, "report-1", ri.ReportID)
			assert.Equal(t, 10, ri.ProductID)
			assert.Equal(t, "Acme", ri.BrandName)
			assert.Equal(t, 20, ri.BestQuantity)
			assert.True(t, ri.PurchasePrice.Equal(dec("7.00")))
		}

		// budget: 20 * 7.00 = 140.00; profit: (10.00-7.00)*20 = 60.00
		assert.True(t, totals.TotalBudget.Equal(dec("140.00")))
		assert.True(t, totals.TotalProfit.Equal(dec("60.00")))
	})

	t.Run("days-for-sale stdev requires at least two ads>0 items", func(t *testing.T) {
		_, totals := m.Materialize("report-1", brands, selections)
		_, ok := totals.DaysForSaleStdDevByBrand[1]
		assert.False(t, ok, "single-item brand has no stdev entry")
	})

	t.Run("stdev is computed for a brand with two or more ads>0 items", func(t *testing.T) {
		item2 := models.Item{
			ProductID: 11, SKU: "SKU-11", Name: "Gadget", BrandID: 1,
			Inventory: dec("10"), ADS: dec("1"), SalePrice: dec("15.00"),
			Tiers: []models.PriceTier{{ProductID: 11, MinQty: 1, UnitPrice: dec("9.00")}},
		}
		deal2 := models.Deal{BrandID: 1, BrandName: "Acme", Items: []models.Item{item, item2}}
		variant2 := models.Variant{
			M: 1,
			Allocations: []models.ItemAllocation{
				{ProductID: 10, Quantity: 20, PurchasePrice: dec("7.00")},
				{ProductID: 11, Quantity: 5, PurchasePrice: dec("9.00")},
			},
			Budget: dec("185.00"),
		}
		selections2 := []Selection{{BrandID: 1, Deal: deal2, Variant: variant2}}

		_, totals := m.Materialize("report-2", brands, selections2)
		stdev, ok := totals.DaysForSaleStdDevByBrand[1]
		assert.True(t, ok)
		assert.GreaterOrEqual(t, stdev, 0.0)
	})

	t.Run("no selections yields zero totals and no items", func(t *testing.T) {
		items, totals := m.Materialize("report-3", brands, nil)
		assert.Empty(t, items)
		assert.True(t, totals.TotalBudget.IsZero())
		assert.True(t, totals.TotalProfit.IsZero())
		assert.Empty(t, totals.DaysForSaleStdDevByBrand)
	})
}
