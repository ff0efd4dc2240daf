package services

import (
	"testing"

	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestDealAssembler_Assemble(t *testing.T) {
	a := NewDealAssembler()

	baseInput := func() AssembleInput {
		return AssembleInput{
			Products: []models.Product{
				{ID: 1, SKU: "SKU-1", Name: "Widget", BrandID: 10, SalePrice: dec("10.00")},
				{ID: 2, SKU: "SKU-2", Name: "Gadget", BrandID: 10, SalePrice: dec("20.00")},
			},
			Brands: map[int]models.Brand{10: {ID: 10, Name: "Acme"}},
			TiersByProduct: map[int][]models.PriceTier{
				1: {{ProductID: 1, MinQty: 1, UnitPrice: dec("8.00")}},
				2: {{ProductID: 2, MinQty: 1, UnitPrice: dec("15.00")}},
			},
			Stock:               map[int]decimal.Decimal{1: dec("5"), 2: dec("0")},
			ADS:                 map[int]models.ADSSnapshot{1: {ProductID: 1, ADS: dec("2")}, 2: {ProductID: 2, ADS: dec("1")}},
			CoverageDays:        14,
			CreditTerms:         45,
			MaxInvestmentPeriod: 60,
		}
	}

	t.Run("computes suggested quantity and can-be-sold-total", func(t *testing.T) {
		deals, err := a.Assemble(baseInput())
		assert.NoError(t, err)
		if assert.Len(t, deals, 1) {
			deal := deals[0]
			assert.Equal(t, 10, deal.BrandID)
			assert.Equal(t, "Acme", deal.BrandName)
			assert.Len(t, deal.Items, 2)

			var item1, item2 models.Item
			for _, it := range deal.Items {
				switch it.ProductID {
				case 1:
					item1 = it
				case 2:
					item2 = it
				}
			}
			// ads(2)*coverage(14) - inventory(5) = 23
			assert.Equal(t, 23, item1.SystemSuggestedQuantity)
			assert.Equal(t, 23, item1.BestQuantity)
			// ads(2)*maxInvest(60) - inventory(5) = 115
			assert.Equal(t, 115, item1.CanBeSoldTotal)

			// ads(1)*coverage(14) - inventory(0) = 14
			assert.Equal(t, 14, item2.SystemSuggestedQuantity)
		}
	})

	t.Run("zero-demand deal is dropped", func(t *testing.T) {
		input := baseInput()
		input.ADS = map[int]models.ADSSnapshot{} // no ADS => suggested quantity clamps to 0 for both items
		input.Stock = map[int]decimal.Decimal{1: dec("100"), 2: dec("100")}

		deals, err := a.Assemble(input)
		assert.NoError(t, err)
		assert.Empty(t, deals)
	})

	t.Run("no profitable tier is a fatal input validation error", func(t *testing.T) {
		input := baseInput()
		input.TiersByProduct[1] = []models.PriceTier{{ProductID: 1, MinQty: 1, UnitPrice: dec("12.00")}} // above sale price 10.00

		deals, err := a.Assemble(input)
		assert.Nil(t, deals)
		if assert.Error(t, err) {
			var domainErr *models.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, models.KindInputValidation, domainErr.Kind)
		}
	})

	t.Run("negative suggested quantity clamps to zero", func(t *testing.T) {
		input := baseInput()
		input.Stock = map[int]decimal.Decimal{1: dec("1000"), 2: dec("1000")}

		deals, err := a.Assemble(input)
		assert.NoError(t, err)
		// total suggested across brand is 0 since both items clamp to 0 => brand dropped
		assert.Empty(t, deals)
	})

	t.Run("duplicate sku across brands is a fatal input validation error", func(t *testing.T) {
		input := baseInput()
		input.Products = append(input.Products, models.Product{ID: 3, SKU: "SKU-1", Name: "Widget Reissue", BrandID: 5, SalePrice: dec("10.00")})
		input.Brands[5] = models.Brand{ID: 5, Name: "Zenith"}

		deals, err := a.Assemble(input)
		assert.Nil(t, deals)
		if assert.Error(t, err) {
			var domainErr *models.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, models.KindInputValidation, domainErr.Kind)
			assert.Equal(t, "sku", domainErr.Field)
		}
	})

	t.Run("multiple brands sorted by id", func(t *testing.T) {
		input := baseInput()
		input.Products = append(input.Products, models.Product{ID: 3, SKU: "SKU-3", Name: "Thing", BrandID: 5, SalePrice: dec("10.00")})
		input.Brands[5] = models.Brand{ID: 5, Name: "Zenith"}
		input.TiersByProduct[3] = []models.PriceTier{{ProductID: 3, MinQty: 1, UnitPrice: dec("7.00")}}
		input.Stock[3] = dec("0")
		input.ADS[3] = models.ADSSnapshot{ProductID: 3, ADS: dec("1")}

		deals, err := a.Assemble(input)
		assert.NoError(t, err)
		if assert.Len(t, deals, 2) {
			assert.Equal(t, 5, deals[0].BrandID)
			assert.Equal(t, 10, deals[1].BrandID)
		}
	})
}
