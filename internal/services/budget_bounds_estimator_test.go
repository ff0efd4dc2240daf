package services

import (
	"testing"

	"github.com/vantora/replenish/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBudgetBoundsEstimator_Estimate(t *testing.T) {
	e := NewBudgetBoundsEstimator()

	t.Run("sums first and last variant budgets across deals", func(t *testing.T) {
		dealVariants := []DealVariants{
			{
				Deal: models.Deal{BrandID: 1},
				Variants: []models.Variant{
					{M: 10, Budget: dec("100.40")},
					{M: 20, Budget: dec("200.10")},
				},
			},
			{
				Deal: models.Deal{BrandID: 2},
				Variants: []models.Variant{
					{M: 5, Budget: dec("50.00")},
				},
			},
		}

		bounds := e.Estimate(dealVariants)
		assert.True(t, bounds.MinBudget.Equal(dec("151")), "100.40 + 50.00 ceiled to 151")
		assert.True(t, bounds.MaxBudget.Equal(dec("251")), "200.10 + 50.00 ceiled to 251")
	})

	t.Run("deals with no variants are skipped", func(t *testing.T) {
		dealVariants := []DealVariants{
			{Deal: models.Deal{BrandID: 1}, Variants: nil},
		}
		bounds := e.Estimate(dealVariants)
		assert.True(t, bounds.MinBudget.IsZero())
		assert.True(t, bounds.MaxBudget.IsZero())
	})

	t.Run("empty input yields zero bounds", func(t *testing.T) {
		bounds := e.Estimate(nil)
		assert.True(t, bounds.MinBudget.IsZero())
		assert.True(t, bounds.MaxBudget.IsZero())
	})
}
