package services

import (
	"context"
	"testing"
	"time"

	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dealVariant(brandID int, variants ...models.Variant) DealVariants {
	return DealVariants{Deal: models.Deal{BrandID: brandID}, Variants: variants}
}

func variant(m int, budget, efficiency string) models.Variant {
	return models.Variant{M: m, Budget: dec(budget), Efficiency: dec(efficiency)}
}

func TestSelector_Select(t *testing.T) {
	s := NewSelector()

	t.Run("picks the higher-efficiency variant when budget allows", func(t *testing.T) {
		dealVariants := []DealVariants{
			dealVariant(1, variant(10, "50.00", "20.00"), variant(20, "100.00", "50.00")),
		}

		selections, err := s.Select(context.Background(), dealVariants, dec("100.00"))
		assert.NoError(t, err)
		if assert.Len(t, selections, 1) {
			assert.Equal(t, 20, selections[0].Variant.M)
		}
	})

	t.Run("respects a tighter budget", func(t *testing.T) {
		dealVariants := []DealVariants{
			dealVariant(1, variant(10, "50.00", "20.00"), variant(20, "100.00", "50.00")),
		}

		selections, err := s.Select(context.Background(), dealVariants, dec("60.00"))
		assert.NoError(t, err)
		if assert.Len(t, selections, 1) {
			assert.Equal(t, 10, selections[0].Variant.M)
		}
	})

	t.Run("selects one variant per deal across multiple deals", func(t *testing.T) {
		dealVariants := []DealVariants{
			dealVariant(1, variant(10, "30.00", "10.00"), variant(20, "60.00", "25.00")),
			dealVariant(2, variant(5, "40.00", "15.00"), variant(15, "80.00", "35.00")),
		}

		selections, err := s.Select(context.Background(), dealVariants, dec("140.00"))
		assert.NoError(t, err)
		assert.Len(t, selections, 2)

		total := decimal.Zero
		for _, sel := range selections {
			total = total.Add(sel.Variant.Budget)
		}
		assert.True(t, total.LessThanOrEqual(dec("140.00")))
	})

	t.Run("infeasible when a deal has no variants", func(t *testing.T) {
		dealVariants := []DealVariants{
			dealVariant(1),
		}

		_, err := s.Select(context.Background(), dealVariants, dec("100.00"))
		if assert.Error(t, err) {
			var domainErr *models.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, models.KindInfeasible, domainErr.Kind)
		}
	})

	t.Run("infeasible when budget is too small for any deal", func(t *testing.T) {
		dealVariants := []DealVariants{
			dealVariant(1, variant(10, "50.00", "20.00")),
		}

		_, err := s.Select(context.Background(), dealVariants, dec("1.00"))
		if assert.Error(t, err) {
			var domainErr *models.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, models.KindInfeasible, domainErr.Kind)
		}
	})

	t.Run("negative budget is rejected", func(t *testing.T) {
		dealVariants := []DealVariants{
			dealVariant(1, variant(10, "50.00", "20.00")),
		}

		_, err := s.Select(context.Background(), dealVariants, dec("-5.00"))
		if assert.Error(t, err) {
			var domainErr *models.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, models.KindBudgetOutOfRange, domainErr.Kind)
		}
	})

	t.Run("cancelled context yields a solver timeout error", func(t *testing.T) {
		dealVariants := []DealVariants{
			dealVariant(1, variant(10, "50.00", "20.00")),
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Select(ctx, dealVariants, dec("100.00"))
		if assert.Error(t, err) {
			var domainErr *models.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, models.KindSolverTimeout, domainErr.Kind)
		}
	})

	t.Run("empty deal list returns nil without error", func(t *testing.T) {
		selections, err := s.Select(context.Background(), nil, dec("100.00"))
		assert.NoError(t, err)
		assert.Nil(t, selections)
	})

	t.Run("completes within the default solver timeout", func(t *testing.T) {
		dealVariants := []DealVariants{
			dealVariant(1, variant(10, "50.00", "20.00"), variant(20, "100.00", "50.00")),
		}
		ctx, cancel := context.WithTimeout(context.Background(), DefaultSolverTimeout)
		defer cancel()

		start := time.Now()
		_, err := s.Select(ctx, dealVariants, dec("100.00"))
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), DefaultSolverTimeout)
	})
}
