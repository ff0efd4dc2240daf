// Package services - Budget-Bounds Estimator (C6)
package services

import (
	"github.com/shopspring/decimal"
)

// BudgetBounds is the user-facing [min, max] range for the final budget B.
type BudgetBounds struct {
	MinBudget decimal.Decimal
	MaxBudget decimal.Decimal
}

// BudgetBoundsEstimator derives the feasible budget range from each Deal's
// first (smallest M) and last (largest M) Variant.
type BudgetBoundsEstimator struct{}

// NewBudgetBoundsEstimator creates a new Budget-Bounds Estimator.
func NewBudgetBoundsEstimator() *BudgetBoundsEstimator {
	return &BudgetBoundsEstimator{}
}

// Estimate sums the smallest-M budget across Deals for MinBudget and the
// largest-M budget for MaxBudget, both rounded up to the nearest integer.
// Deals with no Variants (enumeration produced nothing) are skipped; the
// Variant list is expected in ascending M order.
func (e *BudgetBoundsEstimator) Estimate(dealVariants []DealVariants) BudgetBounds {
	minBudget := decimal.Zero
	maxBudget := decimal.Zero

	for _, dv := range dealVariants {
		if len(dv.Variants) == 0 {
			continue
		}
		minBudget = minBudget.Add(dv.Variants[0].Budget)
		maxBudget = maxBudget.Add(dv.Variants[len(dv.Variants)-1].Budget)
	}

	return BudgetBounds{
		MinBudget: minBudget.Ceil(),
		MaxBudget: maxBudget.Ceil(),
	}
}
