// Package services - Selector (C7), the multi-choice knapsack integer program
package services

import (
	"context"
	"time"

	"github.com/vantora/replenish/internal/metrics"
	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultSolverTimeout bounds the Selector's wall-clock budget: time-bounded,
// default 10 s wall-clock.
const DefaultSolverTimeout = 10 * time.Second

// selectorScale converts decimal budget/efficiency into the integer domain
// the DP operates over.
const selectorScale = 1000

// negInf marks an unreachable DP cell without risking int64 overflow on
// addition.
const negInf = int64(-1) << 40

// Selection is the chosen Variant for one Deal.
type Selection struct {
	BrandID int
	Deal    models.Deal
	Variant models.Variant
}

// Selector generalizes CargoService.KnapsackDP from a single-choice 0/1
// knapsack into a multi-choice knapsack: each Deal (group) contributes
// exactly one Variant, and the objective is total efficiency under a
// shared budget ceiling. Deterministic for a given input: ties are broken
// by preferring the lowest-indexed Deal/Variant encountered.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select runs the DP over dealVariants' Variants, choosing one per Deal
// such that total scaled budget <= scaled(budget) and total scaled
// efficiency is maximized. Returns a KindInfeasible DomainError if no
// selection fits, or a KindSolverTimeout DomainError if ctx is cancelled
// before the DP completes.
func (s *Selector) Select(ctx context.Context, dealVariants []DealVariants, budget decimal.Decimal) ([]Selection, error) {
	groups := len(dealVariants)
	if groups == 0 {
		return nil, nil
	}

	startTime := time.Now()
	outcome := "ok"
	defer func() {
		metrics.SolverDuration.Observe(time.Since(startTime).Seconds())
		metrics.SolverOutcomesTotal.WithLabelValues(outcome).Inc()
	}()

	scaledBudget := scaleToInt(budget)
	if scaledBudget < 0 {
		outcome = "infeasible"
		return nil, models.NewBudgetOutOfRangeError("budget must be non-negative")
	}
	w := int(scaledBudget)

	for _, dv := range dealVariants {
		if len(dv.Variants) == 0 {
			outcome = "infeasible"
			return nil, models.NewInfeasibleError("deal has no variants to choose from")
		}
	}

	// dp[w] = best achievable efficiency using exactly the budget-prefix
	// processed so far, capped at w.
	prev := make([]int64, w+1)
	for i := range prev {
		prev[i] = negInf
	}
	prev[0] = 0

	// choice[g][w] records which variant index was picked for group g to
	// reach dp value at budget w (or -1 if carried over from w-1).
	choice := make([][]int, groups)

	for g, dv := range dealVariants {
		select {
		case <-ctx.Done():
			outcome = "timeout"
			return nil, models.NewSolverTimeoutError("solver cancelled before completion: " + ctx.Err().Error())
		default:
		}

		curr := make([]int64, w+1)
		pick := make([]int, w+1)
		for i := range curr {
			curr[i] = negInf
			pick[i] = -1
		}

		variantCost := make([]int64, len(dv.Variants))
		variantGain := make([]int64, len(dv.Variants))
		for vi, v := range dv.Variants {
			variantCost[vi] = scaleToInt(v.Budget)
			variantGain[vi] = scaleToInt(v.Efficiency)
		}

		for budgetIdx := 0; budgetIdx <= w; budgetIdx++ {
			best := negInf
			bestVariant := -1

			for vi := range dv.Variants {
				cost := variantCost[vi]
				if cost < 0 || int(cost) > budgetIdx {
					continue
				}
				prevVal := prev[budgetIdx-int(cost)]
				if prevVal <= negInf/2 {
					continue
				}
				candidate := prevVal + variantGain[vi]
				if candidate > best {
					best = candidate
					bestVariant = vi
				}
			}

			if budgetIdx > 0 && curr[budgetIdx-1] > best {
				best = curr[budgetIdx-1]
				bestVariant = -1 // carried over, spend less than budgetIdx
			}

			curr[budgetIdx] = best
			pick[budgetIdx] = bestVariant
		}

		choice[g] = pick
		prev = curr
	}

	if prev[w] <= negInf/2 {
		outcome = "infeasible"
		return nil, models.NewInfeasibleError("no feasible combination of variants fits within the given budget")
	}

	return backtrackSelection(dealVariants, choice, w), nil
}

// backtrackSelection walks the choice table from the last group back to
// the first, resolving carried-over cells (pick == -1) by decrementing the
// budget index until a concrete pick is found.
func backtrackSelection(dealVariants []DealVariants, choice [][]int, w int) []Selection {
	selections := make([]Selection, len(dealVariants))
	remaining := w

	for g := len(dealVariants) - 1; g >= 0; g-- {
		budgetIdx := remaining
		for choice[g][budgetIdx] == -1 && budgetIdx > 0 {
			budgetIdx--
		}
		vi := choice[g][budgetIdx]
		if vi < 0 {
			vi = 0 // degenerate: budget 0 reachable only via the cheapest variant
		}

		variant := dealVariants[g].Variants[vi]
		selections[g] = Selection{BrandID: dealVariants[g].Deal.BrandID, Deal: dealVariants[g].Deal, Variant: variant}

		remaining = budgetIdx - int(scaleToInt(variant.Budget))
		if remaining < 0 {
			remaining = 0
		}
	}

	return selections
}

func scaleToInt(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(selectorScale)).Round(0).IntPart()
}
