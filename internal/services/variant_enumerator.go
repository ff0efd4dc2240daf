// Package services - Variant Enumerator (C5), the central optimization piece
package services

import (
	"math"
	"sort"

	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
)

// MinMOQByDeal returns the deal-level lower bound on M. It starts from the
// deal-sum-at-suggested and, for every Item whose SalePrice is not above the
// price of its smallest-MinQty tier (so the Item is not profitable there) and
// whose SystemSuggestedQuantity > 0, it scans that Item's tiers from the
// largest MinQty down to the smallest, overwriting its chosen index
// whenever SalePrice > tier.UnitPrice; the last overwrite (reached while
// scanning toward MinQty==0) wins. The tier at the final index raises the
// bound if its MinQty exceeds the running min_moq. This loop direction and
// overwrite-on-match behavior is intentional, not an off-by-one.
func MinMOQByDeal(deal models.Deal) int {
	minMOQ := deal.DealSumAtSuggested()

	for _, it := range deal.Items {
		tiers := models.SortedTiers(it.Tiers)
		if len(tiers) == 0 {
			continue
		}
		if it.SalePrice.LessThanOrEqual(tiers[0].UnitPrice) && it.SystemSuggestedQuantity > 0 {
			index := 0
			for k := len(tiers) - 1; k >= 0; k-- {
				if it.SalePrice.GreaterThan(tiers[k].UnitPrice) {
					index = k
				}
			}
			if tiers[index].MinQty > minMOQ {
				minMOQ = tiers[index].MinQty
			}
		}
	}

	return minMOQ
}

// CanBeSoldTotalDeal sums, per Item, the larger of CanBeSoldTotal and
// SystemSuggestedQuantity.
func CanBeSoldTotalDeal(deal models.Deal) int {
	total := 0
	for _, it := range deal.Items {
		v := it.CanBeSoldTotal
		if it.SystemSuggestedQuantity > v {
			v = it.SystemSuggestedQuantity
		}
		total += v
	}
	return total
}

// CandidateMs returns the sorted, de-duplicated set of valid M values for a
// Deal: every Item tier MinQty plus the deal sum at suggested quantities,
// filtered to [MinMOQByDeal, CanBeSoldTotalDeal], falling back to
// {MinMOQByDeal} if that filter leaves nothing.
func CandidateMs(deal models.Deal) []int {
	minMOQ := MinMOQByDeal(deal)
	cbst := CanBeSoldTotalDeal(deal)

	seen := make(map[int]struct{})
	seen[deal.DealSumAtSuggested()] = struct{}{}
	for _, it := range deal.Items {
		for _, t := range it.Tiers {
			seen[t.MinQty] = struct{}{}
		}
	}

	var candidates []int
	for m := range seen {
		if m >= minMOQ && m <= cbst {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		candidates = []int{minMOQ}
	}

	sort.Ints(candidates)
	return candidates
}

// allocateDealToMOQ realizes the "GetDealToMOQ" procedure for one candidate
// M, returning the resulting order quantity per product (best_quantity,
// excluding existing inventory).
func allocateDealToMOQ(deal models.Deal, m int) map[int]int {
	var eligible, incorrect []models.Item
	for _, it := range deal.Items {
		price := ResolveTier(it.Tiers, m).UnitPrice
		profit := it.SalePrice.Sub(price)
		if profit.IsPositive() && it.ADS.IsPositive() && it.BestQuantity < it.CanBeSoldTotal {
			eligible = append(eligible, it)
		} else {
			incorrect = append(incorrect, it)
		}
	}

	adsSum := 0.0
	for _, it := range eligible {
		adsSum += it.ADS.InexactFloat64()
	}
	if len(eligible) == 0 || adsSum == 0 {
		eligible = deal.Items
		incorrect = nil
	}

	fixed := 0
	for _, it := range incorrect {
		fixed += it.BestQuantity
	}

	n := len(eligible)
	invs := make([]int, n)
	x := make([]float64, n)
	ads := make([]float64, n)
	invSum := 0
	xSum := 0.0

	for i, it := range eligible {
		invs[i] = int(it.Inventory.IntPart())
		ads[i] = it.ADS.InexactFloat64()
		x[i] = float64(it.SystemSuggestedQuantity + invs[i])
		invSum += invs[i]
		xSum += x[i]
	}

	target := float64(m+invSum-fixed) - xSum
	diff := int(math.Round(target))

	if diff != 0 {
		dfs := make([]float64, n)
		for i := range dfs {
			dfs[i] = x[i] / ads[i]
		}

		sign := 1.0
		if diff < 0 {
			sign = -1.0
		}
		steps := diff
		if steps < 0 {
			steps = -steps
		}

		for step := 0; step < steps; step++ {
			meanDfs, mean2Dfs := 0.0, 0.0
			for _, z := range dfs {
				meanDfs += z
				mean2Dfs += z * z
			}
			meanDfs /= float64(n)
			mean2Dfs /= float64(n)

			bestIdx := 0
			bestVar := math.Inf(1)
			for i := range dfs {
				newMean := meanDfs + sign*(1/(float64(n)*ads[i]))
				newMean2 := mean2Dfs + (2*sign*dfs[i]+1/ads[i])/(float64(n)*ads[i])
				newVar := newMean2 - newMean*newMean
				if newVar < bestVar {
					bestVar = newVar
					bestIdx = i
				}
			}

			x[bestIdx] += sign
			dfs[bestIdx] += sign * (1 / ads[bestIdx])
		}
	}

	result := make(map[int]int, len(deal.Items))
	for i, it := range eligible {
		qty := x[i]
		if qty < float64(invs[i]) {
			qty = float64(invs[i]) // clamp to existing inventory instead of rejecting
		}
		result[it.ProductID] = int(math.Round(qty)) - invs[i]
	}
	for _, it := range incorrect {
		result[it.ProductID] = it.BestQuantity
	}

	return result
}

// thirtyDaysProfit computes ThirtyDaysProfit_i. When profit is negative and
// the quantity factor is positive, it substitutes the sentinel
// 100/(profit*quantity) verbatim, preserved as-is rather than "fixed".
func thirtyDaysProfit(it models.Item, qty int, profit decimal.Decimal) decimal.Decimal {
	thirty := it.ADS.Mul(decimal.NewFromInt(30)).Sub(it.Inventory)
	if thirty.IsNegative() {
		thirty = decimal.Zero
	}
	quantity := decimal.NewFromInt(int64(qty))
	if thirty.LessThan(quantity) {
		quantity = thirty
	}

	if profit.IsNegative() && quantity.IsPositive() {
		denom := profit.Mul(quantity)
		return decimal.NewFromInt(100).Div(denom)
	}
	return profit.Mul(quantity)
}

// EnumerateVariants produces the Deal's Variant list in ascending M. For
// each candidate M, allocate quantities fresh from the Deal's original
// Items (CopyDeal semantics — no state carries between variants), then
// derive purchase prices, per-item budget and ThirtyDaysProfit, and sum
// them into the variant's budget/efficiency.
func EnumerateVariants(deal models.Deal) []models.Variant {
	ms := CandidateMs(deal)
	variants := make([]models.Variant, 0, len(ms))

	for _, m := range ms {
		allocation := allocateDealToMOQ(deal, m)

		budget := decimal.Zero
		efficiency := decimal.Zero
		allocations := make([]models.ItemAllocation, 0, len(deal.Items))

		for _, it := range deal.Items {
			qty := allocation[it.ProductID]
			price := ResolveTier(it.Tiers, m).UnitPrice
			profit := it.SalePrice.Sub(price)

			itemBudget := decimal.NewFromInt(int64(qty)).Mul(price)
			budget = budget.Add(itemBudget)
			efficiency = efficiency.Add(thirtyDaysProfit(it, qty, profit))

			allocations = append(allocations, models.ItemAllocation{
				ProductID:     it.ProductID,
				Quantity:      qty,
				PurchasePrice: price,
			})
		}

		variants = append(variants, models.Variant{
			BrandID:     deal.BrandID,
			M:           m,
			Allocations: allocations,
			Budget:      budget,
			Efficiency:  efficiency,
		})
	}

	return variants
}
