// Package services - Price-Tier Resolver (C3)
package services

import (
	"github.com/vantora/replenish/internal/models"
)

// ResolveTier returns the active tier for a target quantity q: the tier
// with the largest MinQty <= q, falling back to the smallest tier if q is
// below every MinQty. Walks tiers ascending and keeps overwriting its
// candidate while q >= tier.MinQty.
func ResolveTier(tiers []models.PriceTier, q int) models.PriceTier {
	sorted := models.SortedTiers(tiers)
	active := sorted[0]
	for _, t := range sorted {
		if q >= t.MinQty {
			active = t
		}
	}
	return active
}

// PurchasePrice resolves the unit price an Item pays at deal-level target
// quantity q.
func PurchasePrice(item models.Item, q int) models.PriceTier {
	return ResolveTier(item.Tiers, q)
}
