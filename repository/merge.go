package repository

import (
	"brandeduk-store/models"
	"brandeduk-store/utils"
)

// MergeItems folds incoming items into the current basket in place.
// Matching (code, color) entries add their size quantities; size entries
// reduced to zero or below are deleted, and items whose size map drains
// are removed entirely.
func MergeItems(basket *models.Basket, incoming []models.BasketItem) {
	for _, in := range incoming {
		idx := findItem(basket.Items, in.Code, in.Color)
		if idx < 0 {
			item := in
			item.Quantities = normalizeQuantities(in.Quantities)
			item.Quantity = item.TotalQuantity()
			if item.Quantity > 0 {
				basket.Items = append(basket.Items, item)
			}
			continue
		}

		existing := &basket.Items[idx]
		if existing.Quantities == nil {
			existing.Quantities = make(map[string]int)
		}
		// Deltas against an existing entry keep their sign so a negative
		// quantity can reduce or delete a size row
		for size, qty := range in.Quantities {
			key := utils.NormalizeSize(size)
			existing.Quantities[key] += qty
			if existing.Quantities[key] <= 0 {
				delete(existing.Quantities, key)
			}
		}
		existing.Quantity = existing.TotalQuantity()
	}

	// Drop items drained to zero
	kept := basket.Items[:0]
	for _, item := range basket.Items {
		if item.TotalQuantity() > 0 {
			kept = append(kept, item)
		}
	}
	basket.Items = kept
}

// findItem returns the index of the (code, color) entry, or -1
func findItem(items []models.BasketItem, code, color string) int {
	for i := range items {
		if items[i].Code == code && items[i].Color == color {
			return i
		}
	}
	return -1
}

// normalizeQuantities rebuilds a size map with normalized size keys and
// clamped non-negative quantities, dropping zero entries
func normalizeQuantities(quantities map[string]int) map[string]int {
	normalized := make(map[string]int, len(quantities))
	for size, qty := range quantities {
		q := utils.ParseQuantity(qty)
		if q > 0 {
			normalized[utils.NormalizeSize(size)] += q
		}
	}
	return normalized
}
