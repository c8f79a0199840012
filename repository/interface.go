package repository

import (
	"brandeduk-store/models"
)

// BasketRepositoryInterface defines the contract for basket persistence
// operations. The persisted basket is shared between concurrent clients
// ("tabs"); implementations must tolerate external mutation by serving a
// fresh read on every Load.
type BasketRepositoryInterface interface {
	// Load returns the current persisted basket. A missing store yields an
	// empty basket, never an error.
	Load() (*models.Basket, error)
	// Save persists the basket (flush-on-write). Running out of space must
	// degrade, not fail the user flow.
	Save(basket *models.Basket) error
	// Merge combines incoming items with the freshly read persisted basket,
	// adding size quantities for matching (code, color) entries, and saves
	// the result.
	Merge(items []models.BasketItem) (*models.Basket, error)
	// Delete clears the persisted basket
	Delete() error
}
