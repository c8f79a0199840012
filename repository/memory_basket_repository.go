package repository

import (
	"encoding/json"
	"fmt"

	"brandeduk-store/models"
)

// MemoryBasketRepository is an in-memory basket store used by tests and as
// the degradation target when persistent storage fails
type MemoryBasketRepository struct {
	data []byte
}

// NewMemoryBasketRepository creates a new MemoryBasketRepository
func NewMemoryBasketRepository() *MemoryBasketRepository {
	return &MemoryBasketRepository{}
}

// Ensure MemoryBasketRepository implements BasketRepositoryInterface
var _ BasketRepositoryInterface = (*MemoryBasketRepository)(nil)

// Load returns the stored basket, or an empty one if nothing was saved yet
func (r *MemoryBasketRepository) Load() (*models.Basket, error) {
	if r.data == nil {
		return &models.Basket{Version: models.BasketSchemaVersion}, nil
	}

	var basket models.Basket
	if err := json.Unmarshal(r.data, &basket); err != nil {
		return nil, fmt.Errorf("failed to decode basket: %w", err)
	}
	if basket.Version == 0 {
		basket.Version = models.BasketSchemaVersion
	}
	return &basket, nil
}

// Save stores a serialized snapshot of the basket
func (r *MemoryBasketRepository) Save(basket *models.Basket) error {
	basket.Version = models.BasketSchemaVersion
	data, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("failed to encode basket: %w", err)
	}
	r.data = data
	return nil
}

// Merge combines incoming items with the stored basket and saves the result
func (r *MemoryBasketRepository) Merge(items []models.BasketItem) (*models.Basket, error) {
	basket, err := r.Load()
	if err != nil {
		return nil, err
	}
	MergeItems(basket, items)
	if err := r.Save(basket); err != nil {
		return nil, err
	}
	return basket, nil
}

// Delete clears the stored basket
func (r *MemoryBasketRepository) Delete() error {
	r.data = nil
	return nil
}
