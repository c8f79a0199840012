package service

import (
	"errors"
	"fmt"
	"log"

	"brandeduk-store/models"
	"brandeduk-store/pricing"
	"brandeduk-store/repository"
	"brandeduk-store/utils"
)

// ErrItemNotFound indicates a basket mutation referenced an index that no
// longer exists (possibly removed by another client)
var ErrItemNotFound = errors.New("basket item not found")

// BasketService owns all basket mutations. Every operation re-reads the
// persisted basket first (other clients share the store), applies the
// change, re-enforces the cross-item pricing invariant and flushes the
// result back.
//
// The pricing invariant: every entry sharing a product code carries the
// unit price for the cumulative quantity across ALL colours of that code,
// so any sibling's quantity change reprices them all.
type BasketService struct {
	repo          repository.BasketRepositoryInterface
	pricingEngine *pricing.Engine
}

// NewBasketService creates a new BasketService
func NewBasketService(repo repository.BasketRepositoryInterface, engine *pricing.Engine) *BasketService {
	return &BasketService{
		repo:          repo,
		pricingEngine: engine,
	}
}

// Basket returns a fresh read of the persisted basket
func (s *BasketService) Basket() (*models.Basket, error) {
	return s.repo.Load()
}

// AddOrMergeItem adds size quantities to the (code, color) entry, creating
// it if absent, then reprices every sibling entry of the product code
func (s *BasketService) AddOrMergeItem(item models.BasketItem) (*models.Basket, error) {
	if item.Code == "" || item.Color == "" {
		return nil, fmt.Errorf("basket item requires a product code and colour")
	}

	basket, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load basket: %w", err)
	}

	repository.MergeItems(basket, []models.BasketItem{item})
	s.repriceSiblings(basket, item.Code)

	if err := s.repo.Save(basket); err != nil {
		return nil, fmt.Errorf("failed to save basket: %w", err)
	}

	log.Printf("🛒 AddOrMergeItem: %s/%s now at %d units (%d total for code)",
		item.Code, item.Color, quantityFor(basket, item.Code, item.Color), basket.TotalQuantityForCode(item.Code))
	return basket, nil
}

// AdjustQuantity changes one size row by delta, clamping at 0. A size row
// hitting 0 is deleted; an item whose size map drains is removed; siblings
// are repriced either way.
func (s *BasketService) AdjustQuantity(itemIndex int, sizeKey string, delta int) (*models.Basket, error) {
	basket, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load basket: %w", err)
	}

	if itemIndex < 0 || itemIndex >= len(basket.Items) {
		return nil, fmt.Errorf("%w: index %d", ErrItemNotFound, itemIndex)
	}

	item := &basket.Items[itemIndex]
	code := item.Code
	size := utils.NormalizeSize(sizeKey)

	current := item.Quantities[size]
	next := current + delta
	if next < 0 {
		next = 0
	}

	if next == 0 {
		delete(item.Quantities, size)
	} else {
		if item.Quantities == nil {
			item.Quantities = make(map[string]int)
		}
		item.Quantities[size] = next
	}
	item.Quantity = item.TotalQuantity()

	if item.Quantity == 0 {
		basket.Items = append(basket.Items[:itemIndex], basket.Items[itemIndex+1:]...)
		log.Printf("🛒 AdjustQuantity: Item %d drained to zero, removed", itemIndex)
	}

	s.repriceSiblings(basket, code)

	if err := s.repo.Save(basket); err != nil {
		return nil, fmt.Errorf("failed to save basket: %w", err)
	}
	return basket, nil
}

// RemoveItem deletes one size row, or the whole item when sizeKey is empty
func (s *BasketService) RemoveItem(itemIndex int, sizeKey string) (*models.Basket, error) {
	basket, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load basket: %w", err)
	}

	if itemIndex < 0 || itemIndex >= len(basket.Items) {
		return nil, fmt.Errorf("%w: index %d", ErrItemNotFound, itemIndex)
	}

	item := &basket.Items[itemIndex]
	code := item.Code

	if sizeKey == "" {
		basket.Items = append(basket.Items[:itemIndex], basket.Items[itemIndex+1:]...)
	} else {
		delete(item.Quantities, utils.NormalizeSize(sizeKey))
		item.Quantity = item.TotalQuantity()
		if item.Quantity == 0 {
			basket.Items = append(basket.Items[:itemIndex], basket.Items[itemIndex+1:]...)
		}
	}

	s.repriceSiblings(basket, code)

	if err := s.repo.Save(basket); err != nil {
		return nil, fmt.Errorf("failed to save basket: %w", err)
	}
	return basket, nil
}

// SyncCustomizations writes the current position customization list onto
// every basket entry of the product being customized. Customizations
// belong to the product, not to its size/colour variants.
func (s *BasketService) SyncCustomizations(productCode string, customizations []models.PositionCustomization) (*models.Basket, error) {
	basket, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load basket: %w", err)
	}

	updated := 0
	for i := range basket.Items {
		if basket.Items[i].Code == productCode {
			basket.Items[i].Customizations = append([]models.PositionCustomization(nil), customizations...)
			updated++
		}
	}

	if updated == 0 {
		return basket, nil
	}

	if err := s.repo.Save(basket); err != nil {
		return nil, fmt.Errorf("failed to save basket: %w", err)
	}

	log.Printf("🔄 SyncCustomizations: %d customizations written to %d entries of %s", len(customizations), updated, productCode)
	return basket, nil
}

// SetQuoteBackup caches a quote request body alongside the basket so an
// interrupted submission can be resumed. The backup is the first field
// dropped under storage pressure.
func (s *BasketService) SetQuoteBackup(data []byte) error {
	basket, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("failed to load basket: %w", err)
	}
	basket.QuoteBackup = data
	if err := s.repo.Save(basket); err != nil {
		return fmt.Errorf("failed to save basket: %w", err)
	}
	return nil
}

// Clear empties the basket. Called only after the server confirms a quote
// submission.
func (s *BasketService) Clear() error {
	if err := s.repo.Delete(); err != nil {
		return fmt.Errorf("failed to clear basket: %w", err)
	}
	log.Printf("✅ Basket cleared")
	return nil
}

// repriceSiblings re-enforces the cross-item pricing invariant for a
// product code: the tier quantity is the sum across all colour entries,
// and the resulting unit price is applied to every one of them. An entry's
// existing price doubles as the base-price fallback for codes the pricing
// engine does not know.
func (s *BasketService) repriceSiblings(basket *models.Basket, productCode string) {
	total := basket.TotalQuantityForCode(productCode)
	if total == 0 {
		return
	}

	for i := range basket.Items {
		if basket.Items[i].Code != productCode {
			continue
		}
		base := utils.ParsePenceOr(basket.Items[i].Price, 0)
		unit := s.pricingEngine.GetUnitPrice(productCode, total, base)
		basket.Items[i].Price = utils.FormatPence(unit)
	}

	log.Printf("💰 repriceSiblings: %s repriced at total quantity %d", productCode, total)
}

func quantityFor(basket *models.Basket, code, color string) int {
	for i := range basket.Items {
		if basket.Items[i].Code == code && basket.Items[i].Color == color {
			return basket.Items[i].TotalQuantity()
		}
	}
	return 0
}
