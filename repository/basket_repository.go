package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"brandeduk-store/models"
)

// ErrStorageQuota indicates the persisted payload exceeded the store's
// space budget
var ErrStorageQuota = errors.New("basket storage quota exceeded")

// FileBasketRepository persists the basket to a JSON file, flushed on
// every write. It is the durable analog of the browser's local storage:
// shared between concurrent clients, size-constrained, and allowed to
// fail without breaking the user flow.
//
// On a quota failure the repository strips the non-essential quote backup
// and retries once; if that also fails it degrades to memory-only
// operation for the rest of the session.
type FileBasketRepository struct {
	path     string
	maxBytes int

	degraded bool
	fallback *MemoryBasketRepository
}

// NewFileBasketRepository creates a file-backed basket repository at the
// given path. maxBytes caps the serialized payload size (0 = unlimited).
func NewFileBasketRepository(path string, maxBytes int) (*FileBasketRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create basket store directory: %w", err)
	}
	return &FileBasketRepository{
		path:     path,
		maxBytes: maxBytes,
		fallback: NewMemoryBasketRepository(),
	}, nil
}

// Ensure FileBasketRepository implements BasketRepositoryInterface
var _ BasketRepositoryInterface = (*FileBasketRepository)(nil)

// Load re-reads the store on every call so mutations from other clients
// are picked up before the next write
func (r *FileBasketRepository) Load() (*models.Basket, error) {
	if r.degraded {
		return r.fallback.Load()
	}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return &models.Basket{Version: models.BasketSchemaVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read basket store: %w", err)
	}

	var basket models.Basket
	if err := json.Unmarshal(data, &basket); err != nil {
		// Legacy payloads were a bare item array without the version
		// envelope
		var items []models.BasketItem
		if legacyErr := json.Unmarshal(data, &items); legacyErr == nil {
			log.Printf("🔄 BasketRepository: Migrated legacy basket payload (%d items)", len(items))
			return &models.Basket{Version: models.BasketSchemaVersion, Items: items}, nil
		}
		// Unreadable store - treat as empty rather than blocking the flow
		log.Printf("⚠️  BasketRepository: Corrupt basket store at %s, starting empty: %v", r.path, err)
		return &models.Basket{Version: models.BasketSchemaVersion}, nil
	}

	if basket.Version == 0 {
		basket.Version = models.BasketSchemaVersion
	}
	return &basket, nil
}

// Save flushes the basket to disk. Quota failures strip the cached quote
// backup and retry once; a second failure degrades to memory-only. Save
// never surfaces a storage failure to the caller.
func (r *FileBasketRepository) Save(basket *models.Basket) error {
	if r.degraded {
		return r.fallback.Save(basket)
	}

	basket.Version = models.BasketSchemaVersion

	err := r.write(basket)
	if err == nil {
		return nil
	}

	// Shrink the payload: the quote-request backup is the only
	// non-essential field
	if basket.QuoteBackup != nil {
		log.Printf("⚠️  BasketRepository: Save failed (%v), dropping quote backup and retrying", err)
		basket.QuoteBackup = nil
		if retryErr := r.write(basket); retryErr == nil {
			return nil
		}
	}

	log.Printf("❌ BasketRepository: Persistent save failed (%v), continuing in memory only", err)
	r.degraded = true
	return r.fallback.Save(basket)
}

func (r *FileBasketRepository) write(basket *models.Basket) error {
	data, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("failed to encode basket: %w", err)
	}

	if r.maxBytes > 0 && len(data) > r.maxBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrStorageQuota, len(data), r.maxBytes)
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write basket store: %w", err)
	}
	return nil
}

// Merge combines incoming items with the freshly read persisted basket and
// saves the result. Loading first means writes from other clients since
// our last read are preserved.
func (r *FileBasketRepository) Merge(items []models.BasketItem) (*models.Basket, error) {
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

// Delete clears the persisted basket
func (r *FileBasketRepository) Delete() error {
	r.fallback.Delete()
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete basket store: %w", err)
	}
	return nil
}

// Degraded reports whether the repository has fallen back to memory-only
// operation after a storage failure
func (r *FileBasketRepository) Degraded() bool {
	return r.degraded
}

// ChangedSince reports whether another client has written the store after
// the given time. Callers use it to rebuild derived state from a fresh
// Load instead of trusting a stale in-memory view.
func (r *FileBasketRepository) ChangedSince(last time.Time) (bool, error) {
	info, err := os.Stat(r.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat basket store: %w", err)
	}
	return info.ModTime().After(last), nil
}
