package pricing

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"brandeduk-store/models"
)

// Config represents the tier pricing configuration structure
type Config struct {
	Currency string                      `json:"currency"`
	Products map[string]models.TierTable `json:"products"`
}

// Engine maps cumulative product quantities to unit price tiers based on
// JSON configuration. Tier tables can also be registered at runtime from
// the products API.
type Engine struct {
	config *Config
}

var engineInstance *Engine

// NewEngine creates a new pricing engine instance
func NewEngine(configPath string) (*Engine, error) {
	if engineInstance != nil {
		return engineInstance, nil
	}

	// Resolve config path
	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing config: %w", err)
	}

	// Parse JSON
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse pricing config: %w", err)
	}

	// Validate config
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid pricing config: %w", err)
	}

	engine := NewEngineFromConfig(&config)
	engineInstance = engine
	log.Printf("✅ PricingEngine: Successfully loaded %d tier tables from %s", len(config.Products), configPath)
	return engine, nil
}

// NewEngineFromConfig creates an engine from an in-memory config.
// Used by tests and by callers that build tier tables from API responses.
func NewEngineFromConfig(config *Config) *Engine {
	if config.Products == nil {
		config.Products = make(map[string]models.TierTable)
	}

	// Sort each tier table descending by minQty so the first qualifying
	// tier during lookup is the largest threshold
	for code, table := range config.Products {
		sort.Slice(table.Tiers, func(i, j int) bool {
			return table.Tiers[i].MinQty > table.Tiers[j].MinQty
		})
		config.Products[code] = table
	}

	return &Engine{config: config}
}

func validateConfig(config *Config) error {
	if config.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if len(config.Products) == 0 {
		return fmt.Errorf("products are required")
	}
	for code, table := range config.Products {
		if table.BasePrice <= 0 {
			return fmt.Errorf("product %s: basePrice must be positive", code)
		}
		for _, tier := range table.Tiers {
			if tier.MinQty <= 0 {
				return fmt.Errorf("product %s: tier minQty must be positive", code)
			}
			if tier.UnitPrice <= 0 {
				return fmt.Errorf("product %s: tier unitPrice must be positive", code)
			}
		}
	}
	return nil
}

// GetEngine returns the singleton pricing engine instance
func GetEngine() *Engine {
	return engineInstance
}

// RegisterProduct registers or replaces the tier table for a product code.
// Tables fetched from GET /api/products/:code land here.
func (e *Engine) RegisterProduct(code string, table models.TierTable) {
	sort.Slice(table.Tiers, func(i, j int) bool {
		return table.Tiers[i].MinQty > table.Tiers[j].MinQty
	})
	e.config.Products[code] = table
}

// GetUnitPrice returns the unit price in pence for a product at the given
// cumulative quantity. totalQty must be the sum across all basket entries
// sharing the product code, not the quantity of a single colour entry.
//
// The tier with the largest minQty such that totalQty >= minQty wins. If
// no tier qualifies, the product's own base price applies; unknown product
// codes fall back to the caller-supplied base price. Lookups never fail.
func (e *Engine) GetUnitPrice(productCode string, totalQty int, basePrice int64) int64 {
	table, exists := e.config.Products[productCode]
	if !exists {
		log.Printf("⚠️  PricingEngine: Unknown product code %s, using caller base price %d", productCode, basePrice)
		return basePrice
	}

	// Tiers are ordered descending by minQty, so the first match is the
	// largest qualifying threshold
	for _, tier := range table.Tiers {
		if totalQty >= tier.MinQty {
			return tier.UnitPrice
		}
	}

	return table.BasePrice
}

// HasProduct reports whether a tier table is registered for the code
func (e *Engine) HasProduct(productCode string) bool {
	_, exists := e.config.Products[productCode]
	return exists
}
