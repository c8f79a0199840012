package config

import (
	"fmt"
	"log"

	"github.com/BurntSushi/toml"

	"brandeduk-store/models"
	"brandeduk-store/utils"
)

// PositionEntry describes one decoration position offered by the store
type PositionEntry struct {
	Slug string `toml:"slug"`
	Name string `toml:"name"`
}

// MethodEntry describes the per-unit price of a decoration method.
// POA ("price on application") methods require a manual quote and cannot
// be auto-priced.
type MethodEntry struct {
	Price string `toml:"price"`
	POA   bool   `toml:"poa"`
}

// StoreConfig holds the decoration catalog: available positions, method
// prices, the one-time digitizing fee and the VAT rate
type StoreConfig struct {
	VATRate       float64                `toml:"vat_rate"`
	DigitizingFee string                 `toml:"digitizing_fee"`
	Positions     []PositionEntry        `toml:"positions"`
	Methods       map[string]MethodEntry `toml:"methods"`
}

// LoadStoreConfig reads and validates the store configuration TOML file
func LoadStoreConfig(path string) (*StoreConfig, error) {
	var cfg StoreConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read store config: %w", err)
	}

	if len(cfg.Positions) == 0 {
		return nil, fmt.Errorf("invalid store config: positions are required")
	}
	if len(cfg.Methods) == 0 {
		return nil, fmt.Errorf("invalid store config: methods are required")
	}
	if cfg.VATRate < 0 || cfg.VATRate > 1 {
		return nil, fmt.Errorf("invalid store config: vat_rate must be between 0 and 1")
	}

	log.Printf("✅ StoreConfig: Loaded %d positions, %d methods from %s", len(cfg.Positions), len(cfg.Methods), path)
	return &cfg, nil
}

// MethodPrice returns the per-unit price in pence for a decoration method.
// Returns ok=false for POA and unknown methods.
func (c *StoreConfig) MethodPrice(method models.Method) (int64, bool) {
	entry, exists := c.Methods[string(method)]
	if !exists || entry.POA {
		return 0, false
	}
	pence, err := utils.ParsePence(entry.Price)
	if err != nil {
		log.Printf("⚠️  StoreConfig: Invalid price %q for method %s", entry.Price, method)
		return 0, false
	}
	return pence, true
}

// DigitizingFeePence returns the one-time digitizing fee in pence
func (c *StoreConfig) DigitizingFeePence() int64 {
	return utils.ParsePenceOr(c.DigitizingFee, 0)
}

// HasPosition reports whether the store offers the given position slug
func (c *StoreConfig) HasPosition(slug string) bool {
	for _, p := range c.Positions {
		if p.Slug == slug {
			return true
		}
	}
	return false
}
