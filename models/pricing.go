package models

// PriceTier represents one quantity threshold in a product's tier table.
// UnitPrice is in pence.
type PriceTier struct {
	MinQty    int   `json:"minQty"`
	UnitPrice int64 `json:"unitPrice"`
}

// TierTable holds the tier list for one product code, ordered descending
// by MinQty after loading. BasePrice (pence) applies to quantities below
// the lowest tier.
type TierTable struct {
	BasePrice int64       `json:"basePrice"`
	Tiers     []PriceTier `json:"tiers"`
}
