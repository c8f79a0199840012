package models

// BasketSchemaVersion is written into the persisted basket envelope so that
// future schema changes can migrate old payloads instead of discarding them
const BasketSchemaVersion = 1

// PositionCustomization represents one decorated position as stored on a
// basket item. Customizations are a property of the product, not of its
// size/colour variants, so every basket entry of a product carries the
// same list.
// Example: {"position": "left-breast", "method": "embroidery", "type": "logo", "uploadedLogo": true, "logoName": "acme.png", "price": "4.95"}
type PositionCustomization struct {
	Position     string `json:"position"`
	Method       Method `json:"method"`
	Type         string `json:"type"` // "logo" or "text"
	UploadedLogo bool   `json:"uploadedLogo"`
	LogoName     string `json:"logoName,omitempty"`
	Text         string `json:"text,omitempty"`
	Price        string `json:"price"`
}

// BasketItem represents one garment/colour entry in the persisted basket.
// Uniqueness key is (Code, Color). Quantity is the derived sum of the size
// map and Price is the unit price as a decimal string (e.g. "12.59").
// Example: {"code": "UC101", "name": "Classic Hoodie", "color": "Navy", "image": "/img/uc101-navy.jpg", "quantities": {"M": 2, "L": 1}, "quantity": 3, "price": "17.58", "customizations": []}
type BasketItem struct {
	Code           string                  `json:"code"`
	Name           string                  `json:"name"`
	Color          string                  `json:"color"`
	Image          string                  `json:"image"`
	Quantities     map[string]int          `json:"quantities"`
	Quantity       int                     `json:"quantity"`
	Price          string                  `json:"price"`
	Customizations []PositionCustomization `json:"customizations"`
}

// TotalQuantity returns the sum of all size quantities on this item
func (i *BasketItem) TotalQuantity() int {
	total := 0
	for _, qty := range i.Quantities {
		total += qty
	}
	return total
}

// Basket is the persisted collection of basket items plus a schema version.
// On disk it is stored as an envelope; the items array alone matches the
// legacy persisted schema.
type Basket struct {
	Version int          `json:"version"`
	Items   []BasketItem `json:"items"`
	// QuoteBackup caches the last quote request body so an interrupted
	// submission can be resumed. It is the first field dropped when the
	// store runs out of space.
	QuoteBackup []byte `json:"quoteBackup,omitempty"`
}

// TotalQuantityForCode returns the cumulative quantity across all colour
// entries sharing a product code. This is the quantity tier pricing is
// evaluated against, never the quantity of a single colour entry.
func (b *Basket) TotalQuantityForCode(code string) int {
	total := 0
	for i := range b.Items {
		if b.Items[i].Code == code {
			total += b.Items[i].TotalQuantity()
		}
	}
	return total
}
