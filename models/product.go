package models

// ProductColor represents one colour variant of a product as returned by
// the products API
type ProductColor struct {
	Name  string `json:"name"`
	Hex   string `json:"hex,omitempty"`
	Image string `json:"image,omitempty"`
}

// Product represents a garment from GET /api/products.
// Price fields arrive as decimal strings from the API and are parsed to
// pence at the boundary.
type Product struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Category  string         `json:"category,omitempty"`
	BasePrice string         `json:"basePrice"`
	Image     string         `json:"image,omitempty"`
	Sizes     []string       `json:"sizes"`
	Colors    []ProductColor `json:"colors"`
}

// ProductListResponse represents the response for GET /api/products
type ProductListResponse struct {
	Products []Product `json:"products"`
}

// ContactRequest represents the body for POST /api/contact
type ContactRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Message  string `json:"message"`
}
