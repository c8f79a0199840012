package models

// Customer represents the contact details submitted with a quote request
type Customer struct {
	FullName string `json:"fullName"`
	Company  string `json:"company,omitempty"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address,omitempty"`
}

// QuoteSummary represents the computed totals for a quote request.
// All monetary values are decimal strings ("12.59").
// The digitizing fee is charged once per quote when any embroidery
// customization is present.
type QuoteSummary struct {
	TotalQuantity     int    `json:"totalQuantity"`
	GarmentCost       string `json:"garmentCost"`
	CustomizationCost string `json:"customizationCost"`
	DigitizingFee     string `json:"digitizingFee"`
	SubTotal          string `json:"subTotal"` // VAT-exclusive
	VAT               string `json:"vat"`
	Total             string `json:"total"` // VAT-inclusive
}

// QuoteCustomization represents one decorated position in the submission
// body. Only a boolean hasLogo flag travels in the JSON body; raw image
// bytes go in multipart file parts, never in JSON.
type QuoteCustomization struct {
	Position  string `json:"position"`
	Method    Method `json:"method"`
	Type      string `json:"type"`
	HasLogo   bool   `json:"hasLogo"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
	Quantity  int    `json:"quantity"`
}

// QuoteRequest is the full payload POSTed to /api/quotes.
// Example:
// {
//   "customer": {"fullName": "Sam Patel", "phone": "07700900000", "email": "sam@example.co.uk"},
//   "summary": {"totalQuantity": 12, "garmentCost": "198.48", "customizationCost": "59.40", "digitizingFee": "15.00", "subTotal": "272.88", "vat": "54.58", "total": "327.46"},
//   "basket": [...],
//   "customizations": [{"position": "left-breast", "method": "embroidery", "type": "logo", "hasLogo": true, "unitPrice": "4.95", "lineTotal": "59.40", "quantity": 12}],
//   "timestamp": "2026-08-29T10:30:00Z"
// }
type QuoteRequest struct {
	Customer       Customer             `json:"customer"`
	Summary        QuoteSummary         `json:"summary"`
	Basket         []BasketItem         `json:"basket"`
	Customizations []QuoteCustomization `json:"customizations"`
	Timestamp      string               `json:"timestamp"`
}

// QuoteResponse represents the backend's reply to a quote submission
type QuoteResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}
