package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"brandeduk-store/models"
)

// ProductsService consumes the storefront backend's product endpoints.
// The endpoints' internals are not ours; only the request/response
// contract matters here.
type ProductsService struct {
	baseURL string
	client  *http.Client
}

// NewProductsService creates a new ProductsService instance.
// baseURL is the backend root, e.g. "https://api.example.co.uk"
func NewProductsService(baseURL string) *ProductsService {
	return &ProductsService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Ensure ProductsService implements ProductsServiceInterface
var _ ProductsServiceInterface = (*ProductsService)(nil)

// ListProducts fetches the garment catalog from GET /api/products
func (ps *ProductsService) ListProducts(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ps.baseURL+"/api/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build products request: %w", err)
	}

	resp, err := ps.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("products request failed with status %d", resp.StatusCode)
	}

	var list models.ProductListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode products response: %w", err)
	}

	log.Printf("✓ ProductsService: Fetched %d products", len(list.Products))
	return list.Products, nil
}

// GetProduct fetches one garment from GET /api/products/:code
func (ps *ProductsService) GetProduct(ctx context.Context, code string) (*models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ps.baseURL+"/api/products/"+code, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build product request: %w", err)
	}

	resp, err := ps.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("product %s does not exist", code)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product request failed with status %d", resp.StatusCode)
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	return &product, nil
}

// SubmitContact sends an enquiry to POST /api/contact
func (ps *ProductsService) SubmitContact(ctx context.Context, contact models.ContactRequest) error {
	body, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ps.baseURL+"/api/contact", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ps.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit contact request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("contact request failed with status %d", resp.StatusCode)
	}

	log.Printf("✅ ProductsService: Contact request submitted for %s", contact.Email)
	return nil
}
