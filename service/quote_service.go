package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"brandeduk-store/config"
	"brandeduk-store/models"
	"brandeduk-store/utils"
)

// ErrPayloadTooLarge indicates the backend rejected a submission for size
var ErrPayloadTooLarge = errors.New("quote payload too large")

// maxAttachmentBytes is the per-file heuristic for "payload likely too
// large": any single logo over 1.5MB gets recompressed before sending
const maxAttachmentBytes = 1536 * 1024

// CustomizationProvider is the view of a customization session the quote
// submitter needs
type CustomizationProvider interface {
	ProductCode() string
	Customizations() []models.PositionCustomization
	LogoFiles() map[string][]byte
	HasEmbroidery() bool
}

// QuoteService assembles the final quote request and negotiates it with
// the backend. Logo bytes travel only as multipart file parts, never
// inside the JSON body; when the payload is (or proves) too large, every
// logo is recompressed once and the request retried once. The basket is
// cleared only after the server confirms success.
type QuoteService struct {
	baseURL string
	client  *http.Client
	basket  *BasketService
	store   *config.StoreConfig
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(baseURL string, basket *BasketService, store *config.StoreConfig) *QuoteService {
	return &QuoteService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		basket:  basket,
		store:   store,
	}
}

// BuildQuoteRequest assembles the submission body from the persisted
// basket and the session's customizations
func (qs *QuoteService) BuildQuoteRequest(customer models.Customer, provider CustomizationProvider) (*models.QuoteRequest, error) {
	basket, err := qs.basket.Basket()
	if err != nil {
		return nil, fmt.Errorf("failed to load basket: %w", err)
	}
	if len(basket.Items) == 0 {
		return nil, fmt.Errorf("basket is empty")
	}

	totalQty := 0
	var garmentCost int64
	for _, item := range basket.Items {
		qty := item.TotalQuantity()
		totalQty += qty
		garmentCost += int64(qty) * utils.ParsePenceOr(item.Price, 0)
	}

	// Customizations are priced against the cumulative quantity of the
	// product being customized, across all its colour entries
	productQty := basket.TotalQuantityForCode(provider.ProductCode())

	var customizations []models.QuoteCustomization
	var customizationCost int64
	for _, c := range provider.Customizations() {
		unit := utils.ParsePenceOr(c.Price, 0)
		lineTotal := unit * int64(productQty)
		customizationCost += lineTotal
		customizations = append(customizations, models.QuoteCustomization{
			Position:  c.Position,
			Method:    c.Method,
			Type:      c.Type,
			HasLogo:   c.UploadedLogo,
			UnitPrice: utils.FormatPence(unit),
			LineTotal: utils.FormatPence(lineTotal),
			Quantity:  productQty,
		})
	}

	// One-time digitizing fee when any embroidery is present
	var digitizingFee int64
	if provider.HasEmbroidery() {
		digitizingFee = qs.store.DigitizingFeePence()
	}

	subTotal := garmentCost + customizationCost + digitizingFee
	vat := int64(float64(subTotal)*qs.store.VATRate + 0.5)

	return &models.QuoteRequest{
		Customer: customer,
		Summary: models.QuoteSummary{
			TotalQuantity:     totalQty,
			GarmentCost:       utils.FormatPence(garmentCost),
			CustomizationCost: utils.FormatPence(customizationCost),
			DigitizingFee:     utils.FormatPence(digitizingFee),
			SubTotal:          utils.FormatPence(subTotal),
			VAT:               utils.FormatPence(vat),
			Total:             utils.FormatPence(subTotal + vat),
		},
		Basket:         basket.Items,
		Customizations: customizations,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Submit sends the quote request to POST /api/quotes. Submissions without
// logo files go as plain JSON; submissions with files go as multipart with
// a quoteData field and one logo_<positionSlug> part per file.
//
// Degradation path: any file over 1.5MB is recompressed up front; an
// oversized-request failure from the server triggers one recompression
// pass and a single retry. Other network errors surface to the caller with
// the basket intact.
func (qs *QuoteService) Submit(ctx context.Context, customer models.Customer, provider CustomizationProvider) (*models.QuoteResponse, error) {
	request, err := qs.BuildQuoteRequest(customer, provider)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quote request: %w", err)
	}

	// Keep a resumable copy next to the basket before touching the network
	if err := qs.basket.SetQuoteBackup(payload); err != nil {
		log.Printf("⚠️  QuoteService: Could not cache quote backup: %v", err)
	}

	files := provider.LogoFiles()
	recompressed := false
	if oversized(files) {
		log.Printf("⚠️  QuoteService: Logo over %d bytes, recompressing before submission", maxAttachmentBytes)
		files = recompressAll(files)
		recompressed = true
	}

	response, err := qs.send(ctx, payload, files)
	if errors.Is(err, ErrPayloadTooLarge) && !recompressed {
		log.Printf("🔄 QuoteService: Server rejected payload size, recompressing and retrying once")
		response, err = qs.send(ctx, payload, recompressAll(files))
	}
	if err != nil {
		return nil, err
	}

	// Server confirmed: now, and only now, the basket goes
	if err := qs.basket.Clear(); err != nil {
		log.Printf("⚠️  QuoteService: Quote accepted but basket clear failed: %v", err)
	}

	log.Printf("✅ QuoteService: Quote submitted, reference %s", response.Reference)
	return response, nil
}

// send performs one POST /api/quotes attempt
func (qs *QuoteService) send(ctx context.Context, payload []byte, files map[string][]byte) (*models.QuoteResponse, error) {
	var body io.Reader
	contentType := "application/json"

	if len(files) > 0 {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)

		if err := writer.WriteField("quoteData", string(payload)); err != nil {
			return nil, fmt.Errorf("failed to write quote data field: %w", err)
		}
		for slug, data := range files {
			part, err := writer.CreateFormFile("logo_"+slug, slug+".png")
			if err != nil {
				return nil, fmt.Errorf("failed to create logo part for %s: %w", slug, err)
			}
			if _, err := part.Write(data); err != nil {
				return nil, fmt.Errorf("failed to write logo part for %s: %w", slug, err)
			}
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
		}

		body = &buf
		contentType = writer.FormDataContentType()
	} else {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, qs.baseURL+"/api/quotes", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := qs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrPayloadTooLarge
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("quote submission failed with status %d", resp.StatusCode)
	}

	var quoteResp models.QuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	return &quoteResp, nil
}

// oversized reports whether any single file exceeds the attachment budget
func oversized(files map[string][]byte) bool {
	for _, data := range files {
		if len(data) > maxAttachmentBytes {
			return true
		}
	}
	return false
}

// recompressAll shrinks every logo file; files that fail to recompress are
// sent as-is rather than dropped
func recompressAll(files map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(files))
	for slug, data := range files {
		smaller, err := RecompressForUpload(data)
		if err != nil {
			log.Printf("❌ QuoteService: Recompression failed for %s, sending original: %v", slug, err)
			out[slug] = data
			continue
		}
		out[slug] = smaller
	}
	return out
}
