package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandeduk-store/config"
	"brandeduk-store/models"
)

// stubProvider stands in for a customization session
type stubProvider struct {
	code           string
	customizations []models.PositionCustomization
	files          map[string][]byte
	embroidery     bool
}

func (s *stubProvider) ProductCode() string { return s.code }

func (s *stubProvider) Customizations() []models.PositionCustomization { return s.customizations }

func (s *stubProvider) LogoFiles() map[string][]byte { return s.files }

func (s *stubProvider) HasEmbroidery() bool { return s.embroidery }

func quoteStoreConfig() *config.StoreConfig {
	return &config.StoreConfig{
		VATRate:       0.2,
		DigitizingFee: "15.00",
		Positions:     []config.PositionEntry{{Slug: "left-breast", Name: "Left Breast"}},
		Methods: map[string]config.MethodEntry{
			"embroidery": {Price: "4.95"},
			"print":      {Price: "3.50"},
		},
	}
}

func seededBasketService(t *testing.T) *BasketService {
	t.Helper()
	svc := newBasketService()

	_, err := svc.AddOrMergeItem(models.BasketItem{
		Code: "UC101", Name: "Classic Hoodie", Color: "Navy",
		Quantities: map[string]int{"M": 2},
	})
	require.NoError(t, err)
	_, err = svc.AddOrMergeItem(models.BasketItem{
		Code: "UC101", Name: "Classic Hoodie", Color: "White",
		Quantities: map[string]int{"M": 3, "L": 1},
	})
	require.NoError(t, err)
	return svc
}

func embroideryProvider() *stubProvider {
	return &stubProvider{
		code: "UC101",
		customizations: []models.PositionCustomization{
			{Position: "left-breast", Method: models.MethodEmbroidery, Type: "logo", UploadedLogo: true, LogoName: "crest.png", Price: "4.95"},
		},
		embroidery: true,
	}
}

func TestBuildQuoteRequestTotals(t *testing.T) {
	basket := seededBasketService(t)
	qs := NewQuoteService("http://unused", basket, quoteStoreConfig())

	request, err := qs.BuildQuoteRequest(models.Customer{FullName: "Jo Smith", Email: "jo@example.com"}, embroideryProvider())
	require.NoError(t, err)

	// 6 units at the 5+ tier (17.58 each)
	assert.Equal(t, 6, request.Summary.TotalQuantity)
	assert.Equal(t, "105.48", request.Summary.GarmentCost)

	// One embroidery logo at 4.95 across all 6 units of the product
	require.Len(t, request.Customizations, 1)
	line := request.Customizations[0]
	assert.Equal(t, "4.95", line.UnitPrice)
	assert.Equal(t, "29.70", line.LineTotal)
	assert.Equal(t, 6, line.Quantity)
	assert.True(t, line.HasLogo)

	assert.Equal(t, "29.70", request.Summary.CustomizationCost)
	assert.Equal(t, "15.00", request.Summary.DigitizingFee)
	assert.Equal(t, "150.18", request.Summary.SubTotal)
	assert.Equal(t, "30.04", request.Summary.VAT)
	assert.Equal(t, "180.22", request.Summary.Total)

	assert.Len(t, request.Basket, 2)
	assert.NotEmpty(t, request.Timestamp)
}

func TestBuildQuoteRequestNoEmbroideryNoDigitizingFee(t *testing.T) {
	basket := seededBasketService(t)
	qs := NewQuoteService("http://unused", basket, quoteStoreConfig())

	provider := &stubProvider{
		code: "UC101",
		customizations: []models.PositionCustomization{
			{Position: "left-breast", Method: models.MethodPrint, Type: "text", Text: "ACME Ltd", Price: "3.50"},
		},
	}
	request, err := qs.BuildQuoteRequest(models.Customer{FullName: "Jo Smith"}, provider)
	require.NoError(t, err)

	assert.Equal(t, "0.00", request.Summary.DigitizingFee)
	assert.Equal(t, "21.00", request.Summary.CustomizationCost)
}

func TestBuildQuoteRequestEmptyBasket(t *testing.T) {
	qs := NewQuoteService("http://unused", newBasketService(), quoteStoreConfig())

	_, err := qs.BuildQuoteRequest(models.Customer{FullName: "Jo Smith"}, embroideryProvider())
	assert.Error(t, err)
}

func TestSubmitJSONWithoutLogoFiles(t *testing.T) {
	var gotContentType string
	var gotRequest models.QuoteRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		json.NewEncoder(w).Encode(models.QuoteResponse{Reference: "Q-1001", Status: "received"})
	}))
	defer server.Close()

	basket := seededBasketService(t)
	qs := NewQuoteService(server.URL, basket, quoteStoreConfig())

	provider := embroideryProvider()
	response, err := qs.Submit(context.Background(), models.Customer{FullName: "Jo Smith", Email: "jo@example.com"}, provider)
	require.NoError(t, err)

	assert.Equal(t, "Q-1001", response.Reference)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Jo Smith", gotRequest.Customer.FullName)
	assert.Equal(t, "180.22", gotRequest.Summary.Total)

	// Confirmed submission empties the basket
	current, err := basket.Basket()
	require.NoError(t, err)
	assert.Empty(t, current.Items)
}

func TestSubmitMultipartWithLogoFiles(t *testing.T) {
	var gotRequest models.QuoteRequest
	var gotLogo []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(8<<20))

		require.NoError(t, json.Unmarshal([]byte(r.FormValue("quoteData")), &gotRequest))

		file, _, err := r.FormFile("logo_left-breast")
		require.NoError(t, err)
		defer file.Close()
		buf := make([]byte, 64)
		n, _ := file.Read(buf)
		gotLogo = buf[:n]

		json.NewEncoder(w).Encode(models.QuoteResponse{Reference: "Q-1002", Status: "received"})
	}))
	defer server.Close()

	basket := seededBasketService(t)
	qs := NewQuoteService(server.URL, basket, quoteStoreConfig())

	provider := embroideryProvider()
	provider.files = map[string][]byte{"left-breast": []byte("fake-logo-bytes")}

	response, err := qs.Submit(context.Background(), models.Customer{FullName: "Jo Smith"}, provider)
	require.NoError(t, err)

	assert.Equal(t, "Q-1002", response.Reference)
	assert.Equal(t, "Jo Smith", gotRequest.Customer.FullName)
	assert.Equal(t, []byte("fake-logo-bytes"), gotLogo)
}

func TestSubmitRetriesOnceAfterPayloadTooLarge(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		json.NewEncoder(w).Encode(models.QuoteResponse{Reference: "Q-1003", Status: "received"})
	}))
	defer server.Close()

	basket := seededBasketService(t)
	qs := NewQuoteService(server.URL, basket, quoteStoreConfig())

	provider := embroideryProvider()
	provider.files = map[string][]byte{"left-breast": ringLogoPNG(t)}

	response, err := qs.Submit(context.Background(), models.Customer{FullName: "Jo Smith"}, provider)
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	assert.Equal(t, "Q-1003", response.Reference)
}

func TestSubmitGivesUpAfterSecondPayloadTooLarge(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer server.Close()

	basket := seededBasketService(t)
	qs := NewQuoteService(server.URL, basket, quoteStoreConfig())

	provider := embroideryProvider()
	provider.files = map[string][]byte{"left-breast": ringLogoPNG(t)}

	_, err := qs.Submit(context.Background(), models.Customer{FullName: "Jo Smith"}, provider)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Equal(t, 2, attempts)
}

func TestSubmitFailureKeepsBasket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	basket := seededBasketService(t)
	qs := NewQuoteService(server.URL, basket, quoteStoreConfig())

	_, err := qs.Submit(context.Background(), models.Customer{FullName: "Jo Smith"}, embroideryProvider())
	require.Error(t, err)

	// Failed submissions must not touch the basket; the cached request
	// body allows a later resume
	current, err := basket.Basket()
	require.NoError(t, err)
	assert.Len(t, current.Items, 2)
	assert.NotEmpty(t, current.QuoteBackup)
}
