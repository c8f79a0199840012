package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"brandeduk-store/config"
	"brandeduk-store/pricing"
	"brandeduk-store/repository"
	"brandeduk-store/service"
	"brandeduk-store/session"
)

// defaultBasketQuota caps the persisted basket at 5MB, in the spirit of
// the browser storage the schema originated from
const defaultBasketQuota = 5 * 1024 * 1024

// App holds the wired customization engine components
type App struct {
	Store     *config.StoreConfig
	Pricing   *pricing.Engine
	Repo      repository.BasketRepositoryInterface
	Basket    *service.BasketService
	Processor *service.LogoProcessor
	Products  service.ProductsServiceInterface
	Quotes    *service.QuoteService
}

// Initialize initializes the application
func Initialize() (*App, error) {
	// Pricing tiers
	pricingPath := os.Getenv("PRICING_CONFIG")
	if pricingPath == "" {
		pricingPath = "config/pricing.json"
	}
	engine, err := pricing.NewEngine(pricingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pricing engine: %w", err)
	}

	// Store/decoration catalog
	storePath := os.Getenv("STORE_CONFIG")
	if storePath == "" {
		storePath = "config/store.toml"
	}
	storeCfg, err := config.LoadStoreConfig(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load store config: %w", err)
	}

	// Basket store
	basketPath := os.Getenv("BASKET_STORE")
	if basketPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		basketPath = filepath.Join(homeDir, ".brandeduk", "basket.json")
	}
	quota := defaultBasketQuota
	if limit := os.Getenv("BASKET_STORE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			quota = n
		} else {
			log.Printf("⚠️  Invalid BASKET_STORE_LIMIT %q, using default", limit)
		}
	}
	repo, err := repository.NewFileBasketRepository(basketPath, quota)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize basket repository: %w", err)
	}

	// Backend API base
	apiBase := os.Getenv("API_BASE_URL")
	if apiBase == "" {
		apiBase = "http://localhost:8080"
	}

	basketService := service.NewBasketService(repo, engine)
	processor := service.NewLogoProcessor()
	processor.SetProcessingListener(func(processing bool) {
		if processing {
			log.Printf("⏳ Processing logo...")
		}
	})

	return &App{
		Store:     storeCfg,
		Pricing:   engine,
		Repo:      repo,
		Basket:    basketService,
		Processor: processor,
		Products:  service.NewProductsService(apiBase),
		Quotes:    service.NewQuoteService(apiBase, basketService, storeCfg),
	}, nil
}

// NewSession creates a customization session for a product, restoring any
// customizations already persisted on the product's basket entries
func (a *App) NewSession(productCode string) *session.CustomizationSession {
	sess := session.NewCustomizationSession(productCode, a.Store, a.Processor)

	basket, err := a.Basket.Basket()
	if err != nil {
		log.Printf("⚠️  Could not load basket for session restore: %v", err)
		return sess
	}
	for i := range basket.Items {
		if basket.Items[i].Code == productCode && len(basket.Items[i].Customizations) > 0 {
			sess.Restore(basket.Items[i].Customizations)
			break
		}
	}
	return sess
}
