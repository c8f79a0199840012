package service

import (
	"context"

	"brandeduk-store/models"
)

// ProductsServiceInterface defines the contract for the storefront
// products API client
type ProductsServiceInterface interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, code string) (*models.Product, error)
	SubmitContact(ctx context.Context, req models.ContactRequest) error
}
