package service

import (
	"context"
	"strings"

	"github.com/RF-YVY/HustleNest/internal/apperr"
	"github.com/RF-YVY/HustleNest/internal/model"
	"github.com/RF-YVY/HustleNest/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProductInput carries an explicit product create/update. Zero-value costs
// are stored as zero; negative ones are rejected.
type ProductInput struct {
	SKU               string                `json:"sku" binding:"required"`
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	PhotoPath         string                `json:"photo_path"`
	InventoryCount    int                   `json:"inventory_count"`
	Status            string                `json:"status"`
	BaseUnitCost      float64               `json:"base_unit_cost"`
	DefaultUnitPrice  float64               `json:"default_unit_price"`
	PricingComponents []model.CostComponent `json:"pricing_components"`
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	// EnsureProduct resolves or creates a product stub by SKU, backfilling a
	// missing status with the first suggested option.
	EnsureProduct(ctx context.Context, sku, name string) (*model.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ProductStatuses() []string
}

type productService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to list products")
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid product id")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}
	return product, nil
}

func (s *productService) EnsureProduct(ctx context.Context, sku, name string) (*model.Product, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, apperr.Validation("SKU is required")
	}
	product, err := s.products.Ensure(ctx, sku, name)
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}
	if product.Status == "" {
		product.Status = model.ProductStatusOrdered
		if err := s.products.Update(ctx, product); err != nil {
			return nil, apperr.FromDB(err, "product not found")
		}
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := &model.Product{}
	applyProductInput(product, input)
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}
	log.Info().Str("sku", product.SKU).Msg("product created")
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductInput(product, input)
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		return apperr.Storage(err, "failed to delete product")
	}
	log.Info().Str("sku", product.SKU).Msg("product deleted")
	return nil
}

func (s *productService) ProductStatuses() []string {
	return model.ProductStatuses()
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.SKU) == "" {
		return apperr.Validation("SKU is required")
	}
	if input.DefaultUnitPrice < 0 {
		return apperr.Validation("default unit price cannot be negative")
	}
	for _, component := range input.PricingComponents {
		if component.Amount < 0 {
			return apperr.Validation("cost component %q cannot be negative", component.Label)
		}
	}
	return nil
}

func applyProductInput(product *model.Product, input ProductInput) {
	product.SKU = strings.ToUpper(strings.TrimSpace(input.SKU))
	product.Name = strings.TrimSpace(input.Name)
	if product.Name == "" {
		product.Name = product.SKU
	}
	product.Description = strings.TrimSpace(input.Description)
	product.PhotoPath = strings.TrimSpace(input.PhotoPath)
	product.InventoryCount = input.InventoryCount
	if product.InventoryCount < 0 {
		product.InventoryCount = 0
	}
	product.Status = model.NormalizeProductStatus(input.Status)
	product.BaseUnitCost = input.BaseUnitCost
	if product.BaseUnitCost < 0 {
		product.BaseUnitCost = 0
	}
	product.DefaultUnitPrice = input.DefaultUnitPrice
	product.PricingComponents = input.PricingComponents
	// Completion is derived, never set directly.
	product.IsComplete = product.Description != "" && product.PhotoPath != ""
}
