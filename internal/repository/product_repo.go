package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/RF-YVY/HustleNest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	// Ensure resolves a product by SKU, creating a stub when absent.
	Ensure(ctx context.Context, sku, name string) (*model.Product, error)
	// AdjustInventory atomically adds delta to the on-hand count, clamped at
	// zero. This is the only sanctioned path for order-driven stock changes.
	AdjustInventory(ctx context.Context, sku string, delta int) error
	// SetInventory overwrites the on-hand count from an explicit product
	// edit. It does not flow through the ledger clamp semantics.
	SetInventory(ctx context.Context, sku string, count int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	product.SKU = normalizeSKU(product.SKU)
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	product.SKU = normalizeSKU(product.SKU)
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	sku = normalizeSKU(sku)
	if sku == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var product model.Product
	if err := GetDB(ctx, r.db).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := GetDB(ctx, r.db).Order("sku ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Ensure(ctx context.Context, sku, name string) (*model.Product, error) {
	sku = normalizeSKU(sku)
	if sku == "" {
		return nil, gorm.ErrRecordNotFound
	}

	existing, err := r.FindBySKU(ctx, sku)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = sku
	}
	product := model.Product{
		SKU:    sku,
		Name:   name,
		Status: model.ProductStatusOrdered,
	}
	if createErr := GetDB(ctx, r.db).Create(&product).Error; createErr != nil {
		// A concurrent ensure may have won the insert; fall back to the row.
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return r.FindBySKU(ctx, sku)
		}
		return nil, createErr
	}
	return &product, nil
}

func (r *productRepository) AdjustInventory(ctx context.Context, sku string, delta int) error {
	sku = normalizeSKU(sku)
	if sku == "" || delta == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Model(&model.Product{}).
		Where("sku = ?", sku).
		Update("inventory_count", gorm.Expr("GREATEST(0, inventory_count + ?)", delta)).Error
}

func (r *productRepository) SetInventory(ctx context.Context, sku string, count int) error {
	sku = normalizeSKU(sku)
	if sku == "" {
		return nil
	}
	if count < 0 {
		count = 0
	}
	return GetDB(ctx, r.db).Model(&model.Product{}).
		Where("sku = ?", sku).
		Update("inventory_count", count).Error
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
