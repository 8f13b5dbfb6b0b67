package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// Repository reads catalog rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository bound to the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveProducts returns active products ordered for display, with
// gallery images preloaded.
func (r *Repository) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("display_order ASC").
		Order("title ASC").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Find(&products).Error
	return products, err
}

// FindProductByIdentifier returns one active product with its full detail
// graph: images, videos, and SKUs with price history and variant images.
func (r *Repository) FindProductByIdentifier(ctx context.Context, identifier string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND active = ?", identifier, true).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("SKUs.SKU.Prices").
		Preload("SKUs.SKU.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindSKU returns one SKU with its price history, or nil when absent.
func (r *Repository) FindSKU(ctx context.Context, id string) (*models.SKU, error) {
	var sku models.SKU
	err := r.db.WithContext(ctx).
		Preload("Prices").
		Where("id = ?", id).
		First(&sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sku, nil
}
