package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// Repository reads placed orders. Orders are immutable after checkout, so
// this repository has no write methods.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository bound to the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByIdentifier returns an order with its full graph, or nil when no
// order carries the identifier. Status history loads newest first.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Payment").
		Preload("ShippingAddress").
		Preload("BillingAddress").
		Preload("SKUs", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_skus.created_at ASC")
		}).
		Preload("SKUs.SKU").
		Preload("SKUs.SKU.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sku_images.display_order ASC")
		}).
		Preload("Discounts.DiscountCode").
		Preload("Statuses", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_statuses.created_at DESC")
		}).
		Preload("Statuses.Status").
		Preload("ShippingMethods.ShippingMethod").
		Where("identifier = ?", identifier).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ProductsForSKUs maps SKU ids to their owning products through the join
// table, for display titles on order lines.
func (r *Repository) ProductsForSKUs(ctx context.Context, skuIDs []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	bySKU := make(map[uuid.UUID]models.Product, len(skuIDs))
	if len(skuIDs) == 0 {
		return bySKU, nil
	}
	var links []models.ProductSKU
	err := r.db.WithContext(ctx).
		Where("sku_id IN ?", skuIDs).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	productIDs := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		productIDs = append(productIDs, link.ProductID)
	}
	if len(productIDs) == 0 {
		return bySKU, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byProduct[product.ID] = product
	}
	for _, link := range links {
		if product, ok := byProduct[link.ProductID]; ok {
			bySKU[link.SKUID] = product
		}
	}
	return bySKU, nil
}
