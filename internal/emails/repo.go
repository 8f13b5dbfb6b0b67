package emails

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// Repository reads templates and records delivery bookkeeping.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository bound to the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindTemplate returns the template for a template code, or nil.
func (r *Repository) FindTemplate(ctx context.Context, emCd string) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	err := r.db.WithContext(ctx).Where("em_cd = ?", emCd).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// CreateEmailSent logs one delivered message.
func (r *Repository) CreateEmailSent(ctx context.Context, sent *models.EmailSent) error {
	if sent.ID == uuid.Nil {
		sent.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(sent).Error
}

// RecordFailure writes a post-order audit row for a broken delivery.
func (r *Repository) RecordFailure(ctx context.Context, failure *models.OrderEmailFailure) error {
	if failure.ID == uuid.Nil {
		failure.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(failure).Error
}

// FindOrder returns the order with the graph the confirmation email needs,
// or nil.
func (r *Repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Payment").
		Preload("ShippingAddress").
		Preload("BillingAddress").
		Preload("SKUs", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_skus.created_at ASC")
		}).
		Preload("SKUs.SKU").
		Preload("Discounts.DiscountCode").
		Preload("ShippingMethods.ShippingMethod").
		Where("id = ?", id).
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
// table, keyed by SKU id string.
func (r *Repository) ProductsForSKUs(ctx context.Context, skuIDs []uuid.UUID) (map[string]models.Product, error) {
	bySKU := make(map[string]models.Product, len(skuIDs))
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
			bySKU[link.SKUID.String()] = product
		}
	}
	return bySKU, nil
}

// FindMember returns the member row, or nil.
func (r *Repository) FindMember(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// FindProspect returns the prospect row, or nil.
func (r *Repository) FindProspect(ctx context.Context, id uuid.UUID) (*models.Prospect, error) {
	var prospect models.Prospect
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&prospect).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prospect, nil
}
