package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// Repository persists the cart aggregate and its child rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository bound to the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a Repository bound to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) preloadGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("SKUs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("SKUs.SKU.Prices").
		Preload("SKUs.SKU.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Discounts.DiscountCode").
		Preload("ShippingMethod.ShippingMethod").
		Preload("Payment").
		Preload("ShippingAddress")
}

// FindByMember returns the member's cart with its full graph, or nil.
func (r *Repository) FindByMember(ctx context.Context, memberID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.preloadGraph(r.db.WithContext(ctx)).
		Where("member_id = ?", memberID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// FindByAnonymousID returns the anonymous cart with its full graph, or nil.
func (r *Repository) FindByAnonymousID(ctx context.Context, anonymousID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.preloadGraph(r.db.WithContext(ctx)).
		Where("anonymous_cart_id = ?", anonymousID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create inserts a new empty cart.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(cart).Error
}

// BumpVersion performs the optimistic concurrency check. It succeeds only
// when the stored version still matches the one the caller loaded.
func (r *Repository) BumpVersion(ctx context.Context, cartID uuid.UUID, fromVersion int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ? AND version = ?", cartID, fromVersion).
		Update("version", fromVersion+1)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the cart and all of its child rows.
func (r *Repository) Delete(ctx context.Context, cartID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	for _, child := range []any{
		&models.CartSKU{},
		&models.CartDiscount{},
		&models.CartShippingMethod{},
		&models.CartPayment{},
		&models.CartShippingAddress{},
	} {
		if err := db.Where("cart_id = ?", cartID).Delete(child).Error; err != nil {
			return err
		}
	}
	return db.Where("id = ?", cartID).Delete(&models.Cart{}).Error
}

// FindLine returns the cart's line for a SKU, or nil.
func (r *Repository) FindLine(ctx context.Context, cartID, skuID uuid.UUID) (*models.CartSKU, error) {
	var line models.CartSKU
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND sku_id = ?", cartID, skuID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// SaveLine inserts or updates one cart line.
func (r *Repository) SaveLine(ctx context.Context, line *models.CartSKU) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(line).Error
}

// DeleteLine removes one cart line.
func (r *Repository) DeleteLine(ctx context.Context, cartID, skuID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND sku_id = ?", cartID, skuID).
		Delete(&models.CartSKU{}).Error
}

// AddDiscount attaches a discount code to the cart.
func (r *Repository) AddDiscount(ctx context.Context, row *models.CartDiscount) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// RemoveDiscount detaches a discount code from the cart.
func (r *Repository) RemoveDiscount(ctx context.Context, cartID, discountCodeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND discount_code_id = ?", cartID, discountCodeID).
		Delete(&models.CartDiscount{}).Error
}

// SetShippingMethod replaces the cart's shipping-method selection.
func (r *Repository) SetShippingMethod(ctx context.Context, cartID, shippingMethodID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartShippingMethod{}).Error; err != nil {
		return err
	}
	return db.Create(&models.CartShippingMethod{
		ID:               uuid.New(),
		CartID:           cartID,
		ShippingMethodID: shippingMethodID,
	}).Error
}

// ProductsForSKUs resolves each SKU to its owning product, for display
// alongside cart lines.
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

// ClearShippingMethod drops the cart's shipping-method selection.
func (r *Repository) ClearShippingMethod(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartShippingMethod{}).Error
}
