package cart

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// ShippingMethodRepository reads the shipping-method catalog.
type ShippingMethodRepository struct {
	db *gorm.DB
}

// NewShippingMethodRepository builds a ShippingMethodRepository.
func NewShippingMethodRepository(db *gorm.DB) *ShippingMethodRepository {
	return &ShippingMethodRepository{db: db}
}

// ListActive returns selectable methods, most expensive first.
func (r *ShippingMethodRepository) ListActive(ctx context.Context) ([]models.ShippingMethod, error) {
	var rows []models.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("cost DESC").
		Find(&rows).Error
	return rows, err
}

// FindByIdentifier returns an active method by identifier, or nil.
func (r *ShippingMethodRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.ShippingMethod, error) {
	var row models.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND active = ?", identifier, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
