package cart

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// DiscountCodeRepository looks up redeemable discount codes.
type DiscountCodeRepository struct {
	db *gorm.DB
}

// NewDiscountCodeRepository builds a DiscountCodeRepository.
func NewDiscountCodeRepository(db *gorm.DB) *DiscountCodeRepository {
	return &DiscountCodeRepository{db: db}
}

// FindByCode returns the discount code row, or nil when unknown.
func (r *DiscountCodeRepository) FindByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var row models.DiscountCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
