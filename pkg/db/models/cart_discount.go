package models

import (
	"time"

	"github.com/google/uuid"
)

// CartDiscount attaches a discount code to a cart. Attachment order matters:
// the pricing pass walks rows oldest-first when deciding which code applies.
type CartDiscount struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID     `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_discounts_cart_code"`
	DiscountCodeID uuid.UUID     `gorm:"column:discount_code_id;type:uuid;not null;uniqueIndex:ux_cart_discounts_cart_code"`
	DiscountCode   *DiscountCode `gorm:"foreignKey:DiscountCodeID"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
}
