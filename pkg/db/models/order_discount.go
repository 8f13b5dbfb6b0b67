package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderDiscount records a discount code that was attached to the cart at
// checkout. Applied reports whether the pricing pass actually honored it.
type OrderDiscount struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID     `gorm:"column:order_id;type:uuid;not null;index"`
	DiscountCodeID uuid.UUID     `gorm:"column:discount_code_id;type:uuid;not null"`
	DiscountCode   *DiscountCode `gorm:"foreignKey:DiscountCodeID"`
	Applied        bool          `gorm:"column:applied;not null"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
}
