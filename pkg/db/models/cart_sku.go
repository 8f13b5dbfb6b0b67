package models

import (
	"time"

	"github.com/google/uuid"
)

// CartSKU is one line in a cart. A SKU appears at most once per cart;
// re-adding increments the quantity instead.
type CartSKU struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_skus_cart_sku"`
	SKUID     uuid.UUID `gorm:"column:sku_id;type:uuid;not null;uniqueIndex:ux_cart_skus_cart_sku"`
	SKU       *SKU      `gorm:"foreignKey:SKUID"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
