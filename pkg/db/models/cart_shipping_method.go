package models

import (
	"time"

	"github.com/google/uuid"
)

// CartShippingMethod records the single shipping method selected for a cart.
type CartShippingMethod struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID           uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex"`
	ShippingMethodID uuid.UUID       `gorm:"column:shipping_method_id;type:uuid;not null"`
	ShippingMethod   *ShippingMethod `gorm:"foreignKey:ShippingMethodID"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
