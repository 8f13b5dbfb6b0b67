package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single mutable aggregate in the system. It belongs to exactly
// one identity: a member or an anonymous browser keyed by AnonymousCartID.
// Version guards concurrent mutation; every write goes through a
// compare-and-swap on it.
type Cart struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID        *uuid.UUID          `gorm:"column:member_id;type:uuid;index"`
	AnonymousCartID *string             `gorm:"column:anonymous_cart_id;index"`
	Version         int64               `gorm:"column:version;not null;default:0"`
	SKUs            []CartSKU           `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Discounts       []CartDiscount      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ShippingMethod  *CartShippingMethod `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Payment         *CartPayment        `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ShippingAddress *CartShippingAddress `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
