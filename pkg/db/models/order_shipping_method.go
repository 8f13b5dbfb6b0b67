package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderShippingMethod freezes the delivery selection at checkout and later
// carries the tracking number once the parcel ships.
type OrderShippingMethod struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ShippingMethodID uuid.UUID       `gorm:"column:shipping_method_id;type:uuid;not null"`
	ShippingMethod   *ShippingMethod `gorm:"foreignKey:ShippingMethodID"`
	Cost             decimal.Decimal `gorm:"column:cost;type:numeric(10,2);not null"`
	TrackingNumber   string          `gorm:"column:tracking_number"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
