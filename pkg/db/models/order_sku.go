package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderSKU freezes one cart line at checkout. PriceEach is the price in
// effect when the order was placed; later SKUPrice rows never touch it.
type OrderSKU struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	SKUID     uuid.UUID       `gorm:"column:sku_id;type:uuid;not null"`
	SKU       *SKU            `gorm:"foreignKey:SKUID"`
	Quantity  int             `gorm:"column:quantity;not null"`
	PriceEach decimal.Decimal `gorm:"column:price_each;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
