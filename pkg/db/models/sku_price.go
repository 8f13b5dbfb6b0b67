package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SKUPrice is an append-only price history row. Price changes insert a new
// row rather than mutating the old one, so historical orders stay auditable.
type SKUPrice struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKUID     uuid.UUID       `gorm:"column:sku_id;type:uuid;not null;index"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
