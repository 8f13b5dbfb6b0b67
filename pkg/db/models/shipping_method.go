package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingMethod is a flat-cost delivery option offered at checkout.
type ShippingMethod struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Identifier      string          `gorm:"column:identifier;not null;uniqueIndex"`
	Carrier         string          `gorm:"column:carrier"`
	DisplayName     string          `gorm:"column:display_name;not null"`
	Cost            decimal.Decimal `gorm:"column:cost;type:numeric(10,2);not null"`
	TrackingURLBase string          `gorm:"column:tracking_url_base"`
	Active          bool            `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
