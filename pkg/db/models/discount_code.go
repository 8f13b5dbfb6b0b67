package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

// DiscountCode is a redeemable promotion. AppliesTo and Action are typed so
// unknown combinations are rejected at the edge instead of silently ignored
// by the pricing pass.
type DiscountCode struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code         string                  `gorm:"column:code;not null;uniqueIndex"`
	Description  string                  `gorm:"column:description"`
	AppliesTo    enums.DiscountAppliesTo `gorm:"column:applies_to;not null"`
	Action       enums.DiscountAction    `gorm:"column:action;not null"`
	Amount       decimal.Decimal         `gorm:"column:amount;type:numeric(10,2);not null"`
	OrderMinimum decimal.Decimal         `gorm:"column:order_minimum;type:numeric(10,2);not null;default:0"`
	Combinable   bool                    `gorm:"column:combinable;not null;default:false"`
	StartsAt     time.Time               `gorm:"column:starts_at;not null"`
	EndsAt       time.Time               `gorm:"column:ends_at;not null"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether the code's validity window covers the instant.
// The window is inclusive of the start and exclusive of the end.
func (d *DiscountCode) ActiveAt(now time.Time) bool {
	if d == nil {
		return false
	}
	return !now.Before(d.StartsAt) && now.Before(d.EndsAt)
}
