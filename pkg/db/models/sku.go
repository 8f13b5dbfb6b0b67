package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

// SKU is a concrete purchasable variant. Prices live in SKUPrice history
// rows; the latest row is authoritative.
type SKU struct {
	ID              uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type            string                   `gorm:"column:type"`
	InventoryStatus enums.SKUInventoryStatus `gorm:"column:inventory_status;not null;default:'available'"`
	Color           string                   `gorm:"column:color"`
	Size            string                   `gorm:"column:size"`
	Description     string                   `gorm:"column:description"`
	Prices          []SKUPrice               `gorm:"foreignKey:SKUID;constraint:OnDelete:CASCADE"`
	Images          []SKUImage               `gorm:"foreignKey:SKUID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// CurrentPrice returns the most recently created price row, or nil when the
// SKU has never been priced.
func (s *SKU) CurrentPrice() *SKUPrice {
	if s == nil || len(s.Prices) == 0 {
		return nil
	}
	latest := &s.Prices[0]
	for i := range s.Prices {
		if s.Prices[i].CreatedAt.After(latest.CreatedAt) {
			latest = &s.Prices[i]
		}
	}
	return latest
}
