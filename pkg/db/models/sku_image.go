package models

import (
	"time"

	"github.com/google/uuid"
)

// SKUImage is a variant-specific image, shown when the SKU is selected.
type SKUImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKUID        uuid.UUID `gorm:"column:sku_id;type:uuid;not null;index"`
	URL          string    `gorm:"column:url;not null"`
	AltText      string    `gorm:"column:alt_text"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides gorm's default pluralization, which turns SKUImage
// into "sk_uimages" instead of the schema's "sku_images".
func (SKUImage) TableName() string {
	return "sku_images"
}
