package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage is a gallery image attached to a product page.
type ProductImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	URL          string    `gorm:"column:url;not null"`
	AltText      string    `gorm:"column:alt_text"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
