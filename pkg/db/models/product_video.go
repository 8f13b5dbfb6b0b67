package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVideo is an embedded video attached to a product page.
type ProductVideo struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	URL          string    `gorm:"column:url;not null"`
	Caption      string    `gorm:"column:caption"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
