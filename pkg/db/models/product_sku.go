package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductSKU links a product to one of its sellable SKUs.
type ProductSKU struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_product_skus_product_sku"`
	SKUID     uuid.UUID `gorm:"column:sku_id;type:uuid;not null;uniqueIndex:ux_product_skus_product_sku"`
	SKU       *SKU      `gorm:"foreignKey:SKUID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
