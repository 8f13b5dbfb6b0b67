package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable catalog entry. Identifier is the stable external
// handle used in storefront URLs and API lookups.
type Product struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title               string         `gorm:"column:title;not null"`
	TitleURL            string         `gorm:"column:title_url;not null"`
	Identifier          string         `gorm:"column:identifier;not null;uniqueIndex"`
	Headline            string         `gorm:"column:headline"`
	DescriptionPart1    string         `gorm:"column:description_part_1"`
	DescriptionPart2    string         `gorm:"column:description_part_2"`
	Active              bool           `gorm:"column:active;not null;default:true"`
	DisplayOrder        int            `gorm:"column:display_order;not null;default:0"`
	Images              []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Videos              []ProductVideo `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	SKUs                []ProductSKU   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
