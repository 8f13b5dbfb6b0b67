package models

import (
	"time"

	"github.com/google/uuid"
)

// CartShippingAddress holds the destination captured during checkout.
type CartShippingAddress struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID     uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex"`
	Name       string    `gorm:"column:name"`
	Line1      string    `gorm:"column:line1"`
	Line2      string    `gorm:"column:line2"`
	City       string    `gorm:"column:city"`
	State      string    `gorm:"column:state"`
	PostalCode string    `gorm:"column:postal_code"`
	Country    string    `gorm:"column:country"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
