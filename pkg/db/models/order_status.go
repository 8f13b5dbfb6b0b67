package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is one entry in an order's append-only status history.
type OrderStatus struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	StatusID  uuid.UUID `gorm:"column:status_id;type:uuid;not null"`
	Status    *Status   `gorm:"foreignKey:StatusID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
