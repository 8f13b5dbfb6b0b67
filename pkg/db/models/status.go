package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is a lookup row naming an order lifecycle stage. Stages are data,
// not code: operations staff add rows without a deploy.
type Status struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
