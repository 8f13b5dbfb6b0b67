package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderConfiguration is a key/value row steering checkout behavior. Rows
// are loaded into orderconfig.Snapshot; nothing reads them ad hoc.
type OrderConfiguration struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key         string    `gorm:"column:key;not null;uniqueIndex"`
	StringValue string    `gorm:"column:string_value"`
	FloatValue  *float64  `gorm:"column:float_value"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
