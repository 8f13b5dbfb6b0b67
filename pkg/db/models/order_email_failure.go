package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

// OrderEmailFailure is an audit row written when post-order work fails.
// The order itself is already committed by the time these are recorded.
type OrderEmailFailure struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID              `gorm:"column:order_id;type:uuid;not null;index"`
	FailureType    enums.EmailFailureType `gorm:"column:failure_type;not null"`
	ErrorText      string                 `gorm:"column:error_text"`
	Resolved       bool                   `gorm:"column:resolved;not null;default:false"`
	ResolutionNote string                 `gorm:"column:resolution_note"`
	ResolvedAt     *time.Time             `gorm:"column:resolved_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
}
