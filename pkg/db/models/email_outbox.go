package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

// EmailOutbox is a transactional email intent. Rows are inserted in the
// same transaction as the work that requires the email (order placement),
// then delivered by the email worker. A crash between commit and delivery
// leaves a pending row instead of a lost message.
type EmailOutbox struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     *uuid.UUID         `gorm:"column:order_id;type:uuid;index"`
	MemberID    *uuid.UUID         `gorm:"column:member_id;type:uuid"`
	ProspectID  *uuid.UUID         `gorm:"column:prospect_id;type:uuid"`
	EmCd        string             `gorm:"column:em_cd;not null"`
	Recipient   string             `gorm:"column:recipient;not null"`
	Status      enums.OutboxStatus `gorm:"column:status;not null;default:'pending';index"`
	Attempts    int                `gorm:"column:attempts;not null;default:0"`
	LastError   string             `gorm:"column:last_error"`
	DeliveredAt *time.Time         `gorm:"column:delivered_at"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
