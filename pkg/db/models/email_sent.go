package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailSent logs one delivered message to a member or a prospect.
type EmailSent struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID        *uuid.UUID `gorm:"column:member_id;type:uuid;index"`
	ProspectID      *uuid.UUID `gorm:"column:prospect_id;type:uuid;index"`
	EmailTemplateID uuid.UUID  `gorm:"column:email_template_id;type:uuid;not null"`
	SentAt          time.Time  `gorm:"column:sent_at;not null"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
}
