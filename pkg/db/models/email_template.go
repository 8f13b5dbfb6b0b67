package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailTemplate is a DB-managed message body. EmCd is the lookup key
// referenced from configuration rows. Bodies use {placeholder} tokens that
// the email renderer substitutes before sending.
type EmailTemplate struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EmCd        string    `gorm:"column:em_cd;not null;uniqueIndex"`
	Subject     string    `gorm:"column:subject;not null"`
	BodyText    string    `gorm:"column:body_text;not null"`
	FromAddress string    `gorm:"column:from_address;not null"`
	BCCAddress  string    `gorm:"column:bcc_address"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
