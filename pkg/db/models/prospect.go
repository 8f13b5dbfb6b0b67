package models

import (
	"time"

	"github.com/google/uuid"
)

// Prospect is an email-only identity captured for anonymous purchases.
// When the prospect later registers, ConvertedAt marks the promotion.
type Prospect struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email             string     `gorm:"column:email;not null;uniqueIndex"`
	PrCd              string     `gorm:"column:pr_cd;not null;uniqueIndex"`
	UnsubscribeString string     `gorm:"column:unsubscribe_string"`
	Unsubscribed      bool       `gorm:"column:unsubscribed;not null;default:false"`
	Comment           string     `gorm:"column:comment"`
	ConvertedAt       *time.Time `gorm:"column:converted_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
}
