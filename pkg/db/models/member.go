package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is a registered account. MbCd is the opaque code embedded in
// account-related email links.
type Member struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username            string     `gorm:"column:username;not null;uniqueIndex"`
	Email               string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash        string     `gorm:"column:password_hash;not null"`
	EmailVerified       bool       `gorm:"column:email_verified;not null;default:false"`
	VerificationString  string     `gorm:"column:verification_string"`
	PasswordResetString string     `gorm:"column:password_reset_string"`
	UnsubscribeString   string     `gorm:"column:unsubscribe_string"`
	Unsubscribed        bool       `gorm:"column:unsubscribed;not null;default:false"`
	MbCd                string     `gorm:"column:mb_cd;not null;uniqueIndex"`
	StripeCustomerToken string     `gorm:"column:stripe_customer_token"`
	LastLoginAt         *time.Time `gorm:"column:last_login_at"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
