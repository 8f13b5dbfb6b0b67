package models

import (
	"time"

	"github.com/google/uuid"
)

// CartPayment snapshots the card metadata captured during checkout, before
// the order exists. Only non-sensitive display fields are stored.
type CartPayment struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID              uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex"`
	StripeCustomerToken string    `gorm:"column:stripe_customer_token"`
	CardBrand           string    `gorm:"column:card_brand"`
	CardLast4           string    `gorm:"column:card_last4"`
	CardExpMonth        int       `gorm:"column:card_exp_month"`
	CardExpYear         int       `gorm:"column:card_exp_year"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
