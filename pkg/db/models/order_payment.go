package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPayment snapshots the settled payment. StripePaymentIntentID carries
// a unique index and doubles as the idempotency key for order placement: a
// second attempt with the same intent finds the existing row and stops.
type OrderPayment struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StripePaymentIntentID string          `gorm:"column:stripe_payment_intent_id;not null;uniqueIndex:ux_order_payments_intent"`
	StripeCustomerToken   string          `gorm:"column:stripe_customer_token"`
	Amount                decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	CardBrand             string          `gorm:"column:card_brand"`
	CardLast4             string          `gorm:"column:card_last4"`
	CardExpMonth          int             `gorm:"column:card_exp_month"`
	CardExpYear           int             `gorm:"column:card_exp_year"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
}
