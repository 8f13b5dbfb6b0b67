package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

// Order is the immutable record materialized from a cart at checkout.
// Exactly one of MemberID or ProspectID is set; Purchaser exposes the pair
// as a single typed value so callers cannot forget the anonymous case.
type Order struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Identifier        string                `gorm:"column:identifier;not null;uniqueIndex"`
	MemberID          *uuid.UUID            `gorm:"column:member_id;type:uuid;index"`
	ProspectID        *uuid.UUID            `gorm:"column:prospect_id;type:uuid;index"`
	PaymentID         uuid.UUID             `gorm:"column:payment_id;type:uuid;not null"`
	ShippingAddressID uuid.UUID             `gorm:"column:shipping_address_id;type:uuid;not null"`
	BillingAddressID  uuid.UUID             `gorm:"column:billing_address_id;type:uuid;not null"`
	ItemSubtotal      decimal.Decimal       `gorm:"column:item_subtotal;type:numeric(10,2);not null"`
	ItemDiscount      decimal.Decimal       `gorm:"column:item_discount;type:numeric(10,2);not null"`
	ShippingSubtotal  decimal.Decimal       `gorm:"column:shipping_subtotal;type:numeric(10,2);not null"`
	ShippingDiscount  decimal.Decimal       `gorm:"column:shipping_discount;type:numeric(10,2);not null"`
	Total             decimal.Decimal       `gorm:"column:total;type:numeric(10,2);not null"`
	AgreedWithTerms   bool                  `gorm:"column:agreed_with_terms_of_sale;not null"`
	OrderedAt         time.Time             `gorm:"column:ordered_at;not null"`
	Payment           *OrderPayment         `gorm:"foreignKey:PaymentID"`
	ShippingAddress   *OrderShippingAddress `gorm:"foreignKey:ShippingAddressID"`
	BillingAddress    *OrderBillingAddress  `gorm:"foreignKey:BillingAddressID"`
	SKUs              []OrderSKU            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Discounts         []OrderDiscount       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Statuses          []OrderStatus         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingMethods   []OrderShippingMethod `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// Purchaser identifies who placed an order: a member or a prospect.
type Purchaser struct {
	Kind       enums.PurchaserKind
	MemberID   uuid.UUID
	ProspectID uuid.UUID
}

// Purchaser returns the typed identity the order belongs to. Orders with
// neither FK set are corrupt; the second return reports validity.
func (o *Order) Purchaser() (Purchaser, bool) {
	if o == nil {
		return Purchaser{}, false
	}
	switch {
	case o.MemberID != nil:
		return Purchaser{Kind: enums.PurchaserMember, MemberID: *o.MemberID}, true
	case o.ProspectID != nil:
		return Purchaser{Kind: enums.PurchaserProspect, ProspectID: *o.ProspectID}, true
	default:
		return Purchaser{}, false
	}
}
