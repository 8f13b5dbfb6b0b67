package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/startupwebapp/storefront-backend/internal/identity"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
)

// ItemView is one frozen order line.
type ItemView struct {
	SKUID        string          `json:"sku_id"`
	ProductTitle string          `json:"product_title"`
	Color        string          `json:"color,omitempty"`
	Size         string          `json:"size,omitempty"`
	Quantity     int             `json:"quantity"`
	PriceEach    decimal.Decimal `json:"price_each"`
	LineTotal    decimal.Decimal `json:"line_total"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// DiscountView is one discount code recorded on the order.
type DiscountView struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Combinable  bool   `json:"combinable"`
	Applied     bool   `json:"applied"`
}

// StatusView is one status history entry.
type StatusView struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ShippingView is the frozen delivery selection.
type ShippingView struct {
	DisplayName    string          `json:"display_name"`
	Carrier        string          `json:"carrier,omitempty"`
	Cost           decimal.Decimal `json:"cost"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	TrackingURL    string          `json:"tracking_url,omitempty"`
}

// AddressView is a frozen order address.
type AddressView struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentView carries the non-sensitive card display fields.
type PaymentView struct {
	CardBrand    string `json:"card_brand,omitempty"`
	CardLast4    string `json:"card_last4,omitempty"`
	CardExpMonth int    `json:"card_exp_month,omitempty"`
	CardExpYear  int    `json:"card_exp_year,omitempty"`
}

// DetailView is the full order payload.
type DetailView struct {
	Identifier       string          `json:"order_identifier"`
	OrderedAt        time.Time       `json:"ordered_at"`
	Items            []ItemView      `json:"items"`
	Discounts        []DiscountView  `json:"discounts"`
	Statuses         []StatusView    `json:"statuses"`
	Shipping         *ShippingView   `json:"shipping,omitempty"`
	ShippingAddress  *AddressView    `json:"shipping_address,omitempty"`
	BillingAddress   *AddressView    `json:"billing_address,omitempty"`
	Payment          *PaymentView    `json:"payment,omitempty"`
	ItemSubtotal     decimal.Decimal `json:"item_subtotal"`
	ItemDiscount     decimal.Decimal `json:"item_discount"`
	ShippingSubtotal decimal.Decimal `json:"shipping_subtotal"`
	ShippingDiscount decimal.Decimal `json:"shipping_discount"`
	Total            decimal.Decimal `json:"order_total"`
}

// Service exposes reads over placed orders.
type Service interface {
	Detail(ctx context.Context, caller identity.Identity, orderIdentifier string) (*DetailView, error)
}

type service struct {
	repo *Repository
}

// NewService builds the orders read service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// Detail returns the order when the caller is allowed to see it. Members see
// only their own orders; anonymous callers see only prospect orders.
func (s *service) Detail(ctx context.Context, caller identity.Identity, orderIdentifier string) (*DetailView, error) {
	orderIdentifier = strings.TrimSpace(orderIdentifier)
	if orderIdentifier == "" {
		return nil, apperrors.New(apperrors.CodeNotFound, "order-not-found")
	}
	order, err := s.repo.FindByIdentifier(ctx, orderIdentifier)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "order-not-found")
	}
	if err := authorize(caller, order); err != nil {
		return nil, err
	}

	skuIDs := make([]uuid.UUID, 0, len(order.SKUs))
	for _, line := range order.SKUs {
		skuIDs = append(skuIDs, line.SKUID)
	}
	products, err := s.repo.ProductsForSKUs(ctx, skuIDs)
	if err != nil {
		return nil, err
	}
	return detailView(order, products), nil
}

func authorize(caller identity.Identity, order *models.Order) error {
	purchaser, ok := order.Purchaser()
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "order-not-found")
	}
	if caller.IsMember() {
		if purchaser.Kind != enums.PurchaserMember || purchaser.MemberID != *caller.MemberID {
			return apperrors.New(apperrors.CodeForbidden, "order-not-in-account")
		}
		return nil
	}
	if purchaser.Kind == enums.PurchaserMember {
		return apperrors.New(apperrors.CodeUnauthorized, "log-in-required-to-view-order")
	}
	return nil
}

func detailView(order *models.Order, products map[uuid.UUID]models.Product) *DetailView {
	view := &DetailView{
		Identifier:       order.Identifier,
		OrderedAt:        order.OrderedAt,
		Items:            make([]ItemView, 0, len(order.SKUs)),
		Discounts:        make([]DiscountView, 0, len(order.Discounts)),
		Statuses:         make([]StatusView, 0, len(order.Statuses)),
		ItemSubtotal:     order.ItemSubtotal,
		ItemDiscount:     order.ItemDiscount,
		ShippingSubtotal: order.ShippingSubtotal,
		ShippingDiscount: order.ShippingDiscount,
		Total:            order.Total,
	}

	for _, line := range order.SKUs {
		item := ItemView{
			SKUID:     line.SKUID.String(),
			Quantity:  line.Quantity,
			PriceEach: line.PriceEach,
			LineTotal: line.PriceEach.Mul(decimal.NewFromInt(int64(line.Quantity))),
		}
		if product, ok := products[line.SKUID]; ok {
			item.ProductTitle = product.Title
		}
		if line.SKU != nil {
			item.Color = line.SKU.Color
			item.Size = line.SKU.Size
			if len(line.SKU.Images) > 0 {
				item.ImageURL = line.SKU.Images[0].URL
			}
		}
		view.Items = append(view.Items, item)
	}

	for _, attached := range order.Discounts {
		if attached.DiscountCode == nil {
			continue
		}
		view.Discounts = append(view.Discounts, DiscountView{
			Code:        attached.DiscountCode.Code,
			Description: attached.DiscountCode.Description,
			Combinable:  attached.DiscountCode.Combinable,
			Applied:     attached.Applied,
		})
	}

	for _, entry := range order.Statuses {
		if entry.Status == nil {
			continue
		}
		view.Statuses = append(view.Statuses, StatusView{
			Name:      entry.Status.Name,
			CreatedAt: entry.CreatedAt,
		})
	}

	if len(order.ShippingMethods) > 0 {
		selected := order.ShippingMethods[0]
		shipping := &ShippingView{
			Cost:           selected.Cost,
			TrackingNumber: selected.TrackingNumber,
		}
		if selected.ShippingMethod != nil {
			shipping.DisplayName = selected.ShippingMethod.DisplayName
			shipping.Carrier = selected.ShippingMethod.Carrier
			if selected.TrackingNumber != "" && selected.ShippingMethod.TrackingURLBase != "" {
				shipping.TrackingURL = selected.ShippingMethod.TrackingURLBase + selected.TrackingNumber
			}
		}
		view.Shipping = shipping
	}

	if order.ShippingAddress != nil {
		view.ShippingAddress = addressView(
			order.ShippingAddress.Name, order.ShippingAddress.Line1, order.ShippingAddress.Line2,
			order.ShippingAddress.City, order.ShippingAddress.State,
			order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
		)
	}
	if order.BillingAddress != nil {
		view.BillingAddress = addressView(
			order.BillingAddress.Name, order.BillingAddress.Line1, order.BillingAddress.Line2,
			order.BillingAddress.City, order.BillingAddress.State,
			order.BillingAddress.PostalCode, order.BillingAddress.Country,
		)
	}
	if order.Payment != nil {
		view.Payment = &PaymentView{
			CardBrand:    order.Payment.CardBrand,
			CardLast4:    order.Payment.CardLast4,
			CardExpMonth: order.Payment.CardExpMonth,
			CardExpYear:  order.Payment.CardExpYear,
		}
	}
	return view
}

func addressView(name, line1, line2, city, state, postalCode, country string) *AddressView {
	return &AddressView{
		Name:       name,
		Line1:      line1,
		Line2:      line2,
		City:       city,
		State:      state,
		PostalCode: postalCode,
		Country:    country,
	}
}
