package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/startupwebapp/storefront-backend/internal/pricing"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// ItemView is one cart line rendered for the storefront.
type ItemView struct {
	SKUID        string          `json:"sku_id"`
	ProductTitle string          `json:"product_title"`
	Description  string          `json:"description,omitempty"`
	Color        string          `json:"color,omitempty"`
	Size         string          `json:"size,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// ShippingMethodView is one selectable delivery option.
type ShippingMethodView struct {
	Identifier  string          `json:"identifier"`
	DisplayName string          `json:"display_name"`
	Carrier     string          `json:"carrier,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	Selected    bool            `json:"selected"`
}

// DiscountView is one attached discount code with its applicability.
type DiscountView struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Combinable  bool   `json:"combinable"`
	Applied     bool   `json:"discount_applied"`
}

// TotalsView is the cart's price breakdown.
type TotalsView struct {
	ItemSubtotal     decimal.Decimal `json:"item_subtotal"`
	ItemDiscount     decimal.Decimal `json:"item_discount"`
	ShippingSubtotal decimal.Decimal `json:"shipping_subtotal"`
	ShippingDiscount decimal.Decimal `json:"shipping_discount"`
	CartTotal        decimal.Decimal `json:"cart_total"`
}

// PricingInput converts a loaded cart graph into calculator input. Checkout
// reuses it so order totals match what the cart showed.
func PricingInput(cart *models.Cart, now time.Time) pricing.Input {
	input := pricing.Input{Now: now}
	if cart == nil {
		return input
	}
	for _, line := range cart.SKUs {
		unitPrice := decimal.Zero
		if line.SKU != nil {
			if price := line.SKU.CurrentPrice(); price != nil {
				unitPrice = price.Price
			}
		}
		input.Items = append(input.Items, pricing.LineItem{
			SKUID:     line.SKUID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
	}
	for _, attached := range cart.Discounts {
		if attached.DiscountCode != nil {
			input.Discounts = append(input.Discounts, *attached.DiscountCode)
		}
	}
	if cart.ShippingMethod != nil {
		input.ShippingMethod = cart.ShippingMethod.ShippingMethod
	}
	return input
}

func totalsView(totals pricing.Totals) TotalsView {
	return TotalsView{
		ItemSubtotal:     totals.Subtotal,
		ItemDiscount:     totals.ItemDiscount,
		ShippingSubtotal: totals.ShippingCost,
		ShippingDiscount: totals.ShippingDiscount,
		CartTotal:        totals.Total,
	}
}

func itemViews(cart *models.Cart, products map[uuid.UUID]models.Product) []ItemView {
	if cart == nil {
		return []ItemView{}
	}
	views := make([]ItemView, 0, len(cart.SKUs))
	for _, line := range cart.SKUs {
		view := ItemView{
			SKUID:     line.SKUID.String(),
			Quantity:  line.Quantity,
			UnitPrice: decimal.Zero,
			LineTotal: decimal.Zero,
		}
		if product, ok := products[line.SKUID]; ok {
			view.ProductTitle = product.Title
		}
		if line.SKU != nil {
			view.Description = line.SKU.Description
			view.Color = line.SKU.Color
			view.Size = line.SKU.Size
			if price := line.SKU.CurrentPrice(); price != nil {
				view.UnitPrice = price.Price
				view.LineTotal = price.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			}
			if len(line.SKU.Images) > 0 {
				view.ImageURL = line.SKU.Images[0].URL
			}
		}
		views = append(views, view)
	}
	return views
}

func discountViews(cart *models.Cart, applied map[string]bool) []DiscountView {
	if cart == nil {
		return []DiscountView{}
	}
	views := make([]DiscountView, 0, len(cart.Discounts))
	for _, attached := range cart.Discounts {
		if attached.DiscountCode == nil {
			continue
		}
		views = append(views, DiscountView{
			Code:        attached.DiscountCode.Code,
			Description: attached.DiscountCode.Description,
			Combinable:  attached.DiscountCode.Combinable,
			Applied:     applied[attached.DiscountCode.Code],
		})
	}
	return views
}
