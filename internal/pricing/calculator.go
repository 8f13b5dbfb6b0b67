package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

// FreeShippingMethodIdentifier is the only shipping method a free-shipping
// code discounts. Carrier-billed methods are excluded from the promotion.
const FreeShippingMethodIdentifier = "USPSRetailGround"

// LineItem is one priced cart line. UnitPrice is the SKU's current price at
// calculation time.
type LineItem struct {
	SKUID     uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Input carries everything the calculator needs. Discounts must be ordered
// by attachment time, oldest first.
type Input struct {
	Items          []LineItem
	Discounts      []models.DiscountCode
	ShippingMethod *models.ShippingMethod
	Now            time.Time
}

// Totals is the full price breakdown for a cart or order.
type Totals struct {
	Subtotal         decimal.Decimal
	ItemDiscount     decimal.Decimal
	ShippingCost     decimal.Decimal
	ShippingDiscount decimal.Decimal
	Total            decimal.Decimal

	// Applied records, per discount code, whether it was applied to the
	// breakdown. Order materialization copies these flags onto the
	// order's discount rows.
	Applied map[string]bool
}

// Calculate produces the price breakdown. The first active non-combinable
// item-total code whose order minimum is met wins; later non-combinable
// codes are skipped. Combinable codes are marked applied but do not reduce
// the total. A shipping code zeroes the shipping cost only for the
// USPSRetailGround method.
func Calculate(in Input) Totals {
	totals := Totals{
		Subtotal:         decimal.Zero,
		ItemDiscount:     decimal.Zero,
		ShippingCost:     decimal.Zero,
		ShippingDiscount: decimal.Zero,
		Applied:          make(map[string]bool, len(in.Discounts)),
	}

	for _, item := range in.Items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totals.Subtotal = totals.Subtotal.Add(line)
	}

	if in.ShippingMethod != nil {
		totals.ShippingCost = in.ShippingMethod.Cost
	}

	itemDiscountTaken := false
	for i := range in.Discounts {
		code := &in.Discounts[i]
		totals.Applied[code.Code] = false
		if !code.ActiveAt(in.Now) {
			continue
		}
		switch code.AppliesTo {
		case enums.DiscountAppliesToItemTotal:
			if totals.Subtotal.LessThan(code.OrderMinimum) {
				continue
			}
			reduction := itemReduction(code, totals.Subtotal)
			if code.Combinable {
				totals.Applied[code.Code] = true
				continue
			}
			if itemDiscountTaken {
				continue
			}
			totals.ItemDiscount = reduction
			totals.Applied[code.Code] = true
			itemDiscountTaken = true
		case enums.DiscountAppliesToShipping:
			if totals.Subtotal.LessThan(code.OrderMinimum) {
				continue
			}
			if in.ShippingMethod == nil || in.ShippingMethod.Identifier != FreeShippingMethodIdentifier {
				continue
			}
			totals.ShippingDiscount = totals.ShippingCost
			totals.Applied[code.Code] = true
		}
	}

	if totals.ItemDiscount.GreaterThan(totals.Subtotal) {
		totals.ItemDiscount = totals.Subtotal
	}

	totals.Total = totals.Subtotal.
		Sub(totals.ItemDiscount).
		Add(totals.ShippingCost).
		Sub(totals.ShippingDiscount).
		Round(2)
	return totals
}

func itemReduction(code *models.DiscountCode, subtotal decimal.Decimal) decimal.Decimal {
	switch code.Action {
	case enums.DiscountActionPercentOff:
		return subtotal.Mul(code.Amount).Div(decimal.NewFromInt(100)).Round(2)
	case enums.DiscountActionDollarAmtOff:
		return code.Amount
	default:
		return decimal.Zero
	}
}
