package emails

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

const lineBreak = "\r\n"

var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`)

// Render substitutes {placeholder} tokens in a template body. A token left
// unresolved after substitution is a formatting error: the template expects
// a value the caller did not provide.
func Render(body string, values map[string]string) (string, error) {
	for key, value := range values {
		body = strings.ReplaceAll(body, "{"+key+"}", value)
	}
	if leftover := placeholderPattern.FindString(body); leftover != "" {
		return "", fmt.Errorf("unresolved template placeholder %s", leftover)
	}
	return body, nil
}

// formatUSD renders a money amount as $1,234.56.
func formatUSD(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	out := "$" + b.String() + "." + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}

func orderInfoText(identifier string) string {
	return "Order Identifier: " + identifier
}

// productInformationText renders one line per order SKU: title, optional
// description/color/size, unit price, quantity, and line subtotal.
func productInformationText(order *models.Order, products map[string]models.Product) string {
	lines := make([]string, 0, len(order.SKUs))
	for _, line := range order.SKUs {
		title := ""
		if product, ok := products[line.SKUID.String()]; ok {
			title = product.Title
		}
		if line.SKU != nil {
			if line.SKU.Description != "" {
				title += ", " + line.SKU.Description
			}
			if line.SKU.Color != "" {
				title += ", " + line.SKU.Color
			}
			if line.SKU.Size != "" {
				title += ", " + line.SKU.Size
			}
		}
		subtotal := line.PriceEach.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines = append(lines, fmt.Sprintf(
			"%s, %s each, Quantity: %d, Subtotal: %s",
			title, formatUSD(line.PriceEach), line.Quantity, formatUSD(subtotal),
		))
	}
	return strings.Join(lines, lineBreak)
}

func shippingInformationText(selected *models.OrderShippingMethod) string {
	if selected == nil {
		return ""
	}
	carrier := ""
	if selected.ShippingMethod != nil {
		carrier = selected.ShippingMethod.Carrier
	}
	return carrier + " " + formatUSD(selected.Cost)
}

// discountCodeText lists every code recorded on the order. Codes the pricing
// pass did not honor carry the bracketed marker. The code's description
// doubles as the value string with {} standing in for the amount.
func discountCodeText(discounts []models.OrderDiscount) string {
	lines := make([]string, 0, len(discounts))
	for _, attached := range discounts {
		code := attached.DiscountCode
		if code == nil {
			continue
		}
		combinable := "No"
		if code.Combinable {
			combinable = "Yes"
		}
		value := strings.ReplaceAll(code.Description, "{}", code.Amount.String())
		marker := ""
		if !attached.Applied {
			marker = " [This code cannot be combined or does not qualify for your order.]"
		}
		lines = append(lines, "Code: "+code.Code+marker+", "+value+", Combinable: "+combinable)
	}
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, lineBreak)
}

// orderTotalsText renders the totals block. Zero discounts are omitted.
func orderTotalsText(order *models.Order) string {
	var b strings.Builder
	b.WriteString("Item Subtotal: " + formatUSD(order.ItemSubtotal) + lineBreak)
	if order.ItemDiscount.IsPositive() {
		b.WriteString("Item Discount: (" + formatUSD(order.ItemDiscount) + ")" + lineBreak)
	}
	b.WriteString("Shipping: " + formatUSD(order.ShippingSubtotal) + lineBreak)
	if order.ShippingDiscount.IsPositive() {
		b.WriteString("Shipping Discount: (" + formatUSD(order.ShippingDiscount) + ")" + lineBreak)
	}
	b.WriteString("Order Total: " + formatUSD(order.Total) + lineBreak)
	return b.String()
}

func paymentText(payment *models.OrderPayment) string {
	if payment == nil {
		return ""
	}
	return fmt.Sprintf("%s: **** **** **** %s, Exp: %d/%d",
		payment.CardBrand, payment.CardLast4, payment.CardExpMonth, payment.CardExpYear)
}

func addressText(name, line1, city, state, postalCode, country string) string {
	return name + lineBreak +
		line1 + lineBreak +
		city + ", " + state + " " + postalCode + lineBreak +
		country
}
