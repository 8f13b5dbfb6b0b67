package enums

import "fmt"

// DiscountAction names the arithmetic a discount code performs.
type DiscountAction string

const (
	DiscountActionPercentOff   DiscountAction = "percent-off"
	DiscountActionDollarAmtOff DiscountAction = "dollar-amt-off"
	DiscountActionFreeShipping DiscountAction = "free-shipping"
	DiscountActionFreeMonths   DiscountAction = "free-months"
)

var validDiscountActions = []DiscountAction{
	DiscountActionPercentOff,
	DiscountActionDollarAmtOff,
	DiscountActionFreeShipping,
	DiscountActionFreeMonths,
}

// String implements fmt.Stringer.
func (d DiscountAction) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountAction.
func (d DiscountAction) IsValid() bool {
	for _, candidate := range validDiscountActions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountAction converts raw input into a DiscountAction.
func ParseDiscountAction(value string) (DiscountAction, error) {
	for _, candidate := range validDiscountActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount action %q", value)
}
