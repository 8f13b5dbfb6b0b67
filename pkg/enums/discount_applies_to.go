package enums

import "fmt"

// DiscountAppliesTo names the portion of a cart a discount code targets.
type DiscountAppliesTo string

const (
	DiscountAppliesToItemTotal    DiscountAppliesTo = "item_total"
	DiscountAppliesToShipping     DiscountAppliesTo = "shipping"
	DiscountAppliesToSubscription DiscountAppliesTo = "subscription"
)

var validDiscountAppliesTo = []DiscountAppliesTo{
	DiscountAppliesToItemTotal,
	DiscountAppliesToShipping,
	DiscountAppliesToSubscription,
}

// String implements fmt.Stringer.
func (d DiscountAppliesTo) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountAppliesTo.
func (d DiscountAppliesTo) IsValid() bool {
	for _, candidate := range validDiscountAppliesTo {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountAppliesTo converts raw input into a DiscountAppliesTo.
func ParseDiscountAppliesTo(value string) (DiscountAppliesTo, error) {
	for _, candidate := range validDiscountAppliesTo {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount applies-to %q", value)
}
