package enums

import "fmt"

// PurchaserKind distinguishes the two identities an order can belong to.
type PurchaserKind string

const (
	PurchaserMember   PurchaserKind = "member"
	PurchaserProspect PurchaserKind = "prospect"
)

var validPurchaserKinds = []PurchaserKind{
	PurchaserMember,
	PurchaserProspect,
}

// String implements fmt.Stringer.
func (p PurchaserKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PurchaserKind.
func (p PurchaserKind) IsValid() bool {
	for _, candidate := range validPurchaserKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePurchaserKind converts raw input into a PurchaserKind.
func ParsePurchaserKind(value string) (PurchaserKind, error) {
	for _, candidate := range validPurchaserKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchaser kind %q", value)
}
