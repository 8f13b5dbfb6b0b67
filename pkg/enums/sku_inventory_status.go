package enums

import "fmt"

// SKUInventoryStatus reflects whether a SKU can currently be sold.
type SKUInventoryStatus string

const (
	SKUInventoryAvailable    SKUInventoryStatus = "available"
	SKUInventoryOutOfStock   SKUInventoryStatus = "out_of_stock"
	SKUInventoryDiscontinued SKUInventoryStatus = "discontinued"
)

var validSKUInventoryStatuses = []SKUInventoryStatus{
	SKUInventoryAvailable,
	SKUInventoryOutOfStock,
	SKUInventoryDiscontinued,
}

// String implements fmt.Stringer.
func (s SKUInventoryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SKUInventoryStatus.
func (s SKUInventoryStatus) IsValid() bool {
	for _, candidate := range validSKUInventoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSKUInventoryStatus converts raw input into a SKUInventoryStatus.
func ParseSKUInventoryStatus(value string) (SKUInventoryStatus, error) {
	for _, candidate := range validSKUInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sku inventory status %q", value)
}
