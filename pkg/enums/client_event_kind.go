package enums

import "fmt"

// ClientEventKind names the browser-side events the storefront records.
type ClientEventKind string

const (
	ClientEventPageView    ClientEventKind = "page_view"
	ClientEventButtonClick ClientEventKind = "button_click"
	ClientEventLinkClick   ClientEventKind = "link_click"
	ClientEventAJAXError   ClientEventKind = "ajax_error"
)

var validClientEventKinds = []ClientEventKind{
	ClientEventPageView,
	ClientEventButtonClick,
	ClientEventLinkClick,
	ClientEventAJAXError,
}

// String implements fmt.Stringer.
func (c ClientEventKind) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ClientEventKind.
func (c ClientEventKind) IsValid() bool {
	for _, candidate := range validClientEventKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseClientEventKind converts raw input into a ClientEventKind.
func ParseClientEventKind(value string) (ClientEventKind, error) {
	for _, candidate := range validClientEventKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid client event kind %q", value)
}
