package orderconfig

import "strings"

// Configuration keys steering checkout behavior.
const (
	KeyUsernamesAllowedToCheckout  = "usernames_allowed_to_checkout"
	KeyAnCtValuesAllowedToCheckout = "an_ct_values_allowed_to_checkout"
	KeyInitialOrderStatus          = "initial_order_status"
	KeyDefaultShippingMethod       = "default_shipping_method"
	KeyMemberConfirmationEmCd      = "order_confirmation_em_cd_member"
	KeyProspectConfirmationEmCd    = "order_confirmation_em_cd_prospect"
	KeyLogClientEvents             = "log_client_events"
)

// Wildcard opens an allow-list to everyone.
const Wildcard = "*"

// Snapshot is the typed view of the order_configurations table. It is built
// once per use from the rows present at load time; missing keys yield zero
// values, which fail closed for the allow-lists.
type Snapshot struct {
	UsernamesAllowedToCheckout  []string
	AnCtValuesAllowedToCheckout []string
	InitialOrderStatus          string
	DefaultShippingMethod       string
	MemberConfirmationEmCd      string
	ProspectConfirmationEmCd    string
	LogClientEvents             bool
}

// CheckoutAllowedForUsername reports whether the member username passes the
// allow-list gate.
func (s *Snapshot) CheckoutAllowedForUsername(username string) bool {
	return allowListMatch(s.UsernamesAllowedToCheckout, username)
}

// CheckoutAllowedForAnonymousID reports whether the anonymous cart id passes
// the allow-list gate.
func (s *Snapshot) CheckoutAllowedForAnonymousID(anonymousID string) bool {
	return allowListMatch(s.AnCtValuesAllowedToCheckout, anonymousID)
}

func allowListMatch(allowed []string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, entry := range allowed {
		if entry == Wildcard || entry == value {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
