package enums

import "fmt"

// EmailFailureType classifies where confirmation email delivery broke down.
type EmailFailureType string

const (
	EmailFailureTemplateLookup EmailFailureType = "template_lookup"
	EmailFailureFormatting     EmailFailureType = "formatting"
	EmailFailureSMTPSend       EmailFailureType = "smtp_send"
	EmailFailureSentLog        EmailFailureType = "emailsent_log"
	EmailFailureCartDelete     EmailFailureType = "cart_delete"
)

var validEmailFailureTypes = []EmailFailureType{
	EmailFailureTemplateLookup,
	EmailFailureFormatting,
	EmailFailureSMTPSend,
	EmailFailureSentLog,
	EmailFailureCartDelete,
}

// String implements fmt.Stringer.
func (e EmailFailureType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EmailFailureType.
func (e EmailFailureType) IsValid() bool {
	for _, candidate := range validEmailFailureTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmailFailureType converts raw input into an EmailFailureType.
func ParseEmailFailureType(value string) (EmailFailureType, error) {
	for _, candidate := range validEmailFailureTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid email failure type %q", value)
}
