package types

// APIVersion is stamped onto every order API payload.
const APIVersion = "0.0.1"

// ActionResult is the value reported for the action key in mutation payloads.
type ActionResult string

const (
	ActionSuccess ActionResult = "success"
	ActionError   ActionResult = "error"
)

// ErrorBody describes a failed action to the storefront client.
type ErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"description,omitempty"`
}

// Payload is the loose JSON object every order endpoint responds with. The
// action key varies per endpoint, so payloads are assembled as maps and the
// version stamp is applied at write time.
type Payload map[string]any
