package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrBadSignature signals a signed value that failed verification.
var ErrBadSignature = errors.New("invalid signed value")

// SignValue returns value plus an HMAC-SHA256 signature, suitable for a
// cookie. Format: <value>.<base64url signature>.
func SignValue(value, secret string) string {
	return value + "." + signatureFor(value, secret)
}

// VerifySignedValue checks the signature and returns the embedded value.
func VerifySignedValue(signed, secret string) (string, error) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 || idx == len(signed)-1 {
		return "", ErrBadSignature
	}
	value, sig := signed[:idx], signed[idx+1:]
	expected := signatureFor(value, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrBadSignature
	}
	return value, nil
}

func signatureFor(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
