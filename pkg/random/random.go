package random

import (
	"crypto/rand"
	"fmt"
)

var alphanumeric = []rune("ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789")

// String returns a random alphanumeric string of the requested length.
// Ambiguous glyphs (0/O, 1/l/I) are excluded since these codes end up in
// emails and support tickets.
func String(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(alphanumeric))
		if err != nil {
			return "", err
		}
		result[i] = alphanumeric[idx]
	}
	return string(result), nil
}

// OrderIdentifier returns the customer-facing order reference.
func OrderIdentifier() (string, error) {
	return String(12)
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	var buff = make([]byte, 1)
	if _, err := rand.Read(buff); err != nil {
		return 0, err
	}
	return int(buff[0]) % max, nil
}
