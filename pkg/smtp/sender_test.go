package smtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupwebapp/storefront-backend/pkg/config"
)

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(config.SMTPConfig{})
	require.Error(t, err)
}

func TestNewClientWithoutAuth(t *testing.T) {
	client, err := NewClient(config.SMTPConfig{Host: "localhost", Port: 25})
	require.NoError(t, err)
	assert.Equal(t, "localhost:25", client.addr)
	assert.Nil(t, client.auth)
}

func TestBuildPayload(t *testing.T) {
	payload := string(buildPayload(Message{
		From:    "orders@example.com",
		To:      "alice@example.com",
		Subject: "Your order",
		Body:    "Thank you for your order.",
	}))

	assert.Contains(t, payload, "From: orders@example.com\r\n")
	assert.Contains(t, payload, "To: alice@example.com\r\n")
	assert.Contains(t, payload, "Subject: Your order\r\n")
	assert.Contains(t, payload, "\r\n\r\nThank you for your order.")
}
