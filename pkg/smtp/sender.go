package smtp

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/startupwebapp/storefront-backend/pkg/config"
)

// Message is one outbound plain-text email.
type Message struct {
	From    string
	To      string
	BCC     string
	Subject string
	Body    string
}

// Sender delivers messages. Services depend on this interface so tests can
// capture sends without a mail server.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client sends mail over SMTP using the configured relay.
type Client struct {
	addr string
	auth smtp.Auth
}

// NewClient builds an SMTP client from config. Auth is skipped when no
// username is configured (local relay).
func NewClient(cfg config.SMTPConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Client{addr: cfg.Addr(), auth: auth}, nil
}

// Send delivers a single message. The context is honored up front only;
// net/smtp does not support cancellation mid-dial.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("message recipient is required")
	}
	if strings.TrimSpace(msg.From) == "" {
		return errors.New("message sender is required")
	}

	recipients := []string{msg.To}
	if msg.BCC != "" {
		recipients = append(recipients, msg.BCC)
	}
	return smtp.SendMail(c.addr, c.auth, msg.From, recipients, buildPayload(msg))
}

func buildPayload(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
