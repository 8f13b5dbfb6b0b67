package accounts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/internal/emails"
	"github.com/startupwebapp/storefront-backend/pkg/config"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
	"github.com/startupwebapp/storefront-backend/pkg/security"
)

var accountsTestSchema = []string{
	`CREATE TABLE IF NOT EXISTS members (
  id TEXT PRIMARY KEY, username TEXT NOT NULL, email TEXT NOT NULL, password_hash TEXT NOT NULL,
  email_verified INTEGER NOT NULL DEFAULT 0, verification_string TEXT, password_reset_string TEXT,
  unsubscribe_string TEXT, unsubscribed INTEGER NOT NULL DEFAULT 0, mb_cd TEXT NOT NULL,
  stripe_customer_token TEXT, last_login_at DATETIME, created_at DATETIME, updated_at DATETIME);`,
	`CREATE TABLE IF NOT EXISTS prospects (
  id TEXT PRIMARY KEY, email TEXT NOT NULL, pr_cd TEXT NOT NULL, unsubscribe_string TEXT,
  unsubscribed INTEGER NOT NULL DEFAULT 0, comment TEXT, converted_at DATETIME, created_at DATETIME);`,
	`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY, identifier TEXT NOT NULL UNIQUE, member_id TEXT, prospect_id TEXT,
  payment_id TEXT NOT NULL, shipping_address_id TEXT NOT NULL, billing_address_id TEXT NOT NULL,
  item_subtotal TEXT NOT NULL, item_discount TEXT NOT NULL, shipping_subtotal TEXT NOT NULL,
  shipping_discount TEXT NOT NULL, total TEXT NOT NULL,
  agreed_with_terms_of_sale INTEGER NOT NULL, ordered_at DATETIME NOT NULL,
  created_at DATETIME, updated_at DATETIME);`,
}

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	for _, stmt := range accountsTestSchema {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	for _, table := range []string{"members", "prospects", "orders"} {
		require.NoError(t, gdb.Exec("DELETE FROM "+table).Error)
	}
	return gdb
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubCartMerger struct {
	memberID        uuid.UUID
	anonymousCartID string
	calls           int
}

func (s *stubCartMerger) MergeOnLogin(_ context.Context, memberID uuid.UUID, anonymousCartID string) error {
	s.memberID = memberID
	s.anonymousCartID = anonymousCartID
	s.calls++
	return nil
}

type stubMailer struct {
	sent []emails.SendInput
}

func (s *stubMailer) Send(_ context.Context, input emails.SendInput) error {
	s.sent = append(s.sent, input)
	return nil
}

type stubSessions struct {
	created []string
	revoked []string
}

func (s *stubSessions) Create(_ context.Context, accessID string) error {
	s.created = append(s.created, accessID)
	return nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

type accountsHarness struct {
	db       *gorm.DB
	svc      Service
	carts    *stubCartMerger
	mail     *stubMailer
	sessions *stubSessions
}

func newAccountsHarness(t *testing.T) *accountsHarness {
	t.Helper()
	gdb := setupAccountsTestDB(t)
	carts := &stubCartMerger{}
	mail := &stubMailer{}
	sessions := &stubSessions{}

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(gdb),
		Carts:    carts,
		Mail:     mail,
		Sessions: sessions,
		Tx:       gormTxRunner{db: gdb},
		JWT: config.JWTConfig{
			Secret: "test-secret", Issuer: "storefront-test", ExpirationMinutes: 60,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1,
			ArgonSaltLen: 16, ArgonKeyLen: 32,
		},
		CodeSecret: "cookie-secret",
		PublicURL:  "https://shop.example.com",
	})
	require.NoError(t, err)
	return &accountsHarness{db: gdb, svc: svc, carts: carts, mail: mail, sessions: sessions}
}

func accountsAppCode(t *testing.T, err error) string {
	t.Helper()
	appErr := apperrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	return appErr.Message()
}

func TestRegisterCreatesMemberAndSignsIn(t *testing.T) {
	h := newAccountsHarness(t)

	result, err := h.svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "Alice@Example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.NotEmpty(t, result.Token)
	require.Len(t, h.sessions.created, 1)

	var member models.Member
	require.NoError(t, h.db.Where("username = ?", "alice").First(&member).Error)
	assert.Equal(t, "alice@example.com", member.Email, "email normalized to lower case")
	assert.NotEmpty(t, member.MbCd)
	assert.NotEmpty(t, member.VerificationString)
	assert.False(t, member.EmailVerified)

	ok, err := security.VerifyPassword("s3cret-password", member.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, h.mail.sent, 1)
	assert.Equal(t, EmCdWelcome, h.mail.sent[0].EmCd)
	assert.Equal(t, "alice@example.com", h.mail.sent[0].Recipient)
	assert.Contains(t, h.mail.sent[0].Values["email_verification_url"], "email_verification_code=")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	h := newAccountsHarness(t)

	_, err := h.svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)

	_, err = h.svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "s3cret-password",
	})
	assert.Equal(t, "username-already-exists", accountsAppCode(t, err))

	_, err = h.svc.Register(context.Background(), RegisterInput{
		Username: "alice2", Email: "alice@example.com", Password: "s3cret-password",
	})
	assert.Equal(t, "email-address-already-exists", accountsAppCode(t, err))
}

func TestRegisterConvertsProspectAndClaimsOrders(t *testing.T) {
	h := newAccountsHarness(t)

	prospect := models.Prospect{ID: uuid.New(), Email: "alice@example.com", PrCd: "PRCD1"}
	require.NoError(t, h.db.Create(&prospect).Error)
	order := models.Order{
		ID: uuid.New(), Identifier: "ORD1", ProspectID: &prospect.ID,
		PaymentID: uuid.New(), ShippingAddressID: uuid.New(), BillingAddressID: uuid.New(),
		ItemSubtotal: decimal.Zero, ItemDiscount: decimal.Zero,
		ShippingSubtotal: decimal.Zero, ShippingDiscount: decimal.Zero, Total: decimal.Zero,
		AgreedWithTerms: true, OrderedAt: time.Now().UTC(),
	}
	require.NoError(t, h.db.Create(&order).Error)

	result, err := h.svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)

	var converted models.Prospect
	require.NoError(t, h.db.First(&converted, "id = ?", prospect.ID).Error)
	require.NotNil(t, converted.ConvertedAt)
	assert.True(t, converted.Unsubscribed)
	assert.Contains(t, converted.Comment, "converted")

	var claimed models.Order
	require.NoError(t, h.db.First(&claimed, "id = ?", order.ID).Error)
	require.NotNil(t, claimed.MemberID)
	assert.Equal(t, result.MemberID, *claimed.MemberID)
}

func TestLoginVerifiesPassword(t *testing.T) {
	h := newAccountsHarness(t)
	_, err := h.svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)

	result, err := h.svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "s3cret-password", AnonymousCartID: "anon-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, result.MemberID, h.carts.memberID)
	assert.Equal(t, "anon-1", h.carts.anonymousCartID)

	var member models.Member
	require.NoError(t, h.db.Where("username = ?", "alice").First(&member).Error)
	require.NotNil(t, member.LastLoginAt)

	_, err = h.svc.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong"})
	assert.Equal(t, "invalid-login", accountsAppCode(t, err))

	_, err = h.svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "x"})
	assert.Equal(t, "invalid-login", accountsAppCode(t, err))
}

func TestLogoutRevokesSession(t *testing.T) {
	h := newAccountsHarness(t)
	require.NoError(t, h.svc.Logout(context.Background(), "jti-123"))
	assert.Equal(t, []string{"jti-123"}, h.sessions.revoked)
}

func TestVerifyEmail(t *testing.T) {
	h := newAccountsHarness(t)
	result, err := h.svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)

	url := h.mail.sent[0].Values["email_verification_url"]
	signedCode := url[strings.Index(url, "=")+1:]

	err = h.svc.VerifyEmail(context.Background(), result.MemberID, "tampered")
	assert.Equal(t, "signature-invalid", accountsAppCode(t, err))

	wrongCode := security.SignValue("not-the-code", "cookie-secret")
	err = h.svc.VerifyEmail(context.Background(), result.MemberID, wrongCode)
	assert.Equal(t, "code-doesnt-match", accountsAppCode(t, err))

	require.NoError(t, h.svc.VerifyEmail(context.Background(), result.MemberID, signedCode))

	var member models.Member
	require.NoError(t, h.db.First(&member, "id = ?", result.MemberID).Error)
	assert.True(t, member.EmailVerified)
	assert.Empty(t, member.VerificationString)
}

func TestForgotAndResetPassword(t *testing.T) {
	h := newAccountsHarness(t)
	_, err := h.svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "old-password-123",
	})
	require.NoError(t, err)
	h.mail.sent = nil

	// Unknown accounts and mismatched emails succeed silently.
	require.NoError(t, h.svc.ForgotPassword(context.Background(), "nobody", "x@example.com"))
	require.NoError(t, h.svc.ForgotPassword(context.Background(), "alice", "wrong@example.com"))
	assert.Empty(t, h.mail.sent)

	require.NoError(t, h.svc.ForgotPassword(context.Background(), "alice", "alice@example.com"))
	require.Len(t, h.mail.sent, 1)
	assert.Equal(t, EmCdPasswordReset, h.mail.sent[0].EmCd)
	url := h.mail.sent[0].Values["password_reset_url"]
	signedCode := url[strings.Index(url, "=")+1:]

	err = h.svc.ResetPassword(context.Background(), ResetPasswordInput{
		Username: "nobody", Code: signedCode, NewPassword: "new-password-456",
	})
	assert.Equal(t, "username-not-found", accountsAppCode(t, err))

	err = h.svc.ResetPassword(context.Background(), ResetPasswordInput{
		Username: "alice", Code: "garbage", NewPassword: "new-password-456",
	})
	assert.Equal(t, "signature-invalid", accountsAppCode(t, err))

	require.NoError(t, h.svc.ResetPassword(context.Background(), ResetPasswordInput{
		Username: "alice", Code: signedCode, NewPassword: "new-password-456",
	}))

	_, err = h.svc.Login(context.Background(), LoginInput{Username: "alice", Password: "old-password-123"})
	assert.Equal(t, "invalid-login", accountsAppCode(t, err))
	_, err = h.svc.Login(context.Background(), LoginInput{Username: "alice", Password: "new-password-456"})
	require.NoError(t, err)

	// The code is single use.
	err = h.svc.ResetPassword(context.Background(), ResetPasswordInput{
		Username: "alice", Code: signedCode, NewPassword: "another-password",
	})
	assert.Equal(t, "code-doesnt-match", accountsAppCode(t, err))
}

func TestAnonymousEmailLookup(t *testing.T) {
	h := newAccountsHarness(t)
	_, err := h.svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "s3cret-password",
	})
	require.NoError(t, err)

	err = h.svc.AnonymousEmailLookup(context.Background(), "alice@example.com")
	assert.Equal(t, "email-address-is-associated-with-member", accountsAppCode(t, err))

	err = h.svc.AnonymousEmailLookup(context.Background(), "")
	assert.Equal(t, "anonymous-email-address-required", accountsAppCode(t, err))

	require.NoError(t, h.svc.AnonymousEmailLookup(context.Background(), "lead@example.com"))
	var prospect models.Prospect
	require.NoError(t, h.db.Where("email = ?", "lead@example.com").First(&prospect).Error)
	assert.NotEmpty(t, prospect.PrCd)
	assert.True(t, prospect.Unsubscribed)

	// Repeat lookups reuse the prospect.
	require.NoError(t, h.svc.AnonymousEmailLookup(context.Background(), "lead@example.com"))
	var count int64
	require.NoError(t, h.db.Model(&models.Prospect{}).Where("email = ?", "lead@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
