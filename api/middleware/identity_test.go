package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupwebapp/storefront-backend/internal/identity"
	pkgAuth "github.com/startupwebapp/storefront-backend/pkg/auth"
	"github.com/startupwebapp/storefront-backend/pkg/config"
)

var testJWTConfig = config.JWTConfig{
	Secret: "test-secret", Issuer: "storefront-test", ExpirationMinutes: 60,
}

var testCookieConfig = config.CookieConfig{
	AnonymousCartName:   "an_ct",
	AnonymousCartSecret: "cookie-secret",
	AnonymousCartMaxAge: time.Hour,
}

type stubSessionChecker struct {
	ok bool
}

func (s stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return s.ok, nil
}

func identityProbe(captured *identity.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityResolvesAnonymousCartCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAnonymousCartCookie(rec, testCookieConfig, "cart-abc")

	req := httptest.NewRequest(http.MethodGet, "/order/cart-items", nil)
	req.AddCookie(rec.Result().Cookies()[0])

	var captured identity.Identity
	handler := Identity(testJWTConfig, testCookieConfig, nil, nil)(identityProbe(&captured))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, captured.IsMember())
	assert.Equal(t, "cart-abc", captured.AnonymousCartID)
}

func TestIdentityIgnoresTamperedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/order/cart-items", nil)
	req.AddCookie(&http.Cookie{Name: "an_ct", Value: "cart-abc.forged-signature"})

	var captured identity.Identity
	handler := Identity(testJWTConfig, testCookieConfig, nil, nil)(identityProbe(&captured))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, captured.AnonymousCartID)
}

func TestIdentityResolvesMemberToken(t *testing.T) {
	memberID := uuid.New()
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now(), pkgAuth.AccessTokenPayload{
		MemberID: memberID, Username: "alice", JTI: "jti-1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/order/cart-items", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	var captured identity.Identity
	handler := Identity(testJWTConfig, testCookieConfig, stubSessionChecker{ok: true}, nil)(identityProbe(&captured))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, captured.IsMember())
	assert.Equal(t, memberID, *captured.MemberID)
	assert.Equal(t, "alice", captured.Username)
}

func TestIdentityRejectsRevokedSession(t *testing.T) {
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now(), pkgAuth.AccessTokenPayload{
		MemberID: uuid.New(), Username: "alice", JTI: "jti-1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/order/cart-items", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	var captured identity.Identity
	handler := Identity(testJWTConfig, testCookieConfig, stubSessionChecker{ok: false}, nil)(identityProbe(&captured))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, captured.IsMember())
}

func TestRequireMemberBlocksAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/logout", nil)

	handler := RequireMember(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
