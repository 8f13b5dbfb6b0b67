package middleware

import (
	"net/http"
	"strings"

	"github.com/startupwebapp/storefront-backend/api/responses"
	"github.com/startupwebapp/storefront-backend/internal/identity"
	pkgAuth "github.com/startupwebapp/storefront-backend/pkg/auth"
	"github.com/startupwebapp/storefront-backend/pkg/auth/session"
	"github.com/startupwebapp/storefront-backend/pkg/config"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/security"
)

// Identity resolves the caller of every storefront request. A bearer token
// yields a member identity; otherwise the signed anonymous cart cookie, when
// present and untampered, yields an anonymous identity. Requests with neither
// pass through as plain visitors. A bearer token that fails verification is
// rejected rather than downgraded.
func Identity(jwtCfg config.JWTConfig, cookieCfg config.CookieConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				claims, err := pkgAuth.ParseAccessToken(jwtCfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid-login"))
					return
				}
				if claims.ID == "" {
					responses.WriteError(ctx, logg, w, apperrors.New(apperrors.CodeUnauthorized, "invalid-login"))
					return
				}
				if verifier != nil {
					ok, err := verifier.HasSession(ctx, claims.ID)
					if err != nil {
						responses.WriteError(ctx, logg, w, apperrors.Wrap(apperrors.CodeDependency, err, "validate session"))
						return
					}
					if !ok {
						responses.WriteError(ctx, logg, w, apperrors.New(apperrors.CodeUnauthorized, "invalid-login"))
						return
					}
				}

				ident := identity.Member(claims.MemberID, claims.Username)
				// A member can still carry an anonymous cart cookie from
				// before login; keep it so the cart merge can happen.
				ident.AnonymousCartID = ReadAnonymousCartID(r, cookieCfg)

				ctx = WithIdentity(ctx, ident)
				ctx = WithAccessID(ctx, claims.ID)
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"member_id": claims.MemberID.String(),
						"username":  claims.Username,
					})
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if anonymousID := ReadAnonymousCartID(r, cookieCfg); anonymousID != "" {
				ctx = WithIdentity(ctx, identity.Anonymous(anonymousID))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMember gates endpoints that only make sense for a signed-in member.
func RequireMember(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IdentityFromContext(r.Context()).IsMember() {
				responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeUnauthorized, "log-in-required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ReadAnonymousCartID extracts and verifies the signed anonymous cart cookie.
// A missing or tampered cookie reads as no cart.
func ReadAnonymousCartID(r *http.Request, cfg config.CookieConfig) string {
	cookie, err := r.Cookie(cfg.AnonymousCartName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	value, err := security.VerifySignedValue(cookie.Value, cfg.AnonymousCartSecret)
	if err != nil {
		return ""
	}
	return value
}

// WriteAnonymousCartCookie sets the signed anonymous cart cookie.
func WriteAnonymousCartCookie(w http.ResponseWriter, cfg config.CookieConfig, cartID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.AnonymousCartName,
		Value:    security.SignValue(cartID, cfg.AnonymousCartSecret),
		Path:     "/",
		MaxAge:   int(cfg.AnonymousCartMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAnonymousCartCookie expires the anonymous cart cookie.
func ClearAnonymousCartCookie(w http.ResponseWriter, cfg config.CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.AnonymousCartName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
