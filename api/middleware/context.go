package middleware

import (
	"context"

	"github.com/startupwebapp/storefront-backend/internal/identity"
)

type contextKey string

const (
	ctxIdentity contextKey = "identity"
	ctxAccessID contextKey = "access_id"
)

// IdentityFromContext returns the caller identity seeded by the Identity
// middleware. A request that never passed through it is a plain visitor.
func IdentityFromContext(ctx context.Context) identity.Identity {
	if ctx == nil {
		return identity.Identity{}
	}
	if v, ok := ctx.Value(ctxIdentity).(identity.Identity); ok {
		return v
	}
	return identity.Identity{}
}

// AccessIDFromContext returns the session id of an authenticated request.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithIdentity injects the caller identity into the context.
func WithIdentity(ctx context.Context, ident identity.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, ident)
}

// WithAccessID injects the session id into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
