// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets the values; services read them. Keeping this package free
// of net/http lets services import it without pulling in transport code.
//
//	profileID := requestcontext.ProfileID(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithIdentity(ctx, requestcontext.Identity{ProfileID: "u1"})
package requestcontext

import (
	"context"

	"confcentral/pkg/domain"
)

type (
	identityKey  struct{}
	requestIDKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyIdentity  = identityKey{}
	ContextKeyRequestID = requestIDKey{}
)

// Identity is the caller as resolved by the identity provider's token.
type Identity struct {
	ProfileID   domain.ProfileID
	Email       string
	DisplayName string
}

// -----------------------------------------------------------------------------
// Caller identity
// -----------------------------------------------------------------------------

// WithIdentity injects the authenticated caller into the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

// CallerIdentity returns the authenticated caller, if any.
func CallerIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ContextKeyIdentity).(Identity)
	if !ok || id.ProfileID.IsNil() {
		return Identity{}, false
	}
	return id, true
}

// ProfileID returns the caller's profile id, or the zero value when unauthenticated.
func ProfileID(ctx context.Context) domain.ProfileID {
	id, _ := CallerIdentity(ctx)
	return id.ProfileID
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}
