package auth

import (
	"context"
	"fmt"
)

// Identity is the authenticated {username, role} pair. It is immutable
// for the duration of one request.
type Identity struct {
	Username string
	Role     string
}

type contextKey string

const identityKey contextKey = "auth_identity"

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity extracts the identity from the context.
// Returns false if the request was not authenticated.
func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// RequireIdentity extracts the identity and errors if absent.
func RequireIdentity(ctx context.Context) (Identity, error) {
	identity, ok := GetIdentity(ctx)
	if !ok {
		return Identity{}, fmt.Errorf("authentication required")
	}
	return identity, nil
}
