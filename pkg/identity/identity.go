// Package identity is the boundary to the authentication collaborator. The
// service never issues or verifies credentials itself; it only asks "who is
// calling" before any owner-scoped mutation.
package identity

import (
	"context"
	"net/http"

	apperrors "solodesk/pkg/errors"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID string
}

// Authenticator resolves the current identity for a request.
type Authenticator interface {
	CurrentIdentity(r *http.Request) (Identity, error)
}

// HeaderAuthenticator trusts an upstream gateway to authenticate requests and
// forward the caller's user ID in a header. It is the default deployment
// shape; swap in a real session verifier behind the same interface.
type HeaderAuthenticator struct {
	Header string
}

func NewHeaderAuthenticator() *HeaderAuthenticator {
	return &HeaderAuthenticator{Header: "X-User-ID"}
}

func (a *HeaderAuthenticator) CurrentIdentity(r *http.Request) (Identity, error) {
	userID := r.Header.Get(a.Header)
	if userID == "" {
		return Identity{}, apperrors.Unauthorized("Authentication required")
	}
	return Identity{UserID: userID}, nil
}

type contextKey struct{}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by the authentication middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
