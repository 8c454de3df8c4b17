package auth

import (
	"context"
	"strings"

	"tourism/internal/apperr"
)

// TokenVerifier turns a bearer token into an Identity.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// Guard is the single enforcement point for protected operations. It trusts
// the role carried by the token and never reads the account store, so a
// demoted account keeps its old role until the token expires.
type Guard struct {
	verifier TokenVerifier
}

// NewGuard creates a guard backed by verifier.
func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate resolves the identity behind an Authorization header.
func (g *Guard) Authenticate(header string) (*Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, apperr.Unauthenticated("missing bearer token")
	}
	if g == nil || g.verifier == nil {
		return nil, apperr.Unauthenticated("invalid or expired token")
	}
	identity, err := g.verifier.Verify(token)
	if err != nil || identity == nil {
		return nil, apperr.Unauthenticated("invalid or expired token")
	}
	return identity, nil
}

// Permit checks an already authenticated identity against policy.
func (g *Guard) Permit(identity *Identity, policy Policy) error {
	if identity == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if !policy.Allows(identity.Role) {
		return apperr.Forbidden("insufficient role")
	}
	return nil
}

// Authorize authenticates header and enforces policy in one step.
func (g *Guard) Authorize(header string, policy Policy) (*Identity, error) {
	identity, err := g.Authenticate(header)
	if err != nil {
		return nil, err
	}
	if err := g.Permit(identity, policy); err != nil {
		return nil, err
	}
	return identity, nil
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity attached by the guard, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	return identity, ok && identity != nil
}
