package mfaauth

import "context"

// Principal is the verified identity supplied by the upstream identity
// provider. The module never authenticates principals itself; it trusts the
// middleware that put one on the context.
type Principal struct {
	UserID string
	Email  string
}

type principalCtxKey struct{}

// WithPrincipal returns a context carrying the verified principal. Auth
// middleware calls this after validating the session or bearer token.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext extracts the verified principal, reporting whether
// one is present.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok && p.UserID != ""
}
