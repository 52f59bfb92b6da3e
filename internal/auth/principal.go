package auth

import (
	"context"
)

// Principal is the authenticated caller. It is attached to the request
// context exactly once, by the authentication filter, and read explicitly
// downstream; there is no ambient security state.
type Principal struct {
	Subject string
	Roles   []string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
