package bankgate

import (
	"context"

	"github.com/goliatone/go-router"
)

var principalCtxKey = &contextKey{"principal"}
var tokenCtxKey = &contextKey{"token"}

// PrincipalLocalsKey and TokenLocalsKey are the router locals keys the guard
// publishes under; downstream handlers read them through the accessors in
// accessor.go instead of re-resolving the token.
const (
	PrincipalLocalsKey = "bankgate:principal"
	TokenLocalsKey     = "bankgate:token"
)

type contextKey struct {
	name string
}

// WithPrincipal stores the resolved Principal in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext finds the Principal in a standard context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	return raw, ok
}

// WithToken stores the raw bearer token in the context so downstream provider
// calls can forward it without re-reading headers.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

// TokenFromContext finds the bearer token in a standard context.
func TokenFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenCtxKey).(string)
	return raw, ok
}

// RouterPrincipal extracts the Principal from router locals.
func RouterPrincipal(c router.Context) (*Principal, bool) {
	raw := c.Locals(PrincipalLocalsKey)
	if raw == nil {
		return nil, false
	}
	p, ok := raw.(*Principal)
	return p, ok
}

// RouterToken extracts the raw bearer token from router locals.
func RouterToken(c router.Context) (string, bool) {
	raw := c.Locals(TokenLocalsKey)
	if raw == nil {
		return "", false
	}
	token, ok := raw.(string)
	return token, ok
}
