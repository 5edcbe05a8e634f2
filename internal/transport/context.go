package transport

import "context"

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity records who is making the request. An empty identity is an
// anonymous visitor.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFrom(ctx context.Context) string {
	id, _ := ctx.Value(identityKey).(string)
	return id
}
