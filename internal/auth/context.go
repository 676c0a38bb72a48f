package auth

import "context"

type ctxKey struct{}

// WithAccountID returns a copy of ctx carrying the authenticated account id.
func WithAccountID(ctx context.Context, accountID int) context.Context {
	return context.WithValue(ctx, ctxKey{}, accountID)
}

// AccountIDFrom extracts the account id stored by WithAccountID.
func AccountIDFrom(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ctxKey{}).(int)
	return id, ok
}
