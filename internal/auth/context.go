package auth

import "context"

type contextKey struct{}

// Identity is the authenticated actor for a single request: the normalized
// email held by the session. No ambient globals; it travels on the request
// context only.
type Identity struct {
	Email        string
	SessionToken string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Email returns the current identity's email, or "" when unauthenticated.
func Email(ctx context.Context) string {
	id, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return id.Email
}
