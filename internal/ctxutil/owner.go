// Package ctxutil carries the authenticated owner through request contexts.
// It has no internal dependencies so any package can import it.
package ctxutil

import "context"

type ownerKey struct{}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, userID)
}

// UserIDFromContext returns the authenticated user ID, or false when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ownerKey{}).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
