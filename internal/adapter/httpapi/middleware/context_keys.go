package middleware

import "context"

// ContextKey is a private key type so request-scoped values cannot
// collide with other packages.
type ContextKey string

const userIDCtxKey = ContextKey("user_id")

// WithUserID returns a context carrying the authenticated principal id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the authenticated principal id set by the
// JWTAuth middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDCtxKey).(string)
	return id, ok && id != ""
}
