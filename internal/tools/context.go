package tools

import "context"

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID adds the owning user's ID to the context. Tool handlers
// that touch per-user data (notes, calendar) read it back to scope
// their queries.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the user ID from the context.
// Returns "local" for console use where no account exists.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return "local"
}
