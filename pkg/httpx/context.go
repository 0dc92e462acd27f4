package httpx

import (
	"context"
	"net/http"
)

type ctxKey string

// CtxKeyUserID carries the resolved caller's user id. The authentication
// middleware sets it; rate limiting keys off it.
const CtxKeyUserID ctxKey = "user_id"

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

// UserIDFromCtx returns the authenticated user id, or "" when the request
// has not passed authentication.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// UserIDKeyExtractor extracts the user id for per-user rate limiting.
func UserIDKeyExtractor(r *http.Request) string {
	return UserIDFromCtx(r.Context())
}
