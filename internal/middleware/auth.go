package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/thorfins/thorfins-be/internal/auth"
	"github.com/thorfins/thorfins-be/internal/http/respond"
)

type contextKey struct{}

var userIDKey contextKey

// UserID extracts the authenticated user id placed in the context by Auth.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Exported for tests.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// Auth guards a handler with bearer-token validation. A missing header, wrong
// scheme, or failed validation all produce the same 401 body so callers learn
// nothing about which check failed.
func Auth(tokens *auth.TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respond.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		userID, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r.WithContext(WithUserID(r.Context(), userID)))
	}
}
