package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/api/shared"
)

// UserIDHeader carries the caller's identity. The API trusts the gateway in
// front of it to have authenticated the user; this middleware only parses
// and propagates the ID.
const UserIDHeader = "X-User-ID"

// IdentityMiddleware extracts the user ID from the X-User-ID header and
// places it in the request context. Requests without a valid UUID in the
// header are rejected with 401 before reaching any handler.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			slog.Debug("missing user ID header",
				slog.String("path", r.URL.Path),
				slog.String("method", r.Method))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "User identity required")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			slog.Debug("invalid user ID header",
				slog.String("path", r.URL.Path),
				slog.String("method", r.Method))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid user identity")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
