package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SessionResolver turns a bearer token into a user ID. An empty ID with a
// nil error means the session is not active.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (string, error)
}

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated user ID stored by Auth, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Auth rejects requests without an active session and stores the resolved
// user ID in the request context.
func Auth(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := resolver.CurrentUser(r.Context(), token)
			if err != nil {
				ctxzap.Error(r.Context(), "session introspection failed", zap.Error(err))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(entity.ErrorResponse{
					Error:   http.StatusText(http.StatusServiceUnavailable),
					Message: "could not verify session",
				})
				return
			}
			if userID == "" {
				unauthorized(w, "session is not active")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(entity.ErrorResponse{
		Error:   http.StatusText(http.StatusUnauthorized),
		Message: message,
	})
}
