package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.User, error)
}

// Authenticate returns middleware that requires a valid Bearer token whose
// user still exists, and attaches that user to the request context.
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "not authorized, no token")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "not authorized, invalid authorization format")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrInvalidToken):
					writeJSONError(w, http.StatusUnauthorized, "not authorized, token failed")
				case errors.Is(err, service.ErrUserNotFound):
					writeJSONError(w, http.StatusUnauthorized, "not authorized, user not found")
				default:
					slog.ErrorContext(r.Context(), "authenticate request", "error", err)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects callers without the admin flag. It must run after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin {
			writeJSONError(w, http.StatusUnauthorized, "not authorized as an admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user model.User) context.Context {
	user.PasswordHash = ""
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	return user, ok
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	user, ok := UserFromContext(ctx)
	if !ok || user.ID == "" {
		return "", false
	}
	return user.ID, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.MessageResponse{Message: msg})
}
