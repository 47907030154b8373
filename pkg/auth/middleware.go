package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const adminEmailKey contextKey = "admin_email"

// AdminEmailFromContext retrieves the authenticated admin email from ctx.
func AdminEmailFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(adminEmailKey).(string)
	return v, ok
}

// WithAdminEmail stores the admin email on ctx.
func WithAdminEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, adminEmailKey, email)
}

// RequireAdmin validates the admin session cookie and stores the admin
// email on the request context. Unauthenticated requests get a 401.
func RequireAdmin(sessionSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName())
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}

			email, err := VerifySessionToken(cookie.Value, sessionSecret)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_session"})
				return
			}

			ctx := WithAdminEmail(r.Context(), email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
