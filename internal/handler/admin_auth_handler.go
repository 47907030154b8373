package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/chiaview/backend/pkg/auth"
)

// AdminAuthHandler implements the demo-grade admin login: one configured
// email/password pair checked against the request, then an HMAC-signed
// session cookie. Not a real account system.
type AdminAuthHandler struct {
	adminEmail      string
	adminPassword   string
	sessionSecret   []byte
	allowlistEmails map[string]bool
}

// NewAdminAuthHandler creates an AdminAuthHandler from the configured
// credentials. allowlist is an optional comma-separated list of additional
// emails accepted with the same password.
func NewAdminAuthHandler(adminEmail, adminPassword string, sessionSecret []byte, allowlist string) *AdminAuthHandler {
	h := &AdminAuthHandler{
		adminEmail:      strings.ToLower(adminEmail),
		adminPassword:   adminPassword,
		sessionSecret:   sessionSecret,
		allowlistEmails: map[string]bool{},
	}
	for _, e := range strings.Split(allowlist, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			h.allowlistEmails[e] = true
		}
	}
	return h
}

func (h *AdminAuthHandler) emailAllowed(email string) bool {
	return email == h.adminEmail || h.allowlistEmails[email]
}

// Login handles POST /api/admin/login.
// On success sets the httpOnly session cookie for 24 hours.
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) == 1
	if !h.emailAllowed(email) || !passwordOK {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	token := auth.CreateSessionToken(email, h.sessionSecret)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   60 * 60 * 24, // 24 hours
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	})

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"user":    map[string]string{"email": email, "role": "admin"},
	})
}

// Logout handles POST /api/admin/logout.
func (h *AdminAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

// Me handles GET /api/admin/me (behind RequireAdmin).
func (h *AdminAuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	email, ok := auth.AdminEmailFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"user":    map[string]string{"email": email, "role": "admin"},
	})
}
