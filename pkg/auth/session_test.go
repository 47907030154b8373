package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	secret := SessionSecretBytes("test-secret")

	token := CreateSessionToken("admin@example.org", secret)
	email, err := VerifySessionToken(token, secret)
	if err != nil {
		t.Fatalf("VerifySessionToken: %v", err)
	}
	if email != "admin@example.org" {
		t.Errorf("expected admin@example.org, got %q", email)
	}
}

func TestSessionToken_TamperedSignature(t *testing.T) {
	secret := SessionSecretBytes("test-secret")

	token := CreateSessionToken("admin@example.org", secret)
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'a' {
		tampered += "b"
	} else {
		tampered += "a"
	}
	if _, err := VerifySessionToken(tampered, secret); err == nil {
		t.Error("expected tampered token to fail verification")
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token := CreateSessionToken("admin@example.org", SessionSecretBytes("secret-one"))
	if _, err := VerifySessionToken(token, SessionSecretBytes("secret-two")); err == nil {
		t.Error("expected token signed with another secret to fail")
	}
}

func TestSessionToken_SwappedEmail(t *testing.T) {
	secret := SessionSecretBytes("test-secret")

	token := CreateSessionToken("admin@example.org", secret)
	sig := strings.SplitN(token, ".", 2)[1]
	forged := CreateSessionToken("attacker@example.org", SessionSecretBytes("x"))
	forgedPayload := strings.SplitN(forged, ".", 2)[0]

	if _, err := VerifySessionToken(forgedPayload+"."+sig, secret); err == nil {
		t.Error("expected payload swap to invalidate the signature")
	}
}

func TestSessionToken_MalformedTokens(t *testing.T) {
	secret := SessionSecretBytes("test-secret")

	for _, token := range []string{"", "no-dot", "!!!.abcd", "YWRtaW4=."} {
		if _, err := VerifySessionToken(token, secret); err == nil {
			t.Errorf("expected %q to fail verification", token)
		}
	}
}

func TestSessionSecretBytes_PadsShortSecrets(t *testing.T) {
	b := SessionSecretBytes("short")
	if len(b) != 32 {
		t.Errorf("expected 32-byte key, got %d", len(b))
	}
	if string(b[:5]) != "short" {
		t.Errorf("expected key to start with the secret, got %q", b[:5])
	}

	long := strings.Repeat("x", 40)
	if got := SessionSecretBytes(long); len(got) != 40 {
		t.Errorf("expected long secret kept as is, got %d bytes", len(got))
	}
}

// ---------------------------------------------------------------------------
// RequireAdmin
// ---------------------------------------------------------------------------

func TestRequireAdmin_NoCookie(t *testing.T) {
	secret := SessionSecretBytes("test-secret")
	handler := RequireAdmin(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unauthorized") {
		t.Errorf("expected unauthorized error body, got %s", rec.Body.String())
	}
}

func TestRequireAdmin_InvalidCookie(t *testing.T) {
	secret := SessionSecretBytes("test-secret")
	handler := RequireAdmin(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a bad session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName(), Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_session") {
		t.Errorf("expected invalid_session error body, got %s", rec.Body.String())
	}
}

func TestRequireAdmin_ValidSessionPassesEmailThrough(t *testing.T) {
	secret := SessionSecretBytes("test-secret")

	var gotEmail string
	handler := RequireAdmin(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = AdminEmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(&http.Cookie{
		Name:  SessionCookieName(),
		Value: CreateSessionToken("admin@example.org", secret),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotEmail != "admin@example.org" {
		t.Errorf("expected admin email on context, got %q", gotEmail)
	}
}
