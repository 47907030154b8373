package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(3)
	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/forms", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2)
	h := rl.Middleware(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/forms", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		h.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1)
	h := rl.Middleware(okHandler())

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/forms", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	h.ServeHTTP(first, req)

	other := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/forms", nil)
	req2.RemoteAddr = "192.0.2.2:1234"
	h.ServeHTTP(other, req2)

	if other.Code != http.StatusOK {
		t.Errorf("expected second client unaffected, got %d", other.Code)
	}
}

// The limiter keys on the rightmost forwarded hop, the one our own proxy
// appended, so clients cannot dodge the limit by forging earlier entries.
func TestRateLimiter_UsesTrustedProxyHop(t *testing.T) {
	rl := NewRateLimiter(1)
	h := rl.Middleware(okHandler())

	for i, spoofed := range []string{"1.1.1.1", "2.2.2.2"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/forms", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", spoofed+", 203.0.113.50")
		h.ServeHTTP(rec, req)

		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected spoofed first hop to share one bucket, got %d", rec.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected Content-Security-Policy header")
	}
}

func TestRequestIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/forms", nil)
	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	req.Header.Set("X-Client-IP", "198.51.100.2")
	if got := requestIP(req); got != "203.0.113.9" {
		t.Errorf("expected first forwarded hop, got %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/forms", nil)
	req.Header.Set("X-Client-IP", "198.51.100.2")
	if got := requestIP(req); got != "198.51.100.2" {
		t.Errorf("expected X-Client-IP fallback, got %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/forms", nil)
	if got := requestIP(req); got != "unknown" {
		t.Errorf("expected unknown without headers, got %q", got)
	}
}
