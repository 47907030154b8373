package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// APIStore is the remote backend: each operation maps to an HTTP call
// against the content server's /api/data endpoints. Uses a raw HTTP
// client, no SDK.
type APIStore struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIStore creates an APIStore talking to the given base URL
// (e.g. "http://localhost:8080").
func NewAPIStore(baseURL string) *APIStore {
	return &APIStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Store = (*APIStore)(nil)

func (s *APIStore) keyURL(key string) string {
	return s.baseURL + "/api/data/" + url.PathEscape(key)
}

// do runs one request and returns the body for 2xx responses.
func (s *APIStore) do(ctx context.Context, method, rawURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("datastore api: %s %s: status %d", method, rawURL, resp.StatusCode)
	}
	return respBody, nil
}

// Save serializes value and POSTs it to the per-key resource.
func (s *APIStore) Save(ctx context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Error("datastore save failed", "key", key, "error", err)
		return false
	}
	if _, err := s.do(ctx, http.MethodPost, s.keyURL(key), raw); err != nil {
		slog.Error("datastore save failed", "key", key, "error", err)
		return false
	}
	return true
}

// Load GETs the per-key resource. Any failure — missing key, unreachable
// server, unparseable body — yields defaultValue.
func (s *APIStore) Load(ctx context.Context, key string, defaultValue any) any {
	body, err := s.do(ctx, http.MethodGet, s.keyURL(key), nil)
	if err != nil {
		slog.Error("datastore load failed", "key", key, "error", err)
		return defaultValue
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		slog.Error("datastore load failed", "key", key, "error", err)
		return defaultValue
	}
	return value
}

// Delete removes the per-key resource. The server treats missing keys as
// deleted, so delete stays idempotent across backends.
func (s *APIStore) Delete(ctx context.Context, key string) bool {
	if _, err := s.do(ctx, http.MethodDelete, s.keyURL(key), nil); err != nil {
		slog.Error("datastore delete failed", "key", key, "error", err)
		return false
	}
	return true
}

// Clear removes every record on the server.
func (s *APIStore) Clear(ctx context.Context) bool {
	if _, err := s.do(ctx, http.MethodPost, s.baseURL+"/api/data/clear", nil); err != nil {
		slog.Error("datastore clear failed", "error", err)
		return false
	}
	return true
}

// Export fetches every record. Failures yield an empty map.
func (s *APIStore) Export(ctx context.Context) map[string]any {
	body, err := s.do(ctx, http.MethodGet, s.baseURL+"/api/data/export", nil)
	if err != nil {
		slog.Error("datastore export failed", "error", err)
		return map[string]any{}
	}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		slog.Error("datastore export failed", "error", err)
		return map[string]any{}
	}
	return data
}

// Import uploads a mapping for the server to merge in.
func (s *APIStore) Import(ctx context.Context, data map[string]any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Error("datastore import failed", "error", err)
		return false
	}
	if _, err := s.do(ctx, http.MethodPost, s.baseURL+"/api/data/import", raw); err != nil {
		slog.Error("datastore import failed", "error", err)
		return false
	}
	return true
}

// Backup renders the full export as pretty-printed JSON.
func (s *APIStore) Backup(ctx context.Context) []byte {
	return marshalBackup(s.Export(ctx))
}

// Restore parses a backup document and imports it.
func (s *APIStore) Restore(ctx context.Context, raw []byte) bool {
	data, ok := unmarshalBackup(raw)
	if !ok {
		return false
	}
	return s.Import(ctx, data)
}

// Validate checks that a record exists under key.
func (s *APIStore) Validate(ctx context.Context, key string) Validation {
	return validateKey(ctx, s, key)
}

// Statistics derives counts from a full export; the remote contract has no
// dedicated stats endpoint.
func (s *APIStore) Statistics(ctx context.Context) Statistics {
	stats := Statistics{
		Provider:  "api",
		Timestamp: time.Now().UTC(),
	}
	data := s.Export(ctx)
	stats.TotalItems = len(data)
	for key, value := range data {
		stats.Keys = append(stats.Keys, key)
		if raw, err := json.Marshal(value); err == nil {
			stats.TotalSize += len(raw)
		}
	}
	sort.Strings(stats.Keys)
	return stats
}
