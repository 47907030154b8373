package datastore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

// dataServer is a minimal in-memory stand-in for the content server's
// /api/data endpoints, enough to exercise the remote backend end to end.
func dataServer(t *testing.T) (*httptest.Server, map[string]json.RawMessage) {
	t.Helper()
	records := map[string]json.RawMessage{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/data/export", func(w http.ResponseWriter, r *http.Request) {
		out := map[string]json.RawMessage{}
		for k, v := range records {
			out[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /api/data/import", func(w http.ResponseWriter, r *http.Request) {
		var incoming map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for k, v := range incoming {
			records[k] = v
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/data/clear", func(w http.ResponseWriter, r *http.Request) {
		for k := range records {
			delete(records, k)
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/data/{key}", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		records[r.PathValue("key")] = body
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/data/{key}", func(w http.ResponseWriter, r *http.Request) {
		raw, ok := records[r.PathValue("key")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	})
	mux.HandleFunc("DELETE /api/data/{key}", func(w http.ResponseWriter, r *http.Request) {
		delete(records, r.PathValue("key"))
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, records
}

func TestAPIStore_SaveLoadRoundTrip(t *testing.T) {
	server, _ := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	value := map[string]any{"title": "Homepage", "sections": []any{"hero", "about"}}
	if !s.Save(ctx, "homepage", value) {
		t.Fatal("Save returned false")
	}

	got := s.Load(ctx, "homepage", nil)
	if !reflect.DeepEqual(got, value) {
		t.Errorf("round trip mismatch: got %v, want %v", got, value)
	}
}

func TestAPIStore_LoadMissingReturnsDefault(t *testing.T) {
	server, _ := dataServer(t)
	s := NewAPIStore(server.URL)

	got := s.Load(context.Background(), "nope", "fallback")
	if got != "fallback" {
		t.Errorf("expected default for 404, got %v", got)
	}
}

func TestAPIStore_SaveServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	s := NewAPIStore(server.URL)

	if s.Save(context.Background(), "k", 1) {
		t.Error("expected Save to report failure on 500")
	}
}

func TestAPIStore_DeleteIsIdempotent(t *testing.T) {
	server, records := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	s.Save(ctx, "k", 1)
	if !s.Delete(ctx, "k") {
		t.Error("delete of existing key should succeed")
	}
	if !s.Delete(ctx, "k") {
		t.Error("delete of missing key should also succeed")
	}
	if len(records) != 0 {
		t.Errorf("expected empty server state, got %v", records)
	}
}

func TestAPIStore_KeyIsPathEscaped(t *testing.T) {
	server, records := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	if !s.Save(ctx, "site settings/v2", "x") {
		t.Fatal("Save returned false")
	}
	if _, ok := records["site settings/v2"]; !ok {
		t.Errorf("expected escaped key to round trip, got keys %v", records)
	}
	if got := s.Load(ctx, "site settings/v2", nil); got != "x" {
		t.Errorf("expected x back for escaped key, got %v", got)
	}
}

func TestAPIStore_ClearAndExport(t *testing.T) {
	server, _ := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	s.Save(ctx, "a", 1)
	s.Save(ctx, "b", 2)

	data := s.Export(ctx)
	if len(data) != 2 {
		t.Fatalf("expected 2 exported records, got %d", len(data))
	}

	if !s.Clear(ctx) {
		t.Fatal("Clear returned false")
	}
	if data := s.Export(ctx); len(data) != 0 {
		t.Errorf("expected empty export after clear, got %v", data)
	}
}

func TestAPIStore_ExportFailureYieldsEmptyMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	s := NewAPIStore(server.URL)

	data := s.Export(context.Background())
	if data == nil || len(data) != 0 {
		t.Errorf("expected empty non-nil map on export failure, got %v", data)
	}
}

func TestAPIStore_ImportMergesOnServer(t *testing.T) {
	server, _ := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	s.Save(ctx, "keep", "original")
	if !s.Import(ctx, map[string]any{"added": "fresh"}) {
		t.Fatal("Import returned false")
	}

	data := s.Export(ctx)
	if data["keep"] != "original" || data["added"] != "fresh" {
		t.Errorf("expected additive merge, got %v", data)
	}
}

func TestAPIStore_BackupIsPrettyPrinted(t *testing.T) {
	server, _ := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	s.Save(ctx, "settings", map[string]any{"theme": "dark"})

	snapshot := s.Backup(ctx)
	if !json.Valid(snapshot) {
		t.Fatal("backup is not valid JSON")
	}
	if !strings.Contains(string(snapshot), "\n  ") {
		t.Error("expected indented backup document")
	}
}

func TestAPIStore_RestoreRoundTrip(t *testing.T) {
	server, _ := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	s.Save(ctx, "settings", map[string]any{"theme": "dark"})
	snapshot := s.Backup(ctx)

	s.Clear(ctx)
	if !s.Restore(ctx, snapshot) {
		t.Fatal("Restore returned false")
	}
	got := s.Load(ctx, "settings", nil)
	if !reflect.DeepEqual(got, map[string]any{"theme": "dark"}) {
		t.Errorf("expected restored settings, got %v", got)
	}
}

func TestAPIStore_Validate(t *testing.T) {
	server, _ := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	s.Save(ctx, "present", 1)

	if v := s.Validate(ctx, "present"); !v.IsValid {
		t.Errorf("expected present key to validate, got %v", v.Errors)
	}
	v := s.Validate(ctx, "absent")
	if v.IsValid {
		t.Error("expected absent key to fail validation")
	}
	if len(v.Errors) != 1 || v.Errors[0] != "Data not found" {
		t.Errorf("expected [Data not found], got %v", v.Errors)
	}
}

// Statistics comes from a full export since the remote contract has no
// dedicated stats endpoint.
func TestAPIStore_StatisticsFromExport(t *testing.T) {
	server, _ := dataServer(t)
	s := NewAPIStore(server.URL)
	ctx := context.Background()

	s.Save(ctx, "b", "two")
	s.Save(ctx, "a", "one")

	stats := s.Statistics(ctx)
	if stats.Provider != "api" {
		t.Errorf("expected provider api, got %q", stats.Provider)
	}
	if stats.TotalItems != 2 {
		t.Errorf("expected 2 items, got %d", stats.TotalItems)
	}
	if len(stats.Keys) != 2 || stats.Keys[0] != "a" || stats.Keys[1] != "b" {
		t.Errorf("expected sorted keys [a b], got %v", stats.Keys)
	}
}
