// Package datastore provides a uniform save/load interface for named JSON
// documents over pluggable backends. Admin tooling persists whole content
// blobs ("homepage content", "opportunities list") under caller-chosen keys
// without knowing where they physically live.
//
// Every operation swallows backend failures: errors are logged and the
// caller gets a safe default (false, the provided default value, or an
// empty map). Callers check booleans, never handle errors. This also means
// Load cannot distinguish "absent" from "failed" — both return the
// default; the distinction is only visible in the logs.
package datastore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Store is the persistence facade. Values are arbitrary JSON-serializable
// documents; every Save fully replaces the prior value under its key.
type Store interface {
	Save(ctx context.Context, key string, value any) bool
	Load(ctx context.Context, key string, defaultValue any) any
	Delete(ctx context.Context, key string) bool
	Clear(ctx context.Context) bool
	Export(ctx context.Context) map[string]any
	Import(ctx context.Context, data map[string]any) bool
	Backup(ctx context.Context) []byte
	Restore(ctx context.Context, data []byte) bool
	Validate(ctx context.Context, key string) Validation
	Statistics(ctx context.Context) Statistics
}

// Validation is the result of Validate: an existence check, not a schema
// validator.
type Validation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Statistics is best-effort backend introspection. Fields beyond Provider
// and Timestamp are filled in only where the backend can answer cheaply.
type Statistics struct {
	Provider   string    `json:"provider"`
	Timestamp  time.Time `json:"timestamp"`
	TotalItems int       `json:"total_items,omitempty"`
	TotalSize  int       `json:"total_size,omitempty"`
	Keys       []string  `json:"keys,omitempty"`
}

// New selects a backend by provider name. The choice is made once at
// startup; there is no runtime switching. Unknown providers fall back to
// memory.
func New(provider, apiBaseURL string) Store {
	switch provider {
	case "api":
		return NewAPIStore(apiBaseURL)
	case "", "memory":
		return NewMemoryStore()
	default:
		slog.Warn("unknown data provider, using memory", "provider", provider)
		return NewMemoryStore()
	}
}

// marshalBackup renders an export as a pretty-printed JSON document
// suitable for writing to a backup file.
func marshalBackup(data map[string]any) []byte {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("backup marshal failed", "error", err)
		return nil
	}
	return out
}

// unmarshalBackup parses a backup document back into an import mapping.
func unmarshalBackup(raw []byte) (map[string]any, bool) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Error("restore parse failed", "error", err)
		return nil, false
	}
	return data, true
}

// validateKey is the shared existence check behind Validate.
func validateKey(ctx context.Context, s Store, key string) Validation {
	var errs []string
	if s.Load(ctx, key, nil) == nil {
		errs = append(errs, "Data not found")
	}
	return Validation{IsValid: len(errs) == 0, Errors: errs}
}
