package datastore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// MemoryStore is the ephemeral backend: named records live in process
// memory and vanish on restart. Values are held in serialized form so
// callers can never share or mutate stored state through a loaded value.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]json.RawMessage
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]json.RawMessage)}
}

var _ Store = (*MemoryStore)(nil)

// Save serializes value and fully replaces any prior record under key.
func (s *MemoryStore) Save(_ context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Error("datastore save failed", "key", key, "error", err)
		return false
	}
	s.mu.Lock()
	s.records[key] = raw
	s.mu.Unlock()
	return true
}

// Load returns the value stored under key, or defaultValue if the key was
// never saved or the stored bytes fail to parse.
func (s *MemoryStore) Load(_ context.Context, key string, defaultValue any) any {
	s.mu.RLock()
	raw, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return defaultValue
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		slog.Error("datastore load failed", "key", key, "error", err)
		return defaultValue
	}
	return value
}

// Delete removes the record under key. Deleting a missing key succeeds.
func (s *MemoryStore) Delete(_ context.Context, key string) bool {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return true
}

// Clear removes every record.
func (s *MemoryStore) Clear(_ context.Context) bool {
	s.mu.Lock()
	s.records = make(map[string]json.RawMessage)
	s.mu.Unlock()
	return true
}

// Export returns every record, parsed, keyed by name.
func (s *MemoryStore) Export(_ context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := make(map[string]any, len(s.records))
	for key, raw := range s.records {
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			slog.Error("datastore export: skipping unparseable record", "key", key, "error", err)
			continue
		}
		data[key] = value
	}
	return data
}

// Import saves every entry of data, overwriting existing keys. Keys absent
// from data are left alone (additive merge, not replace-all).
func (s *MemoryStore) Import(ctx context.Context, data map[string]any) bool {
	ok := true
	for key, value := range data {
		if !s.Save(ctx, key, value) {
			ok = false
		}
	}
	return ok
}

// Backup renders the full export as pretty-printed JSON.
func (s *MemoryStore) Backup(ctx context.Context) []byte {
	return marshalBackup(s.Export(ctx))
}

// Restore parses a backup document and imports it.
func (s *MemoryStore) Restore(ctx context.Context, raw []byte) bool {
	data, ok := unmarshalBackup(raw)
	if !ok {
		return false
	}
	return s.Import(ctx, data)
}

// Validate checks that a record exists under key.
func (s *MemoryStore) Validate(ctx context.Context, key string) Validation {
	return validateKey(ctx, s, key)
}

// Statistics reports item count, total serialized size, and the key list.
func (s *MemoryStore) Statistics(_ context.Context) Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{
		Provider:   "memory",
		Timestamp:  time.Now().UTC(),
		TotalItems: len(s.records),
		Keys:       make([]string, 0, len(s.records)),
	}
	for key, raw := range s.records {
		stats.TotalSize += len(raw)
		stats.Keys = append(stats.Keys, key)
	}
	sort.Strings(stats.Keys)
	return stats
}
