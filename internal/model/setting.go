package model

import (
	"encoding/json"
	"time"
)

// Setting is a single website setting row. Value is arbitrary JSON so a
// setting can hold a string, a flag, or a whole configuration object.
type Setting struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
