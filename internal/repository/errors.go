package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate")

// isDuplicateKey reports whether err is a Postgres unique-constraint
// violation. The insert path catches this in addition to any pre-check so
// a check-then-insert race still surfaces as ErrDuplicate.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
