package util

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewULID returns a new lexicographically sortable identifier.
// ulid.Make draws from a process-wide monotonic entropy source and is safe for concurrent use.
func NewULID() string {
	return ulid.Make().String()
}

// IsULID reports whether s parses as a ULID.
func IsULID(s string) bool {
	if len(s) != ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(s))
	return err == nil
}
