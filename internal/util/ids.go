package util

import "github.com/google/uuid"

// IsWellFormedID reports whether s parses as a UUID. Catalog fetch sets and
// path parameters are filtered through this so garbage ids never reach the
// database layer.
func IsWellFormedID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ShortID returns a truncated form of an id for placeholder display names.
func ShortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
