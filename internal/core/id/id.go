// Package id defines entity identifiers. New identifiers are UUIDv7, so
// they sort by creation time.
package id

import "github.com/google/uuid"

// ID identifies every catalog, document and rule.
type ID = uuid.UUID

// New returns a fresh UUIDv7, or a random v4 if the clock source fails.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse parses the canonical textual form.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse is Parse for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether v is the zero ID.
func IsNil(v ID) bool {
	return v == uuid.Nil
}

// IsSet reports whether an optional reference points somewhere.
func IsSet(p *ID) bool {
	return p != nil && *p != uuid.Nil
}
