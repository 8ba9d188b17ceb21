// Package uuid generates time-ordered identifiers for database keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. UUIDv7 is time-ordered, which keeps
// freshly inserted rows clustered in index order. Falls back to a
// random UUIDv4 if the system entropy source misbehaves.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
