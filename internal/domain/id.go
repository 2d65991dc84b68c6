package domain

import (
	"strings"

	"github.com/google/uuid"
)

// SameID compares two identifiers by their canonical string form, so that
// differently cased or formatted UUIDs referring to the same record match.
func SameID(a, b string) bool {
	ua, errA := uuid.Parse(a)
	ub, errB := uuid.Parse(b)
	if errA == nil && errB == nil {
		return ua == ub
	}
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

// ValidID reports whether id is a well-formed record identifier.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}
