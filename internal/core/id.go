package core

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator produces record ids.
type IDGenerator func() string

// NewID returns a time-ordered UUIDv7, falling back to a random v4 if the
// clock source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SequentialIDs returns a generator yielding prefix1, prefix2, ...
func SequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}
