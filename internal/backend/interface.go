package backend

import (
	"context"

	"ghostledger/internal/storage"
)

// CleanupFunc releases the resources behind a slot.
type CleanupFunc func() error

// BackendResult contains the slot and an optional cleanup function.
type BackendResult struct {
	Slot    storage.Slot
	Cleanup CleanupFunc
}

// Factory creates storage slots based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	DataDirectory string // file
	SQLiteDBPath  string // sqlite
	PostgresURL   string // postgres
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	FileBackend     BackendType = "file"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
