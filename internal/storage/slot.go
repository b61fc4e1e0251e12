// Package storage persists opaque payloads under string keys. It is the Go
// side of the single key/value slot the ledger lives in.
package storage

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrSlotEmpty is returned by Read when the key has never been written.
	ErrSlotEmpty = errors.New("storage slot is empty")
	ErrRead      = errors.New("storage read failed")
	ErrWrite     = errors.New("storage write failed")
)

// Slot is a key/value store with whole-value overwrite semantics.
type Slot interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
}

// MemorySlot keeps values in process memory.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), v...), nil
}

func (m *MemorySlot) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrWrite, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}
