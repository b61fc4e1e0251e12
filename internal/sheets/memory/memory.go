// Package memory is an in-process StatementWriter, used when no spreadsheet
// is configured and in tests.
package memory

import (
	"context"
	"sync"

	"ghostledger/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	last   sheets.Statement
	writes int
}

func New() *Store {
	return &Store{}
}

// ReplaceStatement keeps a copy of s.
func (s *Store) ReplaceStatement(_ context.Context, st sheets.Statement) error {
	rows := make([][]string, len(st.Rows))
	for i, r := range st.Rows {
		rows[i] = append([]string(nil), r...)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = sheets.Statement{Header: append([]string(nil), st.Header...), Rows: rows}
	s.writes++
	return nil
}

// Last returns the most recent statement and how many were written.
func (s *Store) Last() (sheets.Statement, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.writes
}
