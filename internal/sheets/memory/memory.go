// Package memory is an in-memory ReportWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"pondok/internal/core"
)

type Store struct {
	mu   sync.Mutex
	rows []core.Transaksi
}

func New() *Store {
	return &Store{}
}

// AppendTransaction stores the row and returns a synthetic reference.
func (s *Store) AppendTransaction(_ context.Context, trx core.Transaksi) (string, error) {
	if err := trx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, trx)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of the appended rows.
func (s *Store) Rows() []core.Transaksi {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaksi(nil), s.rows...)
}
