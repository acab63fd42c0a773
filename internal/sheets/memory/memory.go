// Package memory is an in-process sheets adapter for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"moneyx/internal/sheets"
)

var (
	_ sheets.Exporter          = (*Store)(nil)
	_ sheets.TransactionLister = (*Store)(nil)
)

type Store struct {
	mu   sync.Mutex
	next int
	rows map[string]sheets.Row
}

func New() *Store {
	return &Store{rows: make(map[string]sheets.Row)}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, r sheets.Row) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	ref := fmt.Sprintf("mem:%d", s.next)
	s.rows[ref] = r
	return ref, nil
}

func (s *Store) DeleteRow(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[ref]; !ok {
		return fmt.Errorf("%w: %s", sheets.ErrUnknownRef, ref)
	}
	delete(s.rows, ref)
	return nil
}

// ListTransactions returns the month's rows in date order.
func (s *Store) ListTransactions(_ context.Context, year int, month int) ([]sheets.Row, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sheets.Row
	for _, r := range s.rows {
		if r.Date.Year() == year && int(r.Date.Month()) == month {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out, nil
}

// Len reports how many rows are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
