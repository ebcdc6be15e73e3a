// Package memory is an in-process ledger.Repository used in development mode
// and in tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/utang/internal/ledger"
)

type Store struct {
	mu      sync.RWMutex
	records []ledger.Record // insertion order
}

func New(records ...ledger.Record) *Store {
	s := &Store{}
	s.Add(records...)

	return s
}

// Add appends records in the given order, which becomes their insertion order.
func (s *Store) Add(records ...ledger.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, records...)
}

func (s *Store) FetchPairHistory(ctx context.Context, a, b ledger.UserID) ([]ledger.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.Record, 0)

	for _, rec := range s.records {
		if (rec.PayerID == a && rec.PayeeID == b) || (rec.PayerID == b && rec.PayeeID == a) {
			out = append(out, rec)
		}
	}

	slices.SortStableFunc(out, func(x, y ledger.Record) int {
		return y.Date.Compare(x.Date)
	})

	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
