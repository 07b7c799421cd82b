// Package memory is an in-process ObservationStore for local runs and tests.
// Contents are lost when the process exits.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"btcanalytics-service/internal/domain"
)

type Store struct {
	mu   sync.RWMutex
	rows []domain.Observation
	now  func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now as the source of ObservedAt.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Append(_ context.Context, q domain.Quote) (domain.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now().UTC()
	var id int64 = 1
	if n := len(s.rows); n > 0 {
		last := s.rows[n-1]
		id = last.ID + 1
		if at.Before(last.ObservedAt) {
			at = last.ObservedAt
		}
	}
	o := domain.Observation{
		ID:             id,
		ObservedAt:     at,
		Price:          q.Price,
		MarketCap:      q.MarketCap,
		Volume24h:      q.Volume24h,
		PriceChange24h: q.PriceChange24h,
		RawPayload:     slices.Clone(q.Raw),
	}
	s.rows = append(s.rows, o)
	return detach(o), nil
}

func (s *Store) Recent(_ context.Context, limit int) ([]domain.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Observation, 0, max(0, min(limit, len(s.rows))))
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, detach(s.rows[i]))
	}
	return out, nil
}

func (s *Store) After(_ context.Context, afterID int64, limit int) ([]domain.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, _ := slices.BinarySearchFunc(s.rows, afterID+1, func(o domain.Observation, id int64) int {
		switch {
		case o.ID < id:
			return -1
		case o.ID > id:
			return 1
		}
		return 0
	})
	end := min(len(s.rows), start+max(0, limit))
	out := make([]domain.Observation, 0, end-start)
	for _, o := range s.rows[start:end] {
		out = append(out, detach(o))
	}
	return out, nil
}

func (s *Store) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

func (s *Store) Earliest(context.Context) (domain.Observation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.rows) == 0 {
		return domain.Observation{}, false, nil
	}
	return detach(s.rows[0]), true, nil
}

func (s *Store) Latest(context.Context) (domain.Observation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.rows) == 0 {
		return domain.Observation{}, false, nil
	}
	return detach(s.rows[len(s.rows)-1]), true, nil
}

func (s *Store) Ping(context.Context) error { return nil }

// detach gives callers their own copy of the raw payload; stored rows are
// never shared.
func detach(o domain.Observation) domain.Observation {
	o.RawPayload = slices.Clone(o.RawPayload)
	return o
}
