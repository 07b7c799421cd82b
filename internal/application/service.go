package application

import (
	"context"
	"fmt"
	"slices"

	"btcanalytics-service/internal/domain"

	"go.uber.org/zap"
)

// HistoryLimit is the fixed window served by History.
const HistoryLimit = 20

type AnalyticsService struct {
	store  ObservationStore
	source QuoteSource
	log    *zap.Logger
}

type Option func(*AnalyticsService)

func WithLogger(l *zap.Logger) Option { return func(s *AnalyticsService) { s.log = l } }

func NewAnalyticsService(store ObservationStore, source QuoteSource, opts ...Option) *AnalyticsService {
	s := &AnalyticsService{
		store:  store,
		source: source,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// IngestOnce fetches one quote and appends it. A fetch failure is returned as
// is (it already wraps ErrFetch when it is one) and nothing is written; a store
// failure wraps ErrStorage and the fetched quote is dropped.
func (s *AnalyticsService) IngestOnce(ctx context.Context) (domain.CurrentQuote, error) {
	log := s.log.With(zap.String("source", s.source.Name()))

	q, err := s.source.Fetch(ctx)
	if err != nil {
		log.Warn("ingest.fetch_failed", zap.Error(err))
		return domain.CurrentQuote{}, err
	}

	obs, err := s.store.Append(ctx, q)
	if err != nil {
		log.Error("ingest.append_failed", zap.Error(err))
		return domain.CurrentQuote{}, fmt.Errorf("%w: append observation: %w", ErrStorage, err)
	}

	log.Info("ingest.persisted",
		zap.Int64("id", obs.ID),
		zap.Float64("price", obs.Price),
		zap.Time("observed_at", obs.ObservedAt),
	)
	return domain.CurrentFromObservation(obs, s.source.Name()), nil
}

// History returns the HistoryLimit most recent observations, oldest first.
func (s *AnalyticsService) History(ctx context.Context) ([]domain.Observation, error) {
	rows, err := s.store.Recent(ctx, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: recent observations: %w", ErrStorage, err)
	}
	slices.Reverse(rows)
	return rows, nil
}

func (s *AnalyticsService) Stats(ctx context.Context) (domain.Stats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("%w: count: %w", ErrStorage, err)
	}
	latest, ok, err := s.store.Latest(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("%w: latest: %w", ErrStorage, err)
	}
	out := domain.Stats{TotalRecords: total, DatabaseStatus: domain.DatabaseStatusConnected}
	if ok {
		ts := latest.ObservedAt
		out.LatestTimestamp = &ts
	}
	earliest, ok, err := s.store.Earliest(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("%w: earliest: %w", ErrStorage, err)
	}
	if ok {
		ts := earliest.ObservedAt
		out.OldestTimestamp = &ts
	}
	return out, nil
}

func (s *AnalyticsService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
