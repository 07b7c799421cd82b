package application

import (
	"context"

	"btcanalytics-service/internal/domain"
)

//go:generate mockgen -package=application -destination=mock_ports_test.go -source=ports.go

// ObservationStore is the append-only home of price observations. Rows are
// never updated or deleted.
type ObservationStore interface {
	// Append assigns ID and ObservedAt and persists all fields or none.
	Append(ctx context.Context, q domain.Quote) (domain.Observation, error)
	// Recent returns at most limit observations, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Observation, error)
	// After returns at most limit observations with ID > afterID, oldest first.
	After(ctx context.Context, afterID int64, limit int) ([]domain.Observation, error)
	Count(ctx context.Context) (int64, error)
	Earliest(ctx context.Context) (domain.Observation, bool, error)
	Latest(ctx context.Context) (domain.Observation, bool, error)
	Ping(ctx context.Context) error
}

type QuoteSource interface {
	Name() string
	// Fetch performs exactly one request. Transport and status failures wrap ErrFetch.
	Fetch(ctx context.Context) (domain.Quote, error)
}

type PayloadParser interface {
	Parse(raw []byte) (domain.Quote, error)
}
