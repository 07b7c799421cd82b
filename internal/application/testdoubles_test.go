package application

import (
	"context"
	"errors"
	"time"

	"btcanalytics-service/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

type fakeStore struct {
	rows []domain.Observation
	now  time.Time
	err  error
}

func (f *fakeStore) Append(_ context.Context, q domain.Quote) (domain.Observation, error) {
	if f.err != nil {
		return domain.Observation{}, f.err
	}
	if f.now.IsZero() {
		f.now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	f.now = f.now.Add(time.Second)
	o := domain.Observation{
		ID:             int64(len(f.rows) + 1),
		ObservedAt:     f.now,
		Price:          q.Price,
		MarketCap:      q.MarketCap,
		Volume24h:      q.Volume24h,
		PriceChange24h: q.PriceChange24h,
		RawPayload:     q.Raw,
	}
	f.rows = append(f.rows, o)
	return o, nil
}

func (f *fakeStore) Recent(_ context.Context, limit int) ([]domain.Observation, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Observation{}
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.rows[i])
	}
	return out, nil
}

func (f *fakeStore) After(_ context.Context, afterID int64, limit int) ([]domain.Observation, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Observation{}
	for _, o := range f.rows {
		if o.ID > afterID && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.rows)), nil
}

func (f *fakeStore) Earliest(context.Context) (domain.Observation, bool, error) {
	if f.err != nil {
		return domain.Observation{}, false, f.err
	}
	if len(f.rows) == 0 {
		return domain.Observation{}, false, nil
	}
	return f.rows[0], true, nil
}

func (f *fakeStore) Latest(context.Context) (domain.Observation, bool, error) {
	if f.err != nil {
		return domain.Observation{}, false, f.err
	}
	if len(f.rows) == 0 {
		return domain.Observation{}, false, nil
	}
	return f.rows[len(f.rows)-1], true, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

type fakeSource struct {
	out domain.Quote
	err error
}

func (f *fakeSource) Name() string { return domain.SourceCoinGecko }

func (f *fakeSource) Fetch(context.Context) (domain.Quote, error) {
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return f.out, nil
}

type simplePriceParser struct{}

func (simplePriceParser) Parse(raw []byte) (domain.Quote, error) {
	return domain.ParseSimplePrice(raw, "bitcoin", "usd")
}
