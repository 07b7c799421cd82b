package pg

import (
	"context"
	"errors"

	"btcanalytics-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const selectColumns = `id, observed_at, price, market_cap, volume_24h, price_change_24h, raw_payload`

type ObservationStore struct {
	db  *DB
	log *zap.Logger
}

func NewObservationStore(db *DB, log *zap.Logger) *ObservationStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ObservationStore{db: db, log: log}
}

// appendLockKey serializes appends so ids and observed_at advance together.
const appendLockKey int64 = 0x62746361

func (s *ObservationStore) Append(ctx context.Context, q domain.Quote) (domain.Observation, error) {
	const ins = `
        INSERT INTO price_data(observed_at, price, market_cap, volume_24h, price_change_24h, raw_payload)
        VALUES (
            GREATEST(clock_timestamp(), COALESCE((SELECT observed_at FROM price_data ORDER BY id DESC LIMIT 1), '-infinity')),
            $1, $2, $3, $4, $5)
        RETURNING id, observed_at`
	out := domain.Observation{
		Price:          q.Price,
		MarketCap:      q.MarketCap,
		Volume24h:      q.Volume24h,
		PriceChange24h: q.PriceChange24h,
		RawPayload:     q.Raw,
	}
	err := pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, appendLockKey); err != nil {
			return err
		}
		return tx.QueryRow(ctx, ins, q.Price, q.MarketCap, q.Volume24h, q.PriceChange24h, q.Raw).
			Scan(&out.ID, &out.ObservedAt)
	})
	if err != nil {
		s.log.Error("sql.append_failed", zap.Error(err))
		return domain.Observation{}, err
	}
	out.ObservedAt = out.ObservedAt.UTC()
	s.log.Debug("sql.append", zap.Int64("id", out.ID))
	return out, nil
}

func (s *ObservationStore) Recent(ctx context.Context, limit int) ([]domain.Observation, error) {
	if limit <= 0 {
		return []domain.Observation{}, nil
	}
	return s.query(ctx, "sql.recent",
		`SELECT `+selectColumns+` FROM price_data ORDER BY id DESC LIMIT $1`, limit)
}

func (s *ObservationStore) After(ctx context.Context, afterID int64, limit int) ([]domain.Observation, error) {
	if limit <= 0 {
		return []domain.Observation{}, nil
	}
	return s.query(ctx, "sql.after",
		`SELECT `+selectColumns+` FROM price_data WHERE id > $1 ORDER BY id ASC LIMIT $2`, afterID, limit)
}

func (s *ObservationStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.Pool.QueryRow(ctx, `SELECT count(*) FROM price_data`).Scan(&n); err != nil {
		s.log.Error("sql.count_failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (s *ObservationStore) Earliest(ctx context.Context) (domain.Observation, bool, error) {
	return s.one(ctx, "sql.earliest", `SELECT `+selectColumns+` FROM price_data ORDER BY id ASC LIMIT 1`)
}

func (s *ObservationStore) Latest(ctx context.Context) (domain.Observation, bool, error) {
	return s.one(ctx, "sql.latest", `SELECT `+selectColumns+` FROM price_data ORDER BY id DESC LIMIT 1`)
}

func (s *ObservationStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *ObservationStore) query(ctx context.Context, op, sql string, args ...any) ([]domain.Observation, error) {
	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		s.log.Error(op+"_failed", zap.Error(err))
		return nil, err
	}
	out, err := pgx.CollectRows(rows, scanObservation)
	if err != nil {
		s.log.Error(op+"_failed", zap.Error(err))
		return nil, err
	}
	s.log.Debug(op, zap.Int("rows", len(out)))
	return out, nil
}

func (s *ObservationStore) one(ctx context.Context, op, sql string) (domain.Observation, bool, error) {
	rows, err := s.db.Pool.Query(ctx, sql)
	if err != nil {
		s.log.Error(op+"_failed", zap.Error(err))
		return domain.Observation{}, false, err
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanObservation)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Observation{}, false, nil
	}
	if err != nil {
		s.log.Error(op+"_failed", zap.Error(err))
		return domain.Observation{}, false, err
	}
	return o, true, nil
}

func scanObservation(row pgx.CollectableRow) (domain.Observation, error) {
	var o domain.Observation
	err := row.Scan(&o.ID, &o.ObservedAt, &o.Price, &o.MarketCap, &o.Volume24h, &o.PriceChange24h, &o.RawPayload)
	o.ObservedAt = o.ObservedAt.UTC()
	return o, err
}
