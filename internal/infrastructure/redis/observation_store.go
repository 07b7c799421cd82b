package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"btcanalytics-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// appendScript allocates the next id and a millisecond timestamp that never
// goes backwards, both from the server so every writer agrees on the order.
var appendScript = redis.NewScript(`
local id = redis.call('INCR', KEYS[1])
local t = redis.call('TIME')
local ms = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)
local last = tonumber(redis.call('GET', KEYS[2]) or '0')
if ms < last then ms = last end
redis.call('SET', KEYS[2], ms)
return {id, ms}
`)

type record struct {
	ID             int64     `json:"id"`
	ObservedAt     time.Time `json:"observed_at"`
	Price          float64   `json:"price"`
	MarketCap      int64     `json:"market_cap"`
	Volume24h      int64     `json:"volume_24h"`
	PriceChange24h float64   `json:"price_change_24h"`
	RawPayload     []byte    `json:"raw_payload,omitempty"`
}

// ObservationStore keeps observations in a sorted set scored by id.
type ObservationStore struct {
	Client *redis.Client
	prefix string
	log    *zap.Logger
}

func NewObservationStore(client *redis.Client, prefix string, log *zap.Logger) *ObservationStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ObservationStore{Client: client, prefix: prefix, log: log}
}

func (s *ObservationStore) seqKey() string   { return s.prefix + ":seq" }
func (s *ObservationStore) clockKey() string { return s.prefix + ":clock" }
func (s *ObservationStore) setKey() string   { return s.prefix + ":observations" }

func (s *ObservationStore) Append(ctx context.Context, q domain.Quote) (domain.Observation, error) {
	ids, err := appendScript.Run(ctx, s.Client, []string{s.seqKey(), s.clockKey()}).Int64Slice()
	if err != nil {
		s.log.Error("redis.append_failed", zap.Error(err))
		return domain.Observation{}, fmt.Errorf("allocate id: %w", err)
	}
	if len(ids) != 2 {
		return domain.Observation{}, fmt.Errorf("allocate id: unexpected reply %v", ids)
	}
	rec := record{
		ID:             ids[0],
		ObservedAt:     time.UnixMilli(ids[1]).UTC(),
		Price:          q.Price,
		MarketCap:      q.MarketCap,
		Volume24h:      q.Volume24h,
		PriceChange24h: q.PriceChange24h,
		RawPayload:     q.Raw,
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return domain.Observation{}, err
	}
	if err := s.Client.ZAdd(ctx, s.setKey(), redis.Z{Score: float64(rec.ID), Member: b}).Err(); err != nil {
		s.log.Error("redis.append_failed", zap.Int64("id", rec.ID), zap.Error(err))
		return domain.Observation{}, err
	}
	s.log.Debug("redis.append", zap.Int64("id", rec.ID))
	return rec.observation(), nil
}

func (s *ObservationStore) Recent(ctx context.Context, limit int) ([]domain.Observation, error) {
	if limit <= 0 {
		return []domain.Observation{}, nil
	}
	members, err := s.Client.ZRevRange(ctx, s.setKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	return decodeAll(members)
}

func (s *ObservationStore) After(ctx context.Context, afterID int64, limit int) ([]domain.Observation, error) {
	if limit <= 0 {
		return []domain.Observation{}, nil
	}
	members, err := s.Client.ZRangeByScore(ctx, s.setKey(), &redis.ZRangeBy{
		Min:   "(" + strconv.FormatInt(afterID, 10),
		Max:   "+inf",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}
	return decodeAll(members)
}

func (s *ObservationStore) Count(ctx context.Context) (int64, error) {
	return s.Client.ZCard(ctx, s.setKey()).Result()
}

func (s *ObservationStore) Earliest(ctx context.Context) (domain.Observation, bool, error) {
	return s.edge(s.Client.ZRange(ctx, s.setKey(), 0, 0))
}

func (s *ObservationStore) Latest(ctx context.Context) (domain.Observation, bool, error) {
	return s.edge(s.Client.ZRevRange(ctx, s.setKey(), 0, 0))
}

func (s *ObservationStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *ObservationStore) edge(cmd *redis.StringSliceCmd) (domain.Observation, bool, error) {
	members, err := cmd.Result()
	if err != nil {
		return domain.Observation{}, false, err
	}
	if len(members) == 0 {
		return domain.Observation{}, false, nil
	}
	o, err := decode(members[0])
	if err != nil {
		return domain.Observation{}, false, err
	}
	return o, true, nil
}

func (r record) observation() domain.Observation {
	return domain.Observation{
		ID:             r.ID,
		ObservedAt:     r.ObservedAt,
		Price:          r.Price,
		MarketCap:      r.MarketCap,
		Volume24h:      r.Volume24h,
		PriceChange24h: r.PriceChange24h,
		RawPayload:     r.RawPayload,
	}
}

func decode(member string) (domain.Observation, error) {
	var r record
	if err := json.Unmarshal([]byte(member), &r); err != nil {
		return domain.Observation{}, fmt.Errorf("decode observation: %w", err)
	}
	return r.observation(), nil
}

func decodeAll(members []string) ([]domain.Observation, error) {
	out := make([]domain.Observation, 0, len(members))
	for _, m := range members {
		o, err := decode(m)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
