package application

import (
	"context"
	"fmt"
	"strings"

	"btcanalytics-service/internal/domain"
)

const DefaultAuditPageSize = 500

// Auditor walks the whole store and decodes every raw payload again, checking
// it still yields the values that were stored next to it.
type Auditor struct {
	store    ObservationStore
	parser   PayloadParser
	pageSize int
}

func NewAuditor(store ObservationStore, parser PayloadParser, pageSize int) *Auditor {
	if pageSize <= 0 {
		pageSize = DefaultAuditPageSize
	}
	return &Auditor{store: store, parser: parser, pageSize: pageSize}
}

// Run returns one record per stored observation, oldest first.
func (a *Auditor) Run(ctx context.Context) ([]domain.AuditRecord, error) {
	var (
		out   []domain.AuditRecord
		after int64
	)
	for {
		page, err := a.store.After(ctx, after, a.pageSize)
		if err != nil {
			return nil, fmt.Errorf("%w: observations after %d: %w", ErrStorage, after, err)
		}
		for _, o := range page {
			out = append(out, a.check(o))
		}
		if len(page) < a.pageSize {
			return out, nil
		}
		after = page[len(page)-1].ID
	}
}

func (a *Auditor) check(o domain.Observation) domain.AuditRecord {
	rec := domain.AuditRecord{Observation: o}
	if len(o.RawPayload) == 0 {
		rec.Issue = "raw payload missing"
		return rec
	}
	q, err := a.parser.Parse(o.RawPayload)
	if err != nil {
		rec.Issue = err.Error()
		return rec
	}
	rec.PayloadValid = true

	var diff []string
	if q.Price != o.Price {
		diff = append(diff, "price")
	}
	if q.MarketCap != o.MarketCap {
		diff = append(diff, "market_cap")
	}
	if q.Volume24h != o.Volume24h {
		diff = append(diff, "volume_24h")
	}
	if q.PriceChange24h != o.PriceChange24h {
		diff = append(diff, "price_change_24h")
	}
	rec.Consistent = len(diff) == 0
	if !rec.Consistent {
		rec.Issue = "payload disagrees on " + strings.Join(diff, ", ")
	}
	return rec
}
