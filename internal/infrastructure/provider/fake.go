package provider

import (
	"context"
	"encoding/json"

	"btcanalytics-service/internal/application"
	"btcanalytics-service/internal/domain"
)

var _ application.QuoteSource = (*Fake)(nil)

// Fake returns the same quote on every call, with a raw payload shaped like a
// CoinGecko /simple/price body so it passes the audit.
type Fake struct {
	quote domain.Quote
}

func NewFake(asset, currency string, price float64) *Fake {
	q := domain.Quote{
		Price:          price,
		MarketCap:      int64(price * 19_700_000),
		Volume24h:      int64(price * 450_000),
		PriceChange24h: 1.25,
	}
	f := domain.FieldsFor(currency)
	q.Raw, _ = json.Marshal(map[string]map[string]any{
		asset: {
			f.Price:     q.Price,
			f.MarketCap: q.MarketCap,
			f.Volume24h: q.Volume24h,
			f.Change24h: q.PriceChange24h,
		},
	})
	return &Fake{quote: q}
}

func (f *Fake) Name() string { return "Fake" }

func (f *Fake) Fetch(context.Context) (domain.Quote, error) {
	return f.quote, nil
}
