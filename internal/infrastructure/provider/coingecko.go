package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"btcanalytics-service/internal/application"
	"btcanalytics-service/internal/domain"
	"btcanalytics-service/internal/infrastructure/httpx"
)

const (
	simplePricePath = "/simple/price"
	demoKeyHeader   = "x-cg-demo-api-key"
)

type CoinGecko struct {
	BaseURL  string
	Asset    string
	Currency string
	Client   *httpx.Client
}

var (
	_ application.QuoteSource   = (*CoinGecko)(nil)
	_ application.PayloadParser = (*CoinGecko)(nil)
)

// NewCoinGecko sends apiKey as the demo-plan header when it is non-empty.
func NewCoinGecko(baseURL, apiKey, asset, currency string, timeout time.Duration) *CoinGecko {
	c := httpx.New(timeout)
	if apiKey != "" {
		c.Header.Set(demoKeyHeader, apiKey)
	}
	return &CoinGecko{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Asset:    asset,
		Currency: strings.ToLower(currency),
		Client:   c,
	}
}

func (p *CoinGecko) Name() string { return domain.SourceCoinGecko }

// Fetch issues exactly one /simple/price request. Transport, timeout and
// status failures wrap application.ErrFetch; an undecodable body does not.
func (p *CoinGecko) Fetch(ctx context.Context) (domain.Quote, error) {
	u, err := url.Parse(p.BaseURL + simplePricePath)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: coingecko: invalid base url: %w", application.ErrFetch, err)
	}
	q := u.Query()
	q.Set("ids", p.Asset)
	q.Set("vs_currencies", p.Currency)
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")
	q.Set("include_24hr_change", "true")
	u.RawQuery = q.Encode()

	body, err := p.Client.GetBytes(ctx, u.String())
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: coingecko: %w", application.ErrFetch, err)
	}
	return p.Parse(body)
}

func (p *CoinGecko) Parse(raw []byte) (domain.Quote, error) {
	return domain.ParseSimplePrice(raw, p.Asset, p.Currency)
}
