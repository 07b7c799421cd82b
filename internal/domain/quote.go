package domain

import "time"

const SourceCoinGecko = "CoinGecko"

// Quote holds the values parsed from one source response, before persistence.
type Quote struct {
	Price          float64
	MarketCap      int64
	Volume24h      int64
	PriceChange24h float64
	Raw            []byte
}

// CurrentQuote is what a successful ingest reports back to its caller.
type CurrentQuote struct {
	Price          float64
	MarketCap      int64
	Volume24h      int64
	PriceChange24h float64
	LastUpdated    time.Time
	Source         string
}

func CurrentFromObservation(o Observation, source string) CurrentQuote {
	return CurrentQuote{
		Price:          o.Price,
		MarketCap:      o.MarketCap,
		Volume24h:      o.Volume24h,
		PriceChange24h: o.PriceChange24h,
		LastUpdated:    o.ObservedAt,
		Source:         source,
	}
}
