package domain

import "time"

// Observation is one persisted price snapshot. ID and ObservedAt are assigned
// by the store that created it and never change afterwards.
type Observation struct {
	ID             int64
	ObservedAt     time.Time
	Price          float64
	MarketCap      int64
	Volume24h      int64
	PriceChange24h float64
	RawPayload     []byte
}
