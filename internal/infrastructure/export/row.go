package export

import (
	"time"

	"btcanalytics-service/internal/domain"
)

// Row is the flat shape written by every Saver.
type Row struct {
	ID             int64   `json:"id" parquet:"id"`
	ObservedAt     string  `json:"observed_at" parquet:"observed_at"`
	Price          float64 `json:"price" parquet:"price"`
	MarketCap      int64   `json:"market_cap" parquet:"market_cap"`
	Volume24h      int64   `json:"volume_24h" parquet:"volume_24h"`
	PriceChange24h float64 `json:"price_change_24h" parquet:"price_change_24h"`
	RawPayload     string  `json:"raw_payload,omitempty" parquet:"raw_payload,optional"`
	PayloadValid   bool    `json:"payload_valid" parquet:"payload_valid"`
	Consistent     bool    `json:"consistent" parquet:"consistent"`
	Issue          string  `json:"issue,omitempty" parquet:"issue,optional"`
}

func Rows(records []domain.AuditRecord) []Row {
	out := make([]Row, 0, len(records))
	for _, r := range records {
		out = append(out, Row{
			ID:             r.ID,
			ObservedAt:     r.ObservedAt.UTC().Format(time.RFC3339Nano),
			Price:          r.Price,
			MarketCap:      r.MarketCap,
			Volume24h:      r.Volume24h,
			PriceChange24h: r.PriceChange24h,
			RawPayload:     string(r.RawPayload),
			PayloadValid:   r.PayloadValid,
			Consistent:     r.Consistent,
			Issue:          r.Issue,
		})
	}
	return out
}
