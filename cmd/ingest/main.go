// Command ingest fetches one quote, stores it and prints what was stored.
// It exits non-zero on failure, so a cron entry can drive it.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"btcanalytics-service/internal/bootstrap"
	"btcanalytics-service/internal/config"
	"btcanalytics-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

type output struct {
	Price          float64 `json:"price"`
	MarketCap      int64   `json:"market_cap"`
	Volume24h      int64   `json:"volume_24h"`
	PriceChange24h float64 `json:"price_change_24h"`
	LastUpdated    string  `json:"last_updated"`
	Source         string  `json:"source"`
}

func main() {
	log := logx.L()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	logx.SetLevel(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	svc, cleanup, err := bootstrap.InitIngest(ctx, cfg)
	if err != nil {
		log.Fatal("init ingest", zap.Error(err))
	}

	cur, err := svc.IngestOnce(ctx)
	if err != nil {
		log.Error("ingest failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	cleanup()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(output{
		Price:          cur.Price,
		MarketCap:      cur.MarketCap,
		Volume24h:      cur.Volume24h,
		PriceChange24h: cur.PriceChange24h,
		LastUpdated:    cur.LastUpdated.UTC().Format(time.RFC3339Nano),
		Source:         cur.Source,
	})
}
