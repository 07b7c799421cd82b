package config

import "time"

const (
	DefaultHTTPPort         = "5000"
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultRequestTimeout   = 30 * time.Second
	DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	DefaultAssetID          = "bitcoin"
	DefaultVsCurrency       = "usd"
	DefaultRedisKeyPrefix   = "btcanalytics"
	DefaultPGMaxConns       = 5
	DefaultPGMinConns       = 1
	DefaultPGMaxConnIdle    = 2 * time.Minute
	DefaultReadHeaderTime   = 5 * time.Second
	DefaultAuditFormat      = "parquet"
	DefaultAuditOut         = "audit"
)
