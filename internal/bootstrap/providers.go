package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"btcanalytics-service/internal/application"
	"btcanalytics-service/internal/config"
	httpserver "btcanalytics-service/internal/infrastructure/http"
	"btcanalytics-service/internal/infrastructure/logx"
	"btcanalytics-service/internal/infrastructure/memory"
	"btcanalytics-service/internal/infrastructure/pg"
	"btcanalytics-service/internal/infrastructure/provider"
	redisstore "btcanalytics-service/internal/infrastructure/redis"

	"go.uber.org/zap"
)

func ProvideLogger() *zap.Logger { return logx.L() }

// ProvideStore opens the backend named by cfg.Storage. Postgres is migrated
// before the store is returned.
func ProvideStore(ctx context.Context, cfg config.Config, log *zap.Logger) (application.ObservationStore, func(), error) {
	switch cfg.Storage {
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, func() {}, config.ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL, pg.PoolOptions{
			MaxConns:        int32(cfg.PGMaxConns),
			MinConns:        int32(cfg.PGMinConns),
			MaxConnIdleTime: cfg.PGMaxIdle,
		})
		if err != nil {
			return nil, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewObservationStore(db, log), cleanup, nil
	case "redis":
		client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, func() {}, err
		}
		cleanup := func() {
			log.Info("closing redis")
			_ = client.Close()
		}
		return redisstore.NewObservationStore(client, cfg.RedisKeyPrefix, log), cleanup, nil
	case "memory":
		log.Warn("using in-memory store; observations are lost on exit")
		return memory.New(), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("%w %q", config.ErrUnsupportedStorage, cfg.Storage)
	}
}

func ProvideQuoteSource(cfg config.Config) (application.QuoteSource, error) {
	switch cfg.Provider {
	case "coingecko":
		return provider.NewCoinGecko(cfg.CoinGeckoAPIBase, cfg.CoinGeckoAPIKey, cfg.AssetID, cfg.VsCurrency, cfg.RequestTimeout), nil
	case "fake":
		return provider.NewFake(cfg.AssetID, cfg.VsCurrency, 50000), nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnsupportedSource, cfg.Provider)
	}
}

// ProvideParser decodes stored payloads. Both sources write CoinGecko-shaped
// bodies, so one parser serves either.
func ProvideParser(cfg config.Config) application.PayloadParser {
	return provider.NewCoinGecko(cfg.CoinGeckoAPIBase, "", cfg.AssetID, cfg.VsCurrency, cfg.RequestTimeout)
}

func ProvideService(store application.ObservationStore, src application.QuoteSource, log *zap.Logger) *application.AnalyticsService {
	return application.NewAnalyticsService(store, src, application.WithLogger(log))
}

func ProvideAuditor(store application.ObservationStore, parser application.PayloadParser) *application.Auditor {
	return application.NewAuditor(store, parser, application.DefaultAuditPageSize)
}

func ProvideHandler(srv *httpserver.Server, cfg config.Config) http.Handler {
	return httpserver.NewRouter(srv, cfg.CORSAllowedOrigins)
}
