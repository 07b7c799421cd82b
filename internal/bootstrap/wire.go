//go:build wireinject

package bootstrap

import (
	"context"
	"net/http"

	"btcanalytics-service/internal/application"
	"btcanalytics-service/internal/config"
	httpserver "btcanalytics-service/internal/infrastructure/http"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideStore,
)

var serviceSet = wire.NewSet(
	infraSet,
	ProvideQuoteSource,
	ProvideService,
)

// API injector: builds the routed handler + Cleanup
func InitAPI(ctx context.Context, cfg config.Config) (http.Handler, func(), error) {
	wire.Build(
		serviceSet,
		httpserver.NewServer,
		ProvideHandler,
	)
	return nil, nil, nil
}

// Ingest injector: builds the service used by cmd/ingest + Cleanup
func InitIngest(ctx context.Context, cfg config.Config) (*application.AnalyticsService, func(), error) {
	wire.Build(serviceSet)
	return nil, nil, nil
}

// Audit injector: builds the auditor + Cleanup
func InitAuditor(ctx context.Context, cfg config.Config) (*application.Auditor, func(), error) {
	wire.Build(
		infraSet,
		ProvideParser,
		ProvideAuditor,
	)
	return nil, nil, nil
}
