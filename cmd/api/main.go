package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"btcanalytics-service/internal/bootstrap"
	"btcanalytics-service/internal/config"
	infraconfig "btcanalytics-service/internal/infrastructure/config"
	"btcanalytics-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	logx.SetLevel(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}
	addr := ":" + cfg.Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, cleanup, err := bootstrap.InitAPI(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap api", zap.Error(err))
	}
	defer cleanup()

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: infraconfig.DefaultReadHeaderTime,
	}

	go func() {
		logger.Info("server started",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.Storage),
			zap.String("provider", cfg.Provider),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err), zap.Duration("timeout", cfg.ShutdownTimeout))
	}
	logger.Info("server stopped")
}
