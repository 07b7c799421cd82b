package logx

import (
	"context"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.Level = level

	var err error
	logger, err = zapCfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
}

// SetLevel changes the level of the package logger at runtime. Unknown values
// leave the current level untouched.
func SetLevel(lvl string) {
	if lvl == "" {
		return
	}
	_ = level.UnmarshalText([]byte(strings.ToLower(lvl)))
}

// L returns the package-level logger instance.
func L() *zap.Logger {
	return logger
}

// WithFields enriches the logger with the request id stored in ctx.
func WithFields(ctx context.Context) *zap.Logger {
	if id := middleware.GetReqID(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}
