// Command audit decodes every stored raw payload again and writes the result
// to AUDIT_OUT with the extension of AUDIT_FORMAT.
package main

import (
	"context"

	"btcanalytics-service/internal/bootstrap"
	"btcanalytics-service/internal/config"
	"btcanalytics-service/internal/infrastructure/export"
	"btcanalytics-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

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
	saver, err := export.NewSaver(cfg.AuditFormat)
	if err != nil {
		log.Fatal("audit format", zap.Error(err))
	}

	ctx := context.Background()
	auditor, cleanup, err := bootstrap.InitAuditor(ctx, cfg)
	if err != nil {
		log.Fatal("init auditor", zap.Error(err))
	}
	defer cleanup()

	records, err := auditor.Run(ctx)
	if err != nil {
		log.Fatal("audit", zap.Error(err))
	}
	var flagged int
	for _, r := range records {
		if !r.PayloadValid || !r.Consistent {
			flagged++
		}
	}

	path := cfg.AuditOut + "." + saver.Extension()
	if err := saver.Save(export.Rows(records), path); err != nil {
		log.Fatal("save audit", zap.String("path", path), zap.Error(err))
	}
	log.Info("audit written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("flagged", flagged),
	)
}
