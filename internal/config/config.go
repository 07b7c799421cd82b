package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	infraconfig "btcanalytics-service/internal/infrastructure/config"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingDBURL       = errors.New("DATABASE_URL is required for STORAGE=pg")
	ErrUnsupportedStorage = errors.New("unsupported STORAGE")
	ErrUnsupportedSource  = errors.New("unsupported PROVIDER")
)

type Config struct {
	// Common
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	// API
	Port               string        `yaml:"port"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	// Storage
	Storage     string        `yaml:"storage"`
	DatabaseURL string        `yaml:"database_url"`
	PGMaxConns  int           `yaml:"pg_max_conns"`
	PGMinConns  int           `yaml:"pg_min_conns"`
	PGMaxIdle   time.Duration `yaml:"pg_max_conn_idle"`
	// Provider
	Provider         string        `yaml:"provider"`
	CoinGeckoAPIBase string        `yaml:"coingecko_api_url"`
	CoinGeckoAPIKey  string        `yaml:"coingecko_api_key"`
	AssetID          string        `yaml:"asset_id"`
	VsCurrency       string        `yaml:"vs_currency"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	// Redis (STORAGE=redis)
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
	RedisKeyPrefix string `yaml:"redis_key_prefix"`
	// Audit export
	AuditFormat string `yaml:"audit_format"`
	AuditOut    string `yaml:"audit_out"`
}

func Default() Config {
	return Config{
		Env:                "local",
		LogLevel:           "info",
		Port:               infraconfig.DefaultHTTPPort,
		ShutdownTimeout:    infraconfig.DefaultShutdownTimeout,
		CORSAllowedOrigins: []string{"*"},
		Storage:            "pg",
		PGMaxConns:         infraconfig.DefaultPGMaxConns,
		PGMinConns:         infraconfig.DefaultPGMinConns,
		PGMaxIdle:          infraconfig.DefaultPGMaxConnIdle,
		Provider:           "coingecko",
		CoinGeckoAPIBase:   infraconfig.DefaultCoinGeckoBaseURL,
		AssetID:            infraconfig.DefaultAssetID,
		VsCurrency:         infraconfig.DefaultVsCurrency,
		RequestTimeout:     infraconfig.DefaultRequestTimeout,
		RedisAddr:          "localhost:6379",
		RedisKeyPrefix:     infraconfig.DefaultRedisKeyPrefix,
		AuditFormat:        infraconfig.DefaultAuditFormat,
		AuditOut:           infraconfig.DefaultAuditOut,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, def time.Duration) time.Duration {
	ms := atoiDef(os.Getenv(key), -1)
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load applies defaults, then the YAML file named by CONFIG_FILE (if any), then
// environment variables.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.ShutdownTimeout = durMS("SHUTDOWN_TIMEOUT_MS", cfg.ShutdownTimeout)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitCSV(v)
	}
	cfg.Storage = getEnv("STORAGE", cfg.Storage)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.PGMaxConns = atoiDef(os.Getenv("PG_MAX_CONNS"), cfg.PGMaxConns)
	cfg.PGMinConns = atoiDef(os.Getenv("PG_MIN_CONNS"), cfg.PGMinConns)
	cfg.PGMaxIdle = durMS("PG_MAX_CONN_IDLE_MS", cfg.PGMaxIdle)
	cfg.Provider = getEnv("PROVIDER", cfg.Provider)
	cfg.CoinGeckoAPIBase = getEnv("COINGECKO_API_URL", cfg.CoinGeckoAPIBase)
	cfg.CoinGeckoAPIKey = getEnv("COINGECKO_API_KEY", cfg.CoinGeckoAPIKey)
	cfg.AssetID = getEnv("ASSET_ID", cfg.AssetID)
	cfg.VsCurrency = getEnv("VS_CURRENCY", cfg.VsCurrency)
	cfg.RequestTimeout = durMS("REQUEST_TIMEOUT_MS", cfg.RequestTimeout)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = atoiDef(getEnv("REDIS_DB", ""), cfg.RedisDB)
	cfg.RedisKeyPrefix = getEnv("REDIS_KEY_PREFIX", cfg.RedisKeyPrefix)
	cfg.AuditFormat = getEnv("AUDIT_FORMAT", cfg.AuditFormat)
	cfg.AuditOut = getEnv("AUDIT_OUT", cfg.AuditOut)
}

func (c Config) Validate() error {
	switch c.Storage {
	case "pg":
		if c.DatabaseURL == "" {
			return ErrMissingDBURL
		}
	case "redis", "memory":
	default:
		return fmt.Errorf("%w %q (use: pg, redis, memory)", ErrUnsupportedStorage, c.Storage)
	}
	switch c.Provider {
	case "coingecko", "fake":
	default:
		return fmt.Errorf("%w %q (use: coingecko, fake)", ErrUnsupportedSource, c.Provider)
	}
	if c.PGMaxConns <= 0 || c.PGMinConns < 0 || c.PGMinConns > c.PGMaxConns {
		return fmt.Errorf("invalid pg pool size: min %d, max %d", c.PGMinConns, c.PGMaxConns)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}
