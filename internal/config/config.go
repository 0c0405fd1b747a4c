package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Dataset sources accepted by DATASET_SOURCE.
const (
	SourceEmbedded = "embedded"
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// DatasetSource selects where the SZA rows come from: the CSV compiled into
	// the binary, an external CSV file (DatasetPath) or the sza table in SQLite.
	DatasetSource  string
	DatasetPath    string
	DatasetPreload bool

	Driver          string
	DSN             string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool

	// RateLimitRPS <= 0 disables the limiter.
	RateLimitRPS   float64
	RateLimitBurst int

	MinifyHTML bool
}

// UsesDB reports whether the configured dataset source needs a database.
func (c Config) UsesDB() bool {
	return c.DatasetSource == SourceSQLite
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	source := strings.ToLower(strings.TrimSpace(os.Getenv("DATASET_SOURCE")))
	if source == "" {
		source = SourceEmbedded
	}
	switch source {
	case SourceEmbedded, SourceCSV, SourceSQLite:
	default:
		return Config{}, fmt.Errorf("invalid DATASET_SOURCE %q (allowed: embedded, csv, sqlite)", source)
	}
	datasetPath := strings.TrimSpace(os.Getenv("DATASET_PATH"))
	if source == SourceCSV && datasetPath == "" {
		return Config{}, fmt.Errorf("DATASET_PATH is required when DATASET_SOURCE=%s", SourceCSV)
	}
	preload, err := parseBool("DATASET_PRELOAD", false)
	if err != nil {
		return Config{}, err
	}

	driver := strings.TrimSpace(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "data/sza.db"
	}

	maxOpenConnsStr := strings.TrimSpace(os.Getenv("DB_MAX_OPEN_CONNS"))
	if maxOpenConnsStr == "" {
		maxOpenConnsStr = "1"
	}
	maxOpenConns, err := strconv.Atoi(maxOpenConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", maxOpenConnsStr, err)
	}

	maxIdleConnsStr := strings.TrimSpace(os.Getenv("DB_MAX_IDLE_CONNS"))
	if maxIdleConnsStr == "" {
		maxIdleConnsStr = "1"
	}
	maxIdleConns, err := strconv.Atoi(maxIdleConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_IDLE_CONNS %q: %w", maxIdleConnsStr, err)
	}

	connMaxLifetimeStr := strings.TrimSpace(os.Getenv("DB_CONN_MAX_LIFETIME"))
	if connMaxLifetimeStr == "" {
		connMaxLifetimeStr = "0s"
	}
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	logSQL, err := parseBool("DB_LOG_SQL", false)
	if err != nil {
		return Config{}, err
	}

	rpsStr := strings.TrimSpace(os.Getenv("HTTP_RATE_LIMIT_RPS"))
	if rpsStr == "" {
		rpsStr = "0"
	}
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_RATE_LIMIT_RPS %q: %w", rpsStr, err)
	}
	if rps < 0 {
		return Config{}, fmt.Errorf("invalid HTTP_RATE_LIMIT_RPS %q: must be >= 0", rpsStr)
	}

	burstStr := strings.TrimSpace(os.Getenv("HTTP_RATE_LIMIT_BURST"))
	if burstStr == "" {
		burstStr = "10"
	}
	burst, err := strconv.Atoi(burstStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_RATE_LIMIT_BURST %q: %w", burstStr, err)
	}
	if burst < 1 {
		return Config{}, fmt.Errorf("invalid HTTP_RATE_LIMIT_BURST %q: must be >= 1", burstStr)
	}

	minify, err := parseBool("HTML_MINIFY", appEnv == "prod")
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        httpAddr,
		DatasetSource:   source,
		DatasetPath:     datasetPath,
		DatasetPreload:  preload,
		Driver:          driver,
		DSN:             dsn,
		Path:            path,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		LogSQL:          logSQL,
		RateLimitRPS:    rps,
		RateLimitBurst:  burst,
		MinifyHTML:      minify,
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

// parseBool reads a boolean env var, returning def when it is unset or blank.
func parseBool(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}
