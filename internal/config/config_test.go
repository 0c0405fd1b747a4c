package config

import (
	"log/slog"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR",
	"DATASET_SOURCE", "DATASET_PATH", "DATASET_PRELOAD",
	"DB_DRIVER", "DB_DSN", "SQLITE_PATH",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_LOG_SQL",
	"HTTP_RATE_LIMIT_RPS", "HTTP_RATE_LIMIT_BURST", "HTML_MINIFY",
}

// clearEnv blanks every variable LoadFromEnv reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":8080")
	}
	if got.DatasetSource != SourceEmbedded {
		t.Errorf("DatasetSource = %q, want %q", got.DatasetSource, SourceEmbedded)
	}
	if got.DatasetPreload {
		t.Errorf("DatasetPreload = true, want false")
	}
	if got.Driver != "sqlite3" {
		t.Errorf("Driver = %q, want sqlite3", got.Driver)
	}
	if got.Path != "data/sza.db" {
		t.Errorf("Path = %q, want data/sza.db", got.Path)
	}
	if got.MaxOpenConns != 1 || got.MaxIdleConns != 1 {
		t.Errorf("MaxOpenConns, MaxIdleConns = %d, %d; want 1, 1", got.MaxOpenConns, got.MaxIdleConns)
	}
	if got.ConnMaxLifetime != 0 {
		t.Errorf("ConnMaxLifetime = %v, want 0", got.ConnMaxLifetime)
	}
	if got.RateLimitRPS != 0 || got.RateLimitBurst != 10 {
		t.Errorf("rate limit = %v/%d, want 0/10", got.RateLimitRPS, got.RateLimitBurst)
	}
	if got.MinifyHTML {
		t.Errorf("MinifyHTML = true in dev, want false")
	}
	if got.UsesDB() {
		t.Errorf("UsesDB() = true for embedded source")
	}
}

func TestLoadFromEnv_AppEnv_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		appEnv string
	}{
		{name: "staging", appEnv: "staging"},
		{name: "uppercase", appEnv: "DEV"},
		{name: "random", appEnv: "whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestLoadFromEnv_ProdMinifiesByDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if !got.MinifyHTML {
		t.Errorf("MinifyHTML = false in prod, want true")
	}

	t.Setenv("HTML_MINIFY", "false")
	got, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.MinifyHTML {
		t.Errorf("MinifyHTML = true with HTML_MINIFY=false")
	}
}

func TestLoadFromEnv_DatasetSource(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		path    string
		want    string
		wantErr bool
	}{
		{name: "embedded", source: "embedded", want: SourceEmbedded},
		{name: "sqlite mixed case", source: " SQLite ", want: SourceSQLite},
		{name: "csv with path", source: "csv", path: "/tmp/sza.csv", want: SourceCSV},
		{name: "csv without path", source: "csv", wantErr: true},
		{name: "unknown", source: "parquet", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATASET_SOURCE", tt.source)
			t.Setenv("DATASET_PATH", tt.path)

			got, err := LoadFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadFromEnv() error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFromEnv() error = %v, want nil", err)
			}
			if got.DatasetSource != tt.want {
				t.Errorf("DatasetSource = %q, want %q", got.DatasetSource, tt.want)
			}
			if got.UsesDB() != (tt.want == SourceSQLite) {
				t.Errorf("UsesDB() = %v for %q", got.UsesDB(), tt.want)
			}
		})
	}
}

func TestLoadFromEnv_InvalidNumbers(t *testing.T) {
	tests := []struct {
		key string
		val string
	}{
		{key: "DB_MAX_OPEN_CONNS", val: "many"},
		{key: "DB_MAX_IDLE_CONNS", val: "1.5"},
		{key: "DB_CONN_MAX_LIFETIME", val: "forever"},
		{key: "DB_LOG_SQL", val: "sometimes"},
		{key: "DATASET_PRELOAD", val: "yes please"},
		{key: "HTTP_RATE_LIMIT_RPS", val: "fast"},
		{key: "HTTP_RATE_LIMIT_RPS", val: "-1"},
		{key: "HTTP_RATE_LIMIT_BURST", val: "0"},
		{key: "HTML_MINIFY", val: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "  127.0.0.1:9090 ")
	t.Setenv("DATASET_PRELOAD", "true")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("HTTP_RATE_LIMIT_RPS", "2.5")
	t.Setenv("HTTP_RATE_LIMIT_BURST", "4")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.HTTPAddr != "127.0.0.1:9090" {
		t.Errorf("HTTPAddr = %q", got.HTTPAddr)
	}
	if !got.DatasetPreload {
		t.Errorf("DatasetPreload = false, want true")
	}
	if got.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 5m", got.ConnMaxLifetime)
	}
	if got.RateLimitRPS != 2.5 || got.RateLimitBurst != 4 {
		t.Errorf("rate limit = %v/%d, want 2.5/4", got.RateLimitRPS, got.RateLimitBurst)
	}
}

func TestParseLogLevel_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want slog.Level
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "info", in: "info", want: slog.LevelInfo},
		{name: "warn", in: "warn", want: slog.LevelWarn},
		{name: "warning", in: "warning", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "case insensitive", in: "DeBuG", want: slog.LevelDebug},
		{name: "trims whitespace", in: "  warn \n", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if err != nil {
				t.Fatalf("parseLogLevel(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel_Invalid(t *testing.T) {
	for _, in := range []string{"", "nope", "warns", "1"} {
		got, err := parseLogLevel(in)
		if err == nil {
			t.Fatalf("parseLogLevel(%q) error = nil, want non-nil", in)
		}
		if got != slog.LevelInfo {
			t.Errorf("parseLogLevel(%q) = %v, want %v on error", in, got, slog.LevelInfo)
		}
	}
}
