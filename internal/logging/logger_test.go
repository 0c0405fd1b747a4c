package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"sza-server/internal/config"
)

func TestNew_devUsesTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.Config{LogLevel: slog.LevelInfo}, "dev", "sza-server")

	logger.Info("hello", "k", "v")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "k=v") {
		t.Errorf("output = %q; want message and k=v", out)
	}
	if !strings.Contains(out, "app=sza-server") {
		t.Errorf("output = %q; want app attribute", out)
	}
}

func TestNew_releaseUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "sza-server")

	logger.Debug("dropped")
	logger.Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines; want 1 (debug filtered): %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	for k, want := range map[string]string{"msg": "kept", "app": "sza-server", "version": "1.2.3", "env": "prod"} {
		if rec[k] != want {
			t.Errorf("%s = %v; want %q", k, rec[k], want)
		}
	}
}
