package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR",
	"DATASET_SOURCE", "DATASET_PATH", "DATASET_PRELOAD",
	"DB_DRIVER", "DB_DSN", "SQLITE_PATH", "DB_LOG_SQL",
	"HTTP_RATE_LIMIT_RPS", "HTTP_RATE_LIMIT_BURST", "HTML_MINIFY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func runApp(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = &errOut
	err = a.Run(append([]string{appName}, args...))
	return out.String(), err
}

func TestPivotCommand(t *testing.T) {
	clearEnv(t)

	out, err := runApp(t, "pivot")
	if err != nil {
		t.Fatalf("pivot error = %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(records) != 13 {
		t.Fatalf("records = %d; want header + 12 months", len(records))
	}
	header := records[0]
	if header[0] != "month" || header[1] != "0530" || header[len(header)-1] != "1200" {
		t.Errorf("header = %v", header)
	}
	if records[1][0] != "jan" || records[1][1] != "" {
		t.Errorf("jan row = %v; want empty 0530 cell", records[1])
	}
}

func TestPivotCommand_csvSource(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sza.csv")
	if err := os.WriteFile(path, []byte("latitude,month,tst,sza\n20,jan,1100,45\n20,jan,1300,5\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	t.Setenv("DATASET_SOURCE", "csv")
	t.Setenv("DATASET_PATH", path)

	out, err := runApp(t, "pivot")
	if err != nil {
		t.Fatalf("pivot error = %v", err)
	}
	if want := "month,1100\njan,45\n"; out != want {
		t.Errorf("output = %q; want %q", out, want)
	}
}

func TestPivotCommand_outFileOnError(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("DATASET_SOURCE", "csv")
	t.Setenv("DATASET_PATH", filepath.Join(dir, "missing.csv"))
	outFile := filepath.Join(dir, "pivot.csv")

	if _, err := runApp(t, "pivot", "-o", outFile); err == nil {
		t.Fatal("pivot error = nil; want missing dataset")
	}
	got, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("output = %q; want empty file", got)
	}
}

func TestPivotCommand_outFileInMissingDir(t *testing.T) {
	clearEnv(t)
	outFile := filepath.Join(t.TempDir(), "nope", "pivot.csv")
	if _, err := runApp(t, "pivot", "-o", outFile); err == nil {
		t.Fatal("pivot error = nil; want create failure")
	}
}

func TestRenderCommand(t *testing.T) {
	clearEnv(t)

	forward, err := runApp(t, "render")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(forward, "gt_table") || !strings.Contains(forward, "<!doctype html>") {
		t.Fatal("render output is not the page")
	}

	outFile := filepath.Join(t.TempDir(), "async.html")
	stdout, err := runApp(t, "render", "--variant", "reversed", "-o", outFile)
	if err != nil {
		t.Fatalf("render reversed error = %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q; want empty with --out", stdout)
	}
	reversed, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(reversed) == forward || !strings.Contains(string(reversed), "gt_table") {
		t.Error("reversed render missing or identical to forward")
	}
}

func TestRenderCommand_badVariant(t *testing.T) {
	clearEnv(t)
	if _, err := runApp(t, "render", "--variant", "sideways"); err == nil {
		t.Fatal("render error = nil; want invalid variant")
	}
}

func TestCommands_configError(t *testing.T) {
	for _, args := range [][]string{{"pivot"}, {"render"}, {"serve"}, {}} {
		clearEnv(t)
		t.Setenv("APP_ENV", "staging")
		_, err := runApp(t, args...)
		if err == nil || !strings.Contains(err.Error(), "config error") {
			t.Errorf("%v: err = %v; want config error", args, err)
		}
	}
}
