package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"sza-server/internal/config"
)

func newTestServer(t *testing.T, cfg config.Config, db *sql.DB) *httptest.Server {
	t.Helper()

	srv := NewServer(cfg, NewMux(db))
	ts := httptest.NewServer(srv.Handler)

	t.Cleanup(ts.Close)
	return ts
}

func mustGetJSON[T any](t *testing.T, client *http.Client, url string, out *T) *http.Response {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return resp
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestHealthz_withoutDB(t *testing.T) {
	ts := newTestServer(t, config.Config{}, nil)

	var body map[string]string
	resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Fatalf("body.status=%q want=%q", body["status"], "ok")
	}
}

func TestHealthz_withDB(t *testing.T) {
	ts := newTestServer(t, config.Config{}, openMemoryDB(t))

	var body map[string]string
	resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
}

func TestHealthz_closedDB(t *testing.T) {
	db := openMemoryDB(t)
	_ = db.Close()
	ts := newTestServer(t, config.Config{}, db)

	var body map[string]string
	resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusInternalServerError)
	}
	if _, ok := body["message"]; !ok {
		t.Fatalf("expected message field, got %v", body)
	}
}

func TestRouting(t *testing.T) {
	ts := newTestServer(t, config.Config{}, nil)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"unknown route", http.MethodGet, "/does-not-exist", http.StatusNotFound},
		{"wrong method", http.MethodPost, "/healthz", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			resp, err := ts.Client().Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			_ = resp.Body.Close()

			if resp.StatusCode != tt.want {
				t.Fatalf("status=%d want=%d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := config.Config{RateLimitRPS: 0.001, RateLimitBurst: 1}
	ts := newTestServer(t, cfg, nil)

	var body map[string]string
	if resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body); resp.StatusCode != http.StatusOK {
		t.Fatalf("first status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second status=%d want=%d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if body["message"] != "rate limit exceeded" {
		t.Errorf("message=%q", body["message"])
	}
}

func TestRateLimit_disabled(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	h := rateLimit(0, 1, next)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, rec.Code)
		}
	}
}

func TestRequestLogger_recordsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
	sr.WriteHeader(http.StatusTeapot)

	if sr.status != http.StatusTeapot || rec.Code != http.StatusTeapot {
		t.Fatalf("status=%d recorder=%d want=%d", sr.status, rec.Code, http.StatusTeapot)
	}
}
