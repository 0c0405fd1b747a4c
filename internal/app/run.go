package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sza-server/internal/config"
	httpapi "sza-server/internal/httpapi"
)

func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"datasetSource", cfg.DatasetSource,
		"datasetPath", cfg.DatasetPath,
		"datasetPreload", cfg.DatasetPreload,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"rateLimitRPS", cfg.RateLimitRPS,
		"rateLimitBurst", cfg.RateLimitBurst,
		"minifyHTML", cfg.MinifyHTML,
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	srv := httpapi.NewServer(cfg, a.Mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
