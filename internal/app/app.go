package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"sza-server/internal/config"
	"sza-server/internal/dataset"
	db "sza-server/internal/db"
	"sza-server/internal/db/migrate"
	"sza-server/internal/frame"
	httpapi "sza-server/internal/httpapi"
	sza "sza-server/internal/modules/sza"
	"sza-server/internal/modules/sza/controller"
	"sza-server/internal/modules/sza/service"
	szaviews "sza-server/internal/modules/sza/views"
)

// App is the wired service: dataset source, cache, pages and routes.
type App struct {
	Config  config.Config
	DB      *sql.DB
	Dataset *dataset.Cache
	Pages   controller.SZAController
	Mux     *http.ServeMux
}

// New wires everything Run serves. With DatasetPreload the dataset is read
// before New returns, so a broken source fails startup.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg}

	var src dataset.Source
	switch {
	case cfg.UsesDB():
		dbConn, err := db.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		a.DB = dbConn
		if err := migrate.Run(ctx, dbConn); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database ready", "driver", cfg.Driver, "path", cfg.Path)
		src = dataset.SQLite(dbConn)
	case cfg.DatasetSource == config.SourceCSV:
		src = dataset.CSVFile(cfg.DatasetPath)
	default:
		src = dataset.Embedded()
	}
	a.Dataset = dataset.NewCache(src, logger)

	if cfg.DatasetPreload {
		if _, err := a.Dataset.Get(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("preload dataset: %w", err)
		}
	}

	renderer, err := szaviews.Load()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Mux = httpapi.NewMux(a.DB)
	a.Pages = sza.RegisterFeature(a.Mux, a.Dataset, renderer, cfg.MinifyHTML)
	return a, nil
}

// Pivot returns the pivoted view the pages render.
func (a *App) Pivot(ctx context.Context) (*frame.Frame, error) {
	return service.NewService(a.Dataset, false).Pivot(ctx)
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	err := db.Close(a.DB)
	a.DB = nil
	return err
}
