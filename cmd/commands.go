package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"sza-server/internal/app"
	"sza-server/internal/config"
	"sza-server/internal/frame"
	"sza-server/internal/logging"
	"sza-server/internal/modules/sza/controller"
)

// setup loads config from the environment and installs the process logger.
// Commands that print to stdout log to stderr instead.
func setup(logTo io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config error: %w", err)
	}
	logger := logging.New(logTo, cfg, version, appName)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

var ServeCommand = &cli.Command{
	Name:  "serve",
	Usage: "Run the HTTP server (default)",
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(os.Stdout)
		if err != nil {
			return err
		}
		slog.Info("starting",
			"app", appName,
			"version", version,
			"env", cfg.AppEnv,
			"log_level", cfg.LogLevel.String(),
		)
		err = app.Run(c.Context, cfg, logger)
		slog.Info("shutting down")
		return err
	},
}

var RenderCommand = &cli.Command{
	Name:  "render",
	Usage: "Render the page to a file or stdout without starting the server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "variant",
			Usage: "palette order: forward (/) or reversed (/async)",
			Value: string(controller.VariantForward),
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output file; stdout when empty",
		},
	},
	Action: func(c *cli.Context) error {
		variant, err := controller.ParseVariant(c.String("variant"))
		if err != nil {
			return err
		}
		return withApp(c, func(a *app.App, w io.Writer) error {
			return a.Pages.Render(c.Context, w, variant)
		})
	},
}

var PivotCommand = &cli.Command{
	Name:  "pivot",
	Usage: "Print the pivoted month by solar time view as CSV",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output file; stdout when empty",
		},
	},
	Action: func(c *cli.Context) error {
		return withApp(c, func(a *app.App, w io.Writer) error {
			p, err := a.Pivot(c.Context)
			if err != nil {
				return err
			}
			return writeCSV(w, p)
		})
	},
}

// withApp wires the app, opens the --out target and runs fn.
func withApp(c *cli.Context, fn func(a *app.App, w io.Writer) error) error {
	cfg, logger, err := setup(c.App.ErrWriter)
	if err != nil {
		return err
	}
	a, err := app.New(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(a, f); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	return fn(a, c.App.Writer)
}

func writeCSV(w io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(w)
	cols := f.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}
	rec := make([]string, len(cols))
	for i := 0; i < f.Len(); i++ {
		for j, c := range cols {
			rec[j] = frame.String(f.At(i, c))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
