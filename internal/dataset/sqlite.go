package dataset

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed sql/select-sza.sql
var selectSZASQL string

type sqliteSource struct {
	db *sql.DB
}

// SQLite reads the sza table created by the db migrations.
func SQLite(db *sql.DB) Source {
	return &sqliteSource{db: db}
}

func (s *sqliteSource) Name() string { return "sqlite" }

func (s *sqliteSource) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectSZASQL)
	if err != nil {
		return nil, fmt.Errorf("query sza: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close sza rows", "error", err)
		}
	}()

	var out []Record
	for rows.Next() {
		var (
			rec Record
			sza sql.NullFloat64
		)
		if err := rows.Scan(&rec.Latitude, &rec.Month, &rec.TST, &sza); err != nil {
			return nil, fmt.Errorf("scan sza: %w", err)
		}
		if sza.Valid {
			v := sza.Float64
			rec.SZA = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
