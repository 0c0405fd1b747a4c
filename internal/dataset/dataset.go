// Package dataset loads the solar zenith angle table: twice hourly angles by
// month for latitudes 20, 30, 40 and 50 degrees north, in true solar time
// from 04:00 to 12:00. Angles are null while the sun is below the horizon.
package dataset

import (
	"context"

	"sza-server/internal/frame"
)

const (
	ColLatitude = "latitude"
	ColMonth    = "month"
	ColTST      = "tst"
	ColSZA      = "sza"
)

var Columns = []string{ColLatitude, ColMonth, ColTST, ColSZA}

// Record is one long-format row. SZA is nil when no angle exists.
type Record struct {
	Latitude string
	Month    string
	TST      string
	SZA      *float64
}

// Source produces the dataset rows in their canonical order.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// ToFrame converts records into a frame with Columns, null angles as nil cells.
func ToFrame(records []Record) *frame.Frame {
	rows := make([][]any, len(records))
	for i, r := range records {
		var sza any
		if r.SZA != nil {
			sza = *r.SZA
		}
		rows[i] = []any{r.Latitude, r.Month, r.TST, sza}
	}
	f, _ := frame.New(Columns, rows)
	return f
}
