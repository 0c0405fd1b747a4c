package service

import (
	"context"
	"errors"
	"fmt"

	"sza-server/internal/dataset"
	"sza-server/internal/frame"
	"sza-server/internal/gt"
)

var ErrNoData = errors.New("sza: no rows left after filtering")

const (
	Latitude = "20"
	MaxTST   = "1200"

	Title    = "Solar Zenith Angles from 05:30 to 12:00"
	Subtitle = "Average monthly values at latitude of 20&deg;N."
)

var (
	PaletteForward  = []string{"rebeccapurple", "white", "orange"}
	PaletteReversed = []string{"orange", "white", "rebeccapurple"}

	// Domain runs from the horizon (90) to the zenith (0).
	Domain = []float64{90, 0}
)

// Dataset hands out the shared SZA frame. *dataset.Cache implements it.
type Dataset interface {
	Get(ctx context.Context) (*frame.Frame, error)
}

type Service struct {
	data   Dataset
	minify bool
}

func NewService(data Dataset, minify bool) *Service {
	return &Service{data: data, minify: minify}
}

// Pivot returns the morning angles at Latitude: one row per month, one
// column per solar time up to MaxTST, sorted ascending.
func (s *Service) Pivot(ctx context.Context) (*frame.Frame, error) {
	f, err := s.data.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	f, err = f.Filter(frame.And(
		frame.Col(dataset.ColLatitude).Eq(Latitude),
		frame.Col(dataset.ColTST).LessEq(MaxTST),
	))
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	f, err = f.Exclude(dataset.ColLatitude).DropNulls()
	if err != nil {
		return nil, fmt.Errorf("drop nulls: %w", err)
	}
	p, err := f.Pivot(dataset.ColSZA, dataset.ColMonth, dataset.ColTST, true)
	if err != nil {
		return nil, fmt.Errorf("pivot: %w", err)
	}
	if p.Len() == 0 {
		return nil, ErrNoData
	}
	return p, nil
}

// Table builds the presentation table over a fresh pivot.
func (s *Service) Table(ctx context.Context, palette []string) (*gt.Table, error) {
	p, err := s.Pivot(ctx)
	if err != nil {
		return nil, err
	}
	return gt.New(p).
		ID("sza").
		RowNameCol(dataset.ColMonth).
		DataColor(gt.ColorSpec{
			Domain:  Domain,
			Palette: palette,
			NAColor: "white",
		}).
		TabHeader(Title, gt.HTML(Subtitle)).
		SubMissing("").
		Minify(s.minify), nil
}
