package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed data/sza.csv
var embeddedCSV []byte

var ErrMissingColumn = errors.New("dataset: missing column")

// Cell spellings read as a null angle.
var nullTokens = map[string]bool{"": true, "na": true, "nan": true, "null": true, "none": true}

type csvSource struct {
	name string
	open func() (io.ReadCloser, error)
}

// Embedded is the dataset compiled into the binary.
func Embedded() Source {
	return &csvSource{
		name: "embedded",
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(embeddedCSV)), nil
		},
	}
}

// CSVFile reads the dataset from a CSV file with a header row naming at
// least the latitude, month, tst and sza columns, in any order.
func CSVFile(path string) Source {
	return &csvSource{
		name: "csv:" + path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func (s *csvSource) Name() string { return s.name }

func (s *csvSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.name, err)
	}
	defer func() { _ = rc.Close() }()

	records, err := ReadCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}
	return records, nil
}

// ReadCSV parses dataset rows. Extra columns are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	pos := make([]int, len(Columns))
	for i, c := range Columns {
		j, ok := idx[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
		pos[i] = j
	}

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		rec := Record{
			Latitude: strings.TrimSpace(row[pos[0]]),
			Month:    strings.TrimSpace(row[pos[1]]),
			TST:      strings.TrimSpace(row[pos[2]]),
		}
		raw := strings.TrimSpace(row[pos[3]])
		if !nullTokens[strings.ToLower(raw)] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: sza %q: %w", line, raw, err)
			}
			rec.SZA = &v
		}
		out = append(out, rec)
	}
}
