// Package frame is a small column-named table with the reshaping operations
// the SZA view needs: filter, exclude, drop nulls and pivot.
//
// A cell is nil (null), a string, a float64 or an int. Frames are never
// modified after construction; every operation returns a new Frame that may
// share row storage with its source.
package frame

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnknownColumn   = errors.New("frame: unknown column")
	ErrDuplicateColumn = errors.New("frame: duplicate column")
	ErrRaggedRow       = errors.New("frame: row width does not match columns")
	ErrDuplicateEntry  = errors.New("frame: duplicate pivot entry")
)

type Frame struct {
	columns []string
	pos     map[string]int
	rows    [][]any
}

// New builds a frame. The rows slice is owned by the frame afterwards.
func New(columns []string, rows [][]any) (*Frame, error) {
	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := pos[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		pos[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRow, i, len(r), len(columns))
		}
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{columns: cols, pos: pos, rows: rows}, nil
}

func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

func (f *Frame) Len() int { return len(f.rows) }

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.pos[name]
	return ok
}

// At returns the cell at row i in column col, or nil when either is out of range.
func (f *Frame) At(i int, col string) any {
	j, ok := f.pos[col]
	if !ok || i < 0 || i >= len(f.rows) {
		return nil
	}
	return f.rows[i][j]
}

// Row returns a read-only view of row i.
func (f *Frame) Row(i int) Row {
	return Row{f: f, i: i}
}

func (f *Frame) Column(name string) ([]any, error) {
	j, ok := f.pos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]any, len(f.rows))
	for i, r := range f.rows {
		out[i] = r[j]
	}
	return out, nil
}

func (f *Frame) require(names ...string) error {
	for _, n := range names {
		if _, ok := f.pos[n]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, n)
		}
	}
	return nil
}

// Filter keeps the rows matching expr. Rows where expr compares a null or
// mismatched types are dropped.
func (f *Frame) Filter(expr Expr) (*Frame, error) {
	if err := f.require(expr.cols...); err != nil {
		return nil, err
	}
	kept := make([][]any, 0, len(f.rows))
	for i, r := range f.rows {
		if expr.match(f.Row(i)) {
			kept = append(kept, r)
		}
	}
	return &Frame{columns: f.columns, pos: f.pos, rows: kept}, nil
}

// Exclude drops the named columns. Names not in the frame are ignored.
func (f *Frame) Exclude(names ...string) *Frame {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []int
	var cols []string
	for j, c := range f.columns {
		if !drop[c] {
			keep = append(keep, j)
			cols = append(cols, c)
		}
	}
	rows := make([][]any, len(f.rows))
	for i, r := range f.rows {
		nr := make([]any, len(keep))
		for k, j := range keep {
			nr[k] = r[j]
		}
		rows[i] = nr
	}
	out, _ := New(cols, rows)
	return out
}

// DropNulls removes rows holding a null in any of the named columns, or in
// any column at all when none are named.
func (f *Frame) DropNulls(names ...string) (*Frame, error) {
	if err := f.require(names...); err != nil {
		return nil, err
	}
	idx := make([]int, 0, len(f.columns))
	if len(names) == 0 {
		for j := range f.columns {
			idx = append(idx, j)
		}
	} else {
		for _, n := range names {
			idx = append(idx, f.pos[n])
		}
	}
	kept := make([][]any, 0, len(f.rows))
rows:
	for _, r := range f.rows {
		for _, j := range idx {
			if r[j] == nil {
				continue rows
			}
		}
		kept = append(kept, r)
	}
	return &Frame{columns: f.columns, pos: f.pos, rows: kept}, nil
}

// Row is a read-only view of one frame row.
type Row struct {
	f *Frame
	i int
}

func (r Row) Get(col string) any {
	return r.f.At(r.i, col)
}

// String formats a cell for display: "" for null, shortest float form.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}
