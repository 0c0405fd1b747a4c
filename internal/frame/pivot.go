package frame

import (
	"fmt"
	"sort"
)

// Pivot reshapes long rows into a wide frame: one row per distinct index
// value (first-appearance order) and one column per distinct on value, each
// cell holding the values cell of the matching source row or nil. With
// sortColumns the new columns are ordered ascending, otherwise by first
// appearance. The on values become column names via String.
func (f *Frame) Pivot(values, index, on string, sortColumns bool) (*Frame, error) {
	if err := f.require(values, index, on); err != nil {
		return nil, err
	}
	vj, ij, oj := f.pos[values], f.pos[index], f.pos[on]

	var (
		keys    []any
		keyRow  = map[any]int{}
		onVals  []any
		onSeen  = map[any]bool{}
		entries = map[[2]any]any{}
	)
	for _, r := range f.rows {
		k, o := r[ij], r[oj]
		if _, ok := keyRow[k]; !ok {
			keyRow[k] = len(keys)
			keys = append(keys, k)
		}
		if !onSeen[o] {
			onSeen[o] = true
			onVals = append(onVals, o)
		}
		cell := [2]any{k, o}
		if _, dup := entries[cell]; dup {
			return nil, fmt.Errorf("%w: %s=%s, %s=%s", ErrDuplicateEntry, index, String(k), on, String(o))
		}
		entries[cell] = r[vj]
	}

	if sortColumns {
		sort.SliceStable(onVals, func(a, b int) bool {
			if n, ok := compare(onVals[a], onVals[b]); ok {
				return n < 0
			}
			return String(onVals[a]) < String(onVals[b])
		})
	}

	columns := make([]string, 0, len(onVals)+1)
	columns = append(columns, index)
	for _, o := range onVals {
		columns = append(columns, String(o))
	}

	rows := make([][]any, len(keys))
	for i, k := range keys {
		row := make([]any, len(columns))
		row[0] = k
		for j, o := range onVals {
			row[j+1] = entries[[2]any{k, o}]
		}
		rows[i] = row
	}
	return New(columns, rows)
}
