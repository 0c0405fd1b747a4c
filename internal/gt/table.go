// Package gt renders a tabular dataset as a self-contained, styled HTML
// table: a title block, a row-name stub, and numeric cells shaded along a
// color gradient.
//
// A Table is configured with chained calls and rendered with AsRawHTML:
//
//	html, err := gt.New(f).
//		RowNameCol("month").
//		DataColor(gt.ColorSpec{Domain: []float64{90, 0}, Palette: []string{"rebeccapurple", "white", "orange"}}).
//		TabHeader("Title", gt.HTML("Sub&deg;")).
//		SubMissing("").
//		AsRawHTML()
//
// Configuration errors (bad colors, unknown columns) surface from AsRawHTML.
package gt

import (
	"html/template"
	"slices"
)

// Data is the read access a table needs. *frame.Frame satisfies it.
type Data interface {
	Columns() []string
	Len() int
	At(i int, col string) any
}

// Text is header content: plain text is escaped, HTML is emitted as is.
type Text struct {
	s   string
	raw bool
}

func Plain(s string) Text { return Text{s: s} }

func HTML(s string) Text { return Text{s: s, raw: true} }

func (t Text) IsZero() bool { return t.s == "" }

func (t Text) value() any {
	if t.raw {
		return template.HTML(t.s)
	}
	return t.s
}

// ColorSpec shades cells by value.
type ColorSpec struct {
	// Columns to shade; empty means every numeric column except the stub.
	Columns []string
	Palette []string
	// Domain is [from, to]. Empty means the min and max of the shaded cells.
	Domain  []float64
	NAColor string
	// KeepTextColor disables the automatic black or white cell text.
	KeepTextColor bool
}

type Table struct {
	data     Data
	rowName  string
	colors   []ColorSpec
	title    Text
	subtitle Text
	missing  *string
	minify   bool
	id       string
}

func New(data Data) *Table {
	return &Table{data: data, id: "gt-table"}
}

// RowNameCol moves col into the stub, the leftmost header column.
func (t *Table) RowNameCol(col string) *Table {
	t.rowName = col
	return t
}

// DataColor adds a color scale. Later specs win for overlapping columns.
func (t *Table) DataColor(spec ColorSpec) *Table {
	spec.Columns = slices.Clone(spec.Columns)
	spec.Palette = slices.Clone(spec.Palette)
	spec.Domain = slices.Clone(spec.Domain)
	t.colors = append(t.colors, spec)
	return t
}

func (t *Table) TabHeader(title string, subtitle Text) *Table {
	t.title = Plain(title)
	t.subtitle = subtitle
	return t
}

// SubMissing sets the text shown in null cells. Without it nulls read "NA".
func (t *Table) SubMissing(text string) *Table {
	t.missing = &text
	return t
}

func (t *Table) Minify(on bool) *Table {
	t.minify = on
	return t
}

// ID sets the id of the wrapping element that scopes the table's CSS.
func (t *Table) ID(id string) *Table {
	if id != "" {
		t.id = id
	}
	return t
}
