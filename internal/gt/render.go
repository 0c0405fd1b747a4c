package gt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"sza-server/internal/frame"
)

var ErrUnknownColumn = errors.New("gt: unknown column")

var (
	//go:embed assets/table.html
	tableHTML string

	//go:embed assets/table.css
	tableCSS string

	tableTmpl = template.Must(template.New("table").Parse(tableHTML))

	minifier = newMinifier()
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}

type heading struct {
	Label string
	Align string
}

type cell struct {
	Text  string
	Style template.CSS
	Align string
}

type row struct {
	Stub  string
	Cells []cell
}

type view struct {
	ID       string
	CSS      template.CSS
	Title    any
	Subtitle any
	Colspan  int
	HasStub  bool
	Headings []heading
	Rows     []row
}

// AsRawHTML renders the table as an HTML fragment.
func (t *Table) AsRawHTML() (string, error) {
	v, err := t.build()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tableTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("gt: render: %w", err)
	}
	if !t.minify {
		return buf.String(), nil
	}
	out, err := minifier.Bytes("text/html", buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("gt: minify: %w", err)
	}
	return string(out), nil
}

func (t *Table) build() (*view, error) {
	known := map[string]bool{}
	for _, c := range t.data.Columns() {
		known[c] = true
	}
	if t.rowName != "" && !known[t.rowName] {
		return nil, fmt.Errorf("%w: row name %q", ErrUnknownColumn, t.rowName)
	}

	var body []string
	for _, c := range t.data.Columns() {
		if c != t.rowName {
			body = append(body, c)
		}
	}

	numeric := map[string]bool{}
	for _, c := range body {
		numeric[c] = t.isNumeric(c)
	}

	scales := map[string]*colorRule{}
	for _, spec := range t.colors {
		cols := spec.Columns
		if len(cols) == 0 {
			for _, c := range body {
				if numeric[c] {
					cols = append(cols, c)
				}
			}
		}
		for _, c := range cols {
			if !known[c] || c == t.rowName {
				return nil, fmt.Errorf("%w: color target %q", ErrUnknownColumn, c)
			}
		}
		domain, err := t.domain(spec.Domain, cols)
		if err != nil {
			return nil, err
		}
		s, err := newScale(domain, spec.Palette, spec.NAColor)
		if err != nil {
			return nil, err
		}
		rule := &colorRule{scale: s, autoText: !spec.KeepTextColor}
		for _, c := range cols {
			scales[c] = rule
		}
	}

	missing := "NA"
	if t.missing != nil {
		missing = *t.missing
	}

	v := &view{
		ID:       t.id,
		CSS:      template.CSS(strings.ReplaceAll(tableCSS, "#gt-id", "#"+t.id)),
		Title:    t.title.value(),
		Subtitle: t.subtitle.value(),
		Colspan:  len(body),
		HasStub:  t.rowName != "",
	}
	if t.title.IsZero() {
		v.Title = nil
	}
	if t.subtitle.IsZero() {
		v.Subtitle = nil
	}
	if v.HasStub {
		v.Colspan++
	}

	for _, c := range body {
		v.Headings = append(v.Headings, heading{Label: c, Align: align(numeric[c])})
	}

	v.Rows = make([]row, t.data.Len())
	for i := range v.Rows {
		r := row{Cells: make([]cell, len(body))}
		if v.HasStub {
			r.Stub = frame.String(t.data.At(i, t.rowName))
		}
		for j, c := range body {
			val := t.data.At(i, c)
			text := frame.String(val)
			if val == nil {
				text = missing
			}
			out := cell{Text: text, Align: align(numeric[c])}
			if rule, ok := scales[c]; ok {
				out.Style = rule.style(val)
			}
			r.Cells[j] = out
		}
		v.Rows[i] = r
	}
	return v, nil
}

type colorRule struct {
	scale    *scale
	autoText bool
}

func (r *colorRule) style(v any) template.CSS {
	bg := r.scale.color(v)
	if !r.autoText {
		return template.CSS("background-color: " + hex(bg) + ";")
	}
	return template.CSS("color: " + hex(textColor(bg)) + "; background-color: " + hex(bg) + ";")
}

// isNumeric reports whether every non-null cell of col is a number. A column
// of nulls only counts as numeric.
func (t *Table) isNumeric(col string) bool {
	for i := 0; i < t.data.Len(); i++ {
		v := t.data.At(i, col)
		if v == nil {
			continue
		}
		if _, ok := toFloat(v); !ok {
			return false
		}
	}
	return true
}

func (t *Table) domain(given []float64, cols []string) ([2]float64, error) {
	switch len(given) {
	case 2:
		return [2]float64{given[0], given[1]}, nil
	case 0:
	default:
		return [2]float64{}, fmt.Errorf("%w: got %d values", ErrBadDomain, len(given))
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range cols {
		for i := 0; i < t.data.Len(); i++ {
			if x, ok := toFloat(t.data.At(i, c)); ok {
				lo = math.Min(lo, x)
				hi = math.Max(hi, x)
			}
		}
	}
	if math.IsInf(lo, 1) {
		return [2]float64{0, 1}, nil
	}
	if lo == hi {
		hi = lo + 1
	}
	return [2]float64{lo, hi}, nil
}

func align(numeric bool) string {
	if numeric {
		return "gt_right"
	}
	return "gt_left"
}
