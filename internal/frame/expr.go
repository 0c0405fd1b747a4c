package frame

import "strings"

// Expr is a row predicate built from column comparisons.
type Expr struct {
	cols  []string
	match func(Row) bool
}

// Col names a column for building comparisons.
type Col string

func (c Col) Eq(v any) Expr {
	return c.cmp(v, func(n int) bool { return n == 0 })
}

func (c Col) NotEq(v any) Expr {
	return c.cmp(v, func(n int) bool { return n != 0 })
}

func (c Col) Less(v any) Expr {
	return c.cmp(v, func(n int) bool { return n < 0 })
}

func (c Col) LessEq(v any) Expr {
	return c.cmp(v, func(n int) bool { return n <= 0 })
}

func (c Col) Greater(v any) Expr {
	return c.cmp(v, func(n int) bool { return n > 0 })
}

func (c Col) GreaterEq(v any) Expr {
	return c.cmp(v, func(n int) bool { return n >= 0 })
}

func (c Col) cmp(v any, ok func(int) bool) Expr {
	name := string(c)
	return Expr{
		cols: []string{name},
		match: func(r Row) bool {
			n, comparable := compare(r.Get(name), v)
			return comparable && ok(n)
		},
	}
}

// And matches rows that satisfy every expr. An empty And matches all rows.
func And(exprs ...Expr) Expr {
	var cols []string
	for _, e := range exprs {
		cols = append(cols, e.cols...)
	}
	return Expr{
		cols: cols,
		match: func(r Row) bool {
			for _, e := range exprs {
				if !e.match(r) {
					return false
				}
			}
			return true
		},
	}
}

func Or(exprs ...Expr) Expr {
	var cols []string
	for _, e := range exprs {
		cols = append(cols, e.cols...)
	}
	return Expr{
		cols: cols,
		match: func(r Row) bool {
			for _, e := range exprs {
				if e.match(r) {
					return true
				}
			}
			return false
		},
	}
}

// compare orders two cells. Strings compare lexically, numbers numerically;
// nulls and mixed kinds are not comparable.
func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	af, ok := number(a)
	if !ok {
		return 0, false
	}
	bf, ok := number(b)
	if !ok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
