package gt

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var (
	ErrUnknownColor = errors.New("gt: unknown color")
	ErrBadDomain    = errors.New("gt: color domain needs two distinct values")
)

// defaultPalette approximates viridis, the palette used when none is given.
var defaultPalette = []string{"#440154", "#21908C", "#FDE725"}

// rebeccapurple postdates the SVG 1.1 keyword list colornames is built from.
var extraColors = map[string]string{
	"rebeccapurple": "#663399",
}

func parseColor(s string) (colorful.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
		}
		return c, nil
	}
	if hex, ok := extraColors[name]; ok {
		return colorful.Hex(hex)
	}
	if rgba, ok := colornames.Map[name]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, nil
	}
	return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// scale maps numbers to colors by linear interpolation across palette
// stops. The smaller domain endpoint maps to the first stop and the larger
// to the last, whatever order the domain is given in.
type scale struct {
	lo, hi float64
	stops  []colorful.Color
	na     colorful.Color
}

func newScale(domain [2]float64, palette []string, na string) (*scale, error) {
	if domain[0] == domain[1] || math.IsNaN(domain[0]) || math.IsNaN(domain[1]) {
		return nil, fmt.Errorf("%w: %v", ErrBadDomain, domain)
	}
	if len(palette) == 0 {
		palette = defaultPalette
	}
	s := &scale{lo: min(domain[0], domain[1]), hi: max(domain[0], domain[1])}
	for _, p := range palette {
		c, err := parseColor(p)
		if err != nil {
			return nil, err
		}
		s.stops = append(s.stops, c)
	}
	if na == "" {
		na = "#808080"
	}
	c, err := parseColor(na)
	if err != nil {
		return nil, fmt.Errorf("na color: %w", err)
	}
	s.na = c
	return s, nil
}

// color returns the fill for v. Nulls and values outside the domain get the
// NA color.
func (s *scale) color(v any) colorful.Color {
	x, ok := toFloat(v)
	if !ok {
		return s.na
	}
	t := (x - s.lo) / (s.hi - s.lo)
	if t < 0 || t > 1 {
		return s.na
	}
	if len(s.stops) == 1 {
		return s.stops[0]
	}
	seg := t * float64(len(s.stops)-1)
	i := int(math.Floor(seg))
	if i >= len(s.stops)-1 {
		return s.stops[len(s.stops)-1]
	}
	return s.stops[i].BlendRgb(s.stops[i+1], seg-float64(i)).Clamped()
}

// textColor picks black or white, whichever contrasts more with bg.
func textColor(bg colorful.Color) colorful.Color {
	r, g, b := bg.LinearRgb()
	l := 0.2126*r + 0.7152*g + 0.0722*b
	if (l+0.05)/0.05 >= 1.05/(l+0.05) {
		return colorful.Color{}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

func hex(c colorful.Color) string {
	return strings.ToUpper(c.Hex())
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
