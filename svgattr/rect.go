package svgattr

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// Rect is a rectangle in user units, such as a viewBox.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) String() string {
	return fmt.Sprintf("%g %g %g %g", r.X, r.Y, r.Width, r.Height)
}

// ParseRect reads exactly four numbers, separated by whitespace and/or commas.
// Negative dimensions are rejected.
func ParseRect(raw string, loc Location) (Rect, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return Rect{}, false, nil
	}
	b := []byte(raw)
	var fields [4]float64
	for i := range fields {
		b = b[skipCommaWhitespace(b):]
		f, n := strconv.ParseFloat(b)
		if n == 0 {
			return Rect{}, false, invalidValue(raw, loc, fmt.Sprintf("expected 4 numbers, got %d", i))
		}
		fields[i] = f
		b = b[n:]
	}
	if len(b[skipCommaWhitespace(b):]) != 0 {
		return Rect{}, false, invalidValue(raw, loc, "unexpected trailing content")
	}
	out := Rect{X: fields[0], Y: fields[1], Width: fields[2], Height: fields[3]}
	if out.Width < 0 || out.Height < 0 {
		return Rect{}, false, invalidValue(raw, loc, "negative width or height")
	}
	return out, true, nil
}
