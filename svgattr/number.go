package svgattr

import (
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// skipCommaWhitespace returns the number of separator bytes at the start of b.
func skipCommaWhitespace(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

// ParseNumbers splits a list of numbers separated by
// whitespace and/or commas. Compact runs such as "1.5.5" yield
// two numbers.
func ParseNumbers(raw string) ([]float64, error) {
	b := []byte(raw)
	var out []float64
	for {
		b = b[skipCommaWhitespace(b):]
		if len(b) == 0 {
			return out, nil
		}
		f, n := strconv.ParseFloat(b)
		if n == 0 {
			return out, invalidValue(raw, Location{}, "expected number near "+strings.TrimSpace(string(b)))
		}
		out = append(out, f)
		b = b[n:]
	}
}

// ParseNumber parses a single number, surrounding whitespace allowed.
func ParseNumber(raw string, loc Location) (float64, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}
	f, n := strconv.ParseFloat([]byte(s))
	if n != len(s) {
		return 0, false, invalidValue(raw, loc, "not a number")
	}
	return f, true, nil
}

// ParseFraction parses a number or a percentage, the latter
// being divided by 100.
func ParseFraction(raw string, loc Location) (float64, bool, error) {
	s := strings.TrimSpace(raw)
	d := 1.
	if strings.HasSuffix(s, "%") {
		d = 100
		s = strings.TrimSuffix(s, "%")
		if s == "" {
			return 0, false, invalidValue(raw, loc, "missing percentage value")
		}
	}
	f, ok, err := ParseNumber(s, loc)
	if err != nil {
		return 0, false, invalidValue(raw, loc, "not a number or percentage")
	}
	return f / d, ok, nil
}

// ParsePoints parses the "points" list of polygons and polylines,
// which must hold an even count of coordinates.
func ParsePoints(raw string, loc Location) (Points, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, false, nil
	}
	nbs, err := ParseNumbers(raw)
	if err != nil {
		return nil, false, invalidValue(raw, loc, "malformed coordinate list")
	}
	if len(nbs)%2 != 0 {
		return nil, false, invalidValue(raw, loc, "odd number of coordinates")
	}
	out := make(Points, len(nbs)/2)
	for i := range out {
		out[i] = [2]float64{nbs[2*i], nbs[2*i+1]}
	}
	return out, true, nil
}

// Points is a list of (x, y) coordinates.
type Points [][2]float64
