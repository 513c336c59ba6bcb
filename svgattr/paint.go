package svgattr

import (
	"fmt"
	"strings"
)

// Paint is what fills or strokes a shape: a Color or a *Gradient.
type Paint interface {
	isPaint()
}

func (Color) isPaint()     {}
func (*Gradient) isPaint() {}

// ParseURLReference extracts the id of a "url(#id)" reference.
func ParseURLReference(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "url(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	s = strings.TrimSpace(s[len("url(") : len(s)-1])
	s = strings.Trim(s, `'"`)
	id, ok := strings.CutPrefix(s, "#")
	return id, ok && id != ""
}

// FillRule is the winding rule used to fill shapes.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// Fill groups the fill related properties.
type Fill struct {
	Paint   Paint  // nil for no fill
	Ref     string // id of a paint server, if any
	Opacity float64
	Rule    FillRule
}

// DefaultFill is opaque black, with the nonzero rule.
var DefaultFill = Fill{Paint: Black, Opacity: 1}

// LineCap is the shape at the end of open subpaths.
type LineCap uint8

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
	CubicCap
	QuadraticCap
)

var capNames = map[string]LineCap{
	"butt":      ButtCap,
	"round":     RoundCap,
	"square":    SquareCap,
	"cubic":     CubicCap,
	"quadratic": QuadraticCap,
}

// LineJoin is the shape at the corners of stroked paths.
type LineJoin uint8

const (
	Miter LineJoin = iota
	MiterClip
	Round
	Bevel
	Arc
	ArcClip
)

var joinNames = map[string]LineJoin{
	"miter":      Miter,
	"miter-clip": MiterClip,
	"round":      Round,
	"bevel":      Bevel,
	"arc":        Arc,
	"arc-clip":   ArcClip,
}

// ParseLineCap parses a stroke-linecap value.
func ParseLineCap(raw string, loc Location) (LineCap, error) {
	c, ok := capNames[strings.TrimSpace(raw)]
	if !ok {
		return 0, invalidValue(raw, loc, "unknown line cap")
	}
	return c, nil
}

// ParseLineJoin parses a stroke-linejoin value.
func ParseLineJoin(raw string, loc Location) (LineJoin, error) {
	j, ok := joinNames[strings.TrimSpace(raw)]
	if !ok {
		return 0, invalidValue(raw, loc, "unknown line join")
	}
	return j, nil
}

// Stroke groups the stroke related properties.
type Stroke struct {
	Paint      Paint  // nil for no stroke
	Ref        string // id of a paint server, if any
	Width      Length
	Opacity    float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dash       []float64
	DashOffset float64
}

// DefaultStroke is not painted, with a 1 unit width.
var DefaultStroke = Stroke{Width: Length{Value: 1}, Opacity: 1, MiterLimit: 4}

// ParseDashArray parses a stroke-dasharray value. "none" gives
// an empty array. An odd count is repeated to obtain an even one.
func ParseDashArray(raw string, loc Location) ([]float64, error) {
	s := strings.TrimSpace(raw)
	if s == "none" || s == "" {
		return nil, nil
	}
	var out []float64
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		l, _, err := ParseLength(f, loc)
		if err != nil {
			return nil, err
		}
		if l.Value < 0 {
			return nil, invalidValue(raw, loc, fmt.Sprintf("negative dash %g", l.Value))
		}
		out = append(out, l.Pixels(0))
	}
	if len(out)%2 == 1 {
		out = append(out, out...)
	}
	return out, nil
}
