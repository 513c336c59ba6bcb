package svgattr

import (
	"math"
	"slices"
	"strings"

	"github.com/srwiley/rasterx"
	"github.com/tdewolff/parse/v2/strconv"
)

// TransformEntry is one parsed transform function, tagged with
// the offset in the source string where its call ends.
type TransformEntry struct {
	Matrix rasterx.Matrix2D
	Offset int
}

// Transform is a transform list, stored by descending source offset,
// so that the rightmost function of the source comes first.
type Transform struct {
	Entries []TransformEntry
}

// Matrix composes the entries: the rightmost function of the
// source is applied first to a point.
func (t Transform) Matrix() rasterx.Matrix2D {
	out := rasterx.Identity
	for _, e := range t.Entries {
		out = e.Matrix.Mult(out)
	}
	return out
}

// Apply transforms the point (x, y).
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.Matrix().Transform(x, y)
}

// IsIdentity returns true if the transform list is empty.
func (t Transform) IsIdentity() bool { return len(t.Entries) == 0 }

type transformFunc struct {
	name     string
	args     []string // argument names, required ones first
	required int
	build    func(args []float64) rasterx.Matrix2D
}

func degToRad(a float64) float64 { return a * math.Pi / 180 }

var transformFuncs = [...]transformFunc{
	{"matrix", []string{"a", "b", "c", "d", "e", "f"}, 6, func(a []float64) rasterx.Matrix2D {
		return rasterx.Matrix2D{A: a[0], B: a[1], C: a[2], D: a[3], E: a[4], F: a[5]}
	}},
	{"translate", []string{"x", "y"}, 1, func(a []float64) rasterx.Matrix2D {
		if len(a) == 1 {
			return rasterx.Identity.Translate(a[0], 0)
		}
		return rasterx.Identity.Translate(a[0], a[1])
	}},
	{"scale", []string{"x", "y"}, 1, func(a []float64) rasterx.Matrix2D {
		if len(a) == 1 {
			return rasterx.Identity.Scale(a[0], a[0])
		}
		return rasterx.Identity.Scale(a[0], a[1])
	}},
	{"rotate", []string{"angle", "cx", "cy"}, 1, func(a []float64) rasterx.Matrix2D {
		if len(a) == 1 {
			return rasterx.Identity.Rotate(degToRad(a[0]))
		}
		return rasterx.Identity.Translate(a[1], a[2]).Rotate(degToRad(a[0])).Translate(-a[1], -a[2])
	}},
	{"skewX", []string{"angle"}, 1, func(a []float64) rasterx.Matrix2D {
		return rasterx.Identity.SkewX(degToRad(a[0]))
	}},
	{"skewY", []string{"angle"}, 1, func(a []float64) rasterx.Matrix2D {
		return rasterx.Identity.SkewY(degToRad(a[0]))
	}},
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

// ParseTransform parses a transform list such as
// "translate(10,20) rotate(45 5 5) scale(2)".
// Unknown content between function calls is skipped.
func ParseTransform(raw string, loc Location) (Transform, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return Transform{}, false, nil
	}
	var out Transform
	for pos := 0; pos < len(raw); {
		if c := raw[pos]; isSpace(c) || c == ',' {
			pos++
			continue
		}
		fn := matchTransformFunc(raw[pos:])
		if fn == nil {
			pos++
			continue
		}
		m, end, err := fn.parseCall(raw, pos+len(fn.name), loc)
		if err != nil {
			return Transform{}, false, err
		}
		out.Entries = append(out.Entries, TransformEntry{Matrix: m, Offset: end})
		pos = end
	}
	slices.SortStableFunc(out.Entries, func(a, b TransformEntry) int { return b.Offset - a.Offset })
	return out, true, nil
}

func matchTransformFunc(s string) *transformFunc {
	for i := range transformFuncs {
		if strings.HasPrefix(s, transformFuncs[i].name) {
			return &transformFuncs[i]
		}
	}
	return nil
}

// parseCall reads "(args...)" starting at pos, and returns the offset
// following the closing brace.
func (fn *transformFunc) parseCall(raw string, pos int, loc Location) (rasterx.Matrix2D, int, error) {
	newErr := func(err error, arg string) error {
		return &TransformError{Err: err, Function: fn.name, Argument: arg, Raw: raw, Location: loc}
	}
	for pos < len(raw) && isSpace(raw[pos]) {
		pos++
	}
	if pos >= len(raw) || raw[pos] != '(' {
		return rasterx.Matrix2D{}, 0, newErr(ErrMissingOpeningBrace, "")
	}
	pos++

	var args []float64
	for {
		b := []byte(raw[pos:])
		b = b[skipCommaWhitespace(b):]
		f, n := strconv.ParseFloat(b)
		if n == 0 {
			break
		}
		args = append(args, f)
		pos = len(raw) - len(b) + n
	}
	for pos < len(raw) && (isSpace(raw[pos]) || raw[pos] == ',') {
		pos++
	}
	if pos >= len(raw) || raw[pos] != ')' {
		return rasterx.Matrix2D{}, 0, newErr(ErrMissingClosingBrace, "")
	}
	pos++

	if len(args) < fn.required {
		return rasterx.Matrix2D{}, 0, newErr(ErrInvalidTransformDefinition, fn.args[len(args)])
	}
	if len(args) > len(fn.args) {
		return rasterx.Matrix2D{}, 0, newErr(ErrInvalidTransformDefinition, "")
	}
	// rotate center requires both coordinates
	if fn.name == "rotate" && len(args) == 2 {
		return rasterx.Matrix2D{}, 0, newErr(ErrInvalidTransformDefinition, "cy")
	}
	return fn.build(args), pos, nil
}
