package svgattr

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// Unit is the measurement unit of a Length.
type Unit uint8

const (
	UnitNone Unit = iota // user units
	UnitEm
	UnitEx
	UnitPx
	UnitIn
	UnitCm
	UnitMm
	UnitPt
	UnitPc
	UnitPercent
)

var unitSuffixes = [...]string{
	UnitNone:    "",
	UnitEm:      "em",
	UnitEx:      "ex",
	UnitPx:      "px",
	UnitIn:      "in",
	UnitCm:      "cm",
	UnitMm:      "mm",
	UnitPt:      "pt",
	UnitPc:      "pc",
	UnitPercent: "%",
}

func (u Unit) String() string {
	if int(u) < len(unitSuffixes) {
		return unitSuffixes[u]
	}
	return fmt.Sprintf("<unit %d>", u)
}

// font metrics used to resolve relative units, since no
// font is known at parse time
const (
	defaultFontSize = 16
	defaultXHeight  = 8
)

// size of one unit in user units (pixels at 96 dpi)
var unitPixels = [...]float64{
	UnitNone: 1,
	UnitEm:   defaultFontSize,
	UnitEx:   defaultXHeight,
	UnitPx:   1,
	UnitIn:   96,
	UnitCm:   96 / 2.54,
	UnitMm:   96 / 25.4,
	UnitPt:   96. / 72,
	UnitPc:   16,
}

// Length is a number with an optional unit.
type Length struct {
	Value float32
	Unit  Unit
}

func (l Length) String() string {
	return fmt.Sprintf("%g%s", l.Value, l.Unit)
}

// Pixels resolves the length in user units. The reference is used
// for percentages, and is typically the viewport dimension.
func (l Length) Pixels(reference float64) float64 {
	if l.Unit == UnitPercent {
		return float64(l.Value) * reference / 100
	}
	if int(l.Unit) >= len(unitPixels) {
		return float64(l.Value)
	}
	return float64(l.Value) * unitPixels[l.Unit]
}

// ParseLength reads a signed number followed by an optional unit suffix,
// with surrounding whitespace allowed: "   5      px     " is 5px.
// The returned boolean is false if raw is blank.
func ParseLength(raw string, loc Location) (Length, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Length{}, false, nil
	}
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return Length{}, false, invalidValue(raw, loc, "expected a number")
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) > math.MaxFloat32 {
		return Length{}, false, invalidValue(raw, loc, "number out of range")
	}
	out := Length{Value: float32(f)}
	suffix := strings.TrimSpace(s[n:])
	if suffix == "" {
		return out, true, nil
	}
	for u, us := range unitSuffixes {
		if u != int(UnitNone) && us == suffix {
			out.Unit = Unit(u)
			return out, true, nil
		}
	}
	return Length{}, false, &ValueError{Err: ErrInvalidMeasurementUnit, Raw: raw, Location: loc, Reason: "unknown unit " + suffix}
}

// Point is a position made of two lengths.
type Point struct {
	X, Y Length
}

// Size is a dimension made of two lengths.
type Size struct {
	Width, Height Length
}
