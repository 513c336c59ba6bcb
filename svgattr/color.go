package svgattr

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a non premultiplied RGBA color, with channels in [0,1].
type Color struct {
	R, G, B, A float64
}

var (
	Transparent = Color{}
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
)

var _ color.Color = Color{}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A) * 0xffff)
	r = uint32(clamp01(c.R)*float64(a) + 0.5)
	g = uint32(clamp01(c.G)*float64(a) + 0.5)
	b = uint32(clamp01(c.B)*float64(a) + 0.5)
	return
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%g,%g,%g,%g)", c.R, c.G, c.B, c.A)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	} else if f > 1 {
		return 1
	}
	return f
}

func fromRGBA(c color.RGBA) Color {
	return Color{float64(c.R) / 0xff, float64(c.G) / 0xff, float64(c.B) / 0xff, float64(c.A) / 0xff}
}

// ColorFromHex decodes 3, 6 or 8 hex digits, with an optional leading '#'.
// It returns false for any other input.
func ColorFromHex(s string) (Color, bool) {
	s = strings.ToUpper(strings.TrimPrefix(s, "#"))
	switch s {
	case "FFFFFF", "FFF":
		return White, true
	case "000000", "000":
		return Black, true
	}
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6, 8:
	default:
		return Color{}, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Color{}, false
	}
	out := Color{float64(b[0]) / 0xff, float64(b[1]) / 0xff, float64(b[2]) / 0xff, 1}
	if len(b) == 4 {
		out.A = float64(b[3]) / 0xff
	}
	return out, true
}

// ColorFromKeyword looks up one of the SVG named colors.
// The lookup is case sensitive.
func ColorFromKeyword(name string) (Color, bool) {
	c, ok := colornames.Map[name]
	if !ok {
		return Color{}, false
	}
	return fromRGBA(c), true
}

// ParseColor accepts "none", a color keyword, an hex literal
// and the rgb() or rgba() functional notations.
func ParseColor(raw string, loc Location) (Color, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Color{}, false, nil
	}
	if s == "none" || s == "transparent" {
		return Transparent, true, nil
	}
	if c, ok := ColorFromKeyword(s); ok {
		return c, true, nil
	}
	if strings.HasPrefix(s, "rgb") {
		c, err := parseRGBFunc(s)
		if err != nil {
			return Color{}, false, invalidValue(raw, loc, err.Error())
		}
		return c, true, nil
	}
	if c, ok := ColorFromHex(s); ok {
		return c, true, nil
	}
	return Color{}, false, invalidValue(raw, loc, "unknown color")
}

// parseRGBFunc handles rgb(r, g, b) and rgba(r, g, b, a), where channels
// are either integers in [0,255] or percentages.
func parseRGBFunc(s string) (Color, error) {
	name, args, ok := strings.Cut(s, "(")
	if !ok {
		return Color{}, ErrMissingOpeningBrace
	}
	args, ok = strings.CutSuffix(strings.TrimSpace(args), ")")
	if !ok {
		return Color{}, ErrMissingClosingBrace
	}
	fields := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	want := 3
	if strings.TrimSpace(name) == "rgba" {
		want = 4
	}
	if len(fields) != want && len(fields) != 4 {
		return Color{}, fmt.Errorf("expected %d channels, got %d", want, len(fields))
	}
	var ch [4]float64
	ch[3] = 1
	for i, field := range fields {
		var scale float64 = 0xff
		if i == 3 {
			scale = 1
		}
		if strings.HasSuffix(field, "%") {
			field, scale = strings.TrimSuffix(field, "%"), 100
		}
		v, ok, err := ParseNumber(field, Location{})
		if err != nil || !ok {
			return Color{}, fmt.Errorf("invalid channel %q", field)
		}
		ch[i] = clamp01(v / scale)
	}
	return Color{ch[0], ch[1], ch[2], ch[3]}, nil
}
