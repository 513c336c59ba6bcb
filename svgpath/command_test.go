package svgpath

import (
	"errors"
	"math"
	"testing"

	"github.com/tdewolff/test"
	"go.uber.org/multierr"
)

func mustParse(t *testing.T, d string) Path {
	t.Helper()
	p, err := NewFactory().Parse(d)
	if err != nil {
		t.Fatalf("parsing %q: %s", d, err)
	}
	return p
}

func TestParseEmpty(t *testing.T) {
	for _, d := range []string{"", "   ", "\n\t"} {
		p := mustParse(t, d)
		test.T(t, len(p), 0)
	}
}

func TestParseClosedRect(t *testing.T) {
	p := mustParse(t, "M0,0 L10,0 L10,10 Z")
	test.T(t, p, Path{MoveTo{0, 0}, LineTo{10, 0}, LineTo{10, 10}, Close{}})
	test.T(t, p.CurrentPoint(), Point{0, 0})
}

func TestParseCommands(t *testing.T) {
	var tests = []struct {
		d    string
		want Path
	}{
		{"M1 2 L3 4", Path{MoveTo{1, 2}, LineTo{3, 4}}},
		{"m1 2 l3 4", Path{MoveTo{1, 2}, LineTo{4, 6}}},
		{"M1 2 H5 V7", Path{MoveTo{1, 2}, LineTo{5, 2}, LineTo{5, 7}}},
		{"M1 2 h5 v7", Path{MoveTo{1, 2}, LineTo{6, 2}, LineTo{6, 9}}},
		{"M0 0 C1 1 2 2 3 3", Path{MoveTo{0, 0}, CubicTo{{1, 1}, {2, 2}, {3, 3}}}},
		{"M1 1 c1 1 2 2 3 3", Path{MoveTo{1, 1}, CubicTo{{2, 2}, {3, 3}, {4, 4}}}},
		{"M0 0 Q1 1 2 0", Path{MoveTo{0, 0}, QuadTo{{1, 1}, {2, 0}}}},
		{"M1 0 q1 1 2 0", Path{MoveTo{1, 0}, QuadTo{{2, 1}, {3, 0}}}},
		// implicit repetition, a repeated move is a line
		{"M0 0 10 0 10 10", Path{MoveTo{0, 0}, LineTo{10, 0}, LineTo{10, 10}}},
		{"m1 1 2 2", Path{MoveTo{1, 1}, LineTo{3, 3}}},
		{"M0 0 L1 1 2 2 3 3", Path{MoveTo{0, 0}, LineTo{1, 1}, LineTo{2, 2}, LineTo{3, 3}}},
		// compact numbers and exponents
		{"M1.5.5L-2e1-1E1", Path{MoveTo{1.5, 0.5}, LineTo{-20, -10}}},
		// relative move after close starts from the subpath start
		{"M5 5 L10 5 Z m1 1 l1 0", Path{MoveTo{5, 5}, LineTo{10, 5}, Close{}, MoveTo{6, 6}, LineTo{7, 6}}},
		// drawing after close opens a new subpath
		{"M5 5 L10 5 Z L0 0", Path{MoveTo{5, 5}, LineTo{10, 5}, Close{}, MoveTo{5, 5}, LineTo{0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.d, func(t *testing.T) {
			test.T(t, mustParse(t, tt.d), tt.want)
		})
	}
}

func TestSmoothCubicReflection(t *testing.T) {
	p := mustParse(t, "C10,10 20,10 20,20 S30,30 40,20")
	test.T(t, len(p), 3)
	s := p[2].(CubicTo)
	test.T(t, s[0], Point{20, 30})
	test.T(t, s[1], Point{30, 30})
	test.T(t, s[2], Point{40, 20})
}

func TestSmoothCubicReflectionRelative(t *testing.T) {
	// same curve as above, with relative previous command
	p := mustParse(t, "M0,0 c10,10 20,10 20,20 S30,30 40,20")
	s := p[2].(CubicTo)
	test.T(t, s[0], Point{20, 30})

	// previous command starting away from the origin
	p = mustParse(t, "M5,5 c10,10 20,10 20,20 s10,10 20,0")
	s = p[2].(CubicTo)
	// control (25,15) reflected about (25,25)
	test.T(t, s[0], Point{25, 35})
	test.T(t, s[1], Point{35, 35})
	test.T(t, s[2], Point{45, 25})

	// chained smooth commands in one invocation
	p = mustParse(t, "M0,0 C0,10 10,10 10,0 S20,-10 20,0 30,10 30,0")
	test.T(t, p[3].(CubicTo)[0], Point{20, 10})
}

func TestSmoothCubicWithoutCurve(t *testing.T) {
	p := mustParse(t, "M0,0 L10,10 S30,30 40,20")
	test.T(t, p[2].(CubicTo)[0], Point{10, 10})
}

func TestSmoothCubicAfterSkippedCommand(t *testing.T) {
	p, err := NewFactory().Parse("M0,0 C10,10 20,10 20,20 X S30,30 40,20")
	test.That(t, errors.Is(err, ErrUnknownPathCommand), err)
	test.T(t, len(p), 3)
	// the curve is not reflected across the unknown command
	test.T(t, p[2].(CubicTo)[0], Point{20, 20})

	p, err = NewFactory().Parse("M0,0 Q10,10 20,0 L T40,0")
	test.That(t, errors.Is(err, ErrInvalidPathCommand), err)
	test.T(t, p[2].(QuadTo)[0], Point{20, 0})
}

func TestSmoothQuadReflection(t *testing.T) {
	p := mustParse(t, "M0,0 Q10,10 20,0 T40,0")
	test.T(t, p[2].(QuadTo)[0], Point{30, -10})

	p = mustParse(t, "M0,0 q10,10 20,0 t20,0")
	test.T(t, p[2].(QuadTo)[0], Point{30, -10})

	// the control point of a T is itself reflected
	p = mustParse(t, "M0,0 Q10,10 20,0 T40,0 T60,0")
	test.T(t, p[3].(QuadTo)[0], Point{50, 10})

	p = mustParse(t, "M0,0 L20,0 T40,0")
	test.T(t, p[2].(QuadTo)[0], Point{20, 0})
}

func TestArc(t *testing.T) {
	p := mustParse(t, "M0,0 A10,10 0 0 1 20,0")
	test.That(t, len(p) > 2)
	test.T(t, p.CurrentPoint(), Point{20, 0})
	b := p.Bounds()
	test.That(t, math.Abs(b.X) < 1e-6, b)
	test.That(t, math.Abs(b.W-20) < 1e-6, b)
	test.That(t, b.H > 9.9 && b.H < 10.1, b)

	// compact flags
	p = mustParse(t, "M0,0 a10,10 0 0110,10")
	test.T(t, p.CurrentPoint(), Point{10, 10})

	// degenerate radius draws a line
	p = mustParse(t, "M0,0 A0,10 0 0 1 20,0")
	test.T(t, p, Path{MoveTo{0, 0}, LineTo{20, 0}})
}

func TestCommandErrors(t *testing.T) {
	f := NewFactory()
	var path Path
	err := f.Command(&path, "", "")
	test.That(t, errors.Is(err, ErrInvalidPathCommand))
	err = f.Command(&path, "X10 10", "")
	test.That(t, errors.Is(err, ErrUnknownPathCommand))
	err = f.Command(&path, "L", "")
	test.That(t, errors.Is(err, ErrInvalidPathCommand))
	err = f.Command(&path, "L10,#", "")
	test.That(t, errors.Is(err, ErrInvalidPathCommand))
	test.T(t, len(path), 0)
}

func TestParseSkipsBadCommands(t *testing.T) {
	p, err := NewFactory().Parse("M0,0 L10,0 X5 5 L10 10 C1 2 Z")
	test.T(t, p, Path{MoveTo{0, 0}, LineTo{10, 0}, LineTo{10, 10}, Close{}})
	errs := multierr.Errors(err)
	test.T(t, len(errs), 2)
	test.That(t, errors.Is(errs[0], ErrUnknownPathCommand))
	test.That(t, errors.Is(errs[1], ErrInvalidPathCommand))
	var ce *CommandError
	test.That(t, errors.As(errs[0], &ce))
	test.T(t, ce.Offset, 11)

	// incomplete trailing group keeps the complete ones
	p, err = NewFactory().Parse("M0,0 L1,1 2")
	test.T(t, p, Path{MoveTo{0, 0}, LineTo{1, 1}})
	test.That(t, errors.Is(err, ErrInvalidPathCommand))
}

func TestSplitCommands(t *testing.T) {
	cmds, offsets, leading := SplitCommands("  M1e2,3L4 5z")
	test.T(t, cmds, []string{"M1e2,3", "L4 5", "z"})
	test.T(t, offsets, []int{2, 8, 12})
	test.String(t, leading, "  ")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a, b := r.Get("a"), r.Get("b")
	test.That(t, a != b)
	test.That(t, r.Get("a") == a)
	test.T(t, r.Len(), 2)
	r.Release("a")
	test.T(t, r.Len(), 1)
	test.That(t, r.Get("a") != a)
}
