// Implements an abstract representation of
// svg paths, and the interpreter of the path data
// mini-language used by the "d" attribute.
package svgpath

import (
	"fmt"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Point is a position in user space.
type Point struct {
	X, Y float64
}

func (p Point) add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// reflect returns the reflection of p about c, that is 2c - p
func (p Point) reflect(c Point) Point { return Point{2*c.X - p.X, 2*c.Y - p.Y} }

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

// Operation groups the different SVG commands
type Operation interface {
	command() pathCommand
}

type MoveTo Point

type LineTo Point

// QuadTo stores the control point then the end point.
type QuadTo [2]Point

// CubicTo stores the two control points then the end point.
type CubicTo [3]Point

type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (QuadTo) command() pathCommand  { return pathQuadTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

// Path describes a sequence of basic SVG operations.
// Higher-level shapes may be reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%g,%g", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%g,%g", op.X, op.Y)
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%g,%g,%g,%g", op[0].X, op[0].Y, op[1].X, op[1].Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%g,%g,%g,%g,%g,%g", op[0].X, op[0].Y,
				op[1].X, op[1].Y, op[2].X, op[2].Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Start starts a new curve at the given point.
func (p *Path) Start(a Point) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b Point) {
	*p = append(*p, LineTo(b))
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c Point) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d Point) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// CurrentPoint returns the end point of the last operation.
// After a Close, this is the start of the closed subpath.
func (p Path) CurrentPoint() Point {
	for i := len(p) - 1; i >= 0; i-- {
		switch op := p[i].(type) {
		case MoveTo:
			return Point(op)
		case LineTo:
			return Point(op)
		case QuadTo:
			return op[1]
		case CubicTo:
			return op[2]
		case Close:
			return p[:i].subpathStart()
		}
	}
	return Point{}
}

// subpathStart returns the point of the last MoveTo.
func (p Path) subpathStart() Point {
	for i := len(p) - 1; i >= 0; i-- {
		if op, ok := p[i].(MoveTo); ok {
			return Point(op)
		}
	}
	return Point{}
}

func toFixedP(m rasterx.Matrix2D, p Point) fixed.Point26_6 {
	x, y := m.Transform(p.X, p.Y)
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

// AddTo adds the Path p to q, applying the transformation m.
func (p Path) AddTo(q rasterx.Adder, m rasterx.Matrix2D) {
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			q.Stop(false) // implicit close if currently in path.
			q.Start(toFixedP(m, Point(op)))
		case LineTo:
			q.Line(toFixedP(m, Point(op)))
		case QuadTo:
			q.QuadBezier(toFixedP(m, op[0]), toFixedP(m, op[1]))
		case CubicTo:
			q.CubeBezier(toFixedP(m, op[0]), toFixedP(m, op[1]), toFixedP(m, op[2]))
		case Close:
			q.Stop(true)
		}
	}
	q.Stop(false)
}
