package svgpath

import (
	"math"
)

// compute the bouding box of a path, needed when using gradient with objectBoudingBox

// Bounds defines a bounding box, such as a viewport
// or a path extent.
type Bounds struct{ X, Y, W, H float64 }

// quadratic polinomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b where a,b :
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c  a,b and c are:
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// extent accumulates points
type extent struct {
	minX, minY, maxX, maxY float64
}

func newExtent() extent {
	return extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (e *extent) add(x, y float64) {
	e.minX = math.Min(e.minX, x)
	e.minY = math.Min(e.minY, y)
	e.maxX = math.Max(e.maxX, x)
	e.maxY = math.Max(e.maxY, y)
}

// addCurve evaluates the curve at its end points and at the
// critical points lying in [0,1]
func (e *extent) addCurve(tX, tY []float64, eval func(t float64) (x, y float64)) {
	for _, t := range append(append(tX, 0, 1), tY...) {
		if !(0 <= t && t <= 1) {
			continue
		}
		e.add(eval(t))
	}
}

// Bounds returns the tight bounding box of the path,
// taking into account the extrema of the curves.
// An empty path has empty bounds.
func (p Path) Bounds() Bounds {
	e := newExtent()
	var current Point
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current = Point(op)
			e.add(op.X, op.Y)
		case LineTo:
			current = Point(op)
			e.add(op.X, op.Y)
		case QuadTo:
			p0, p1, p2 := current, op[0], op[1]
			aX, bX := quadraticDerivative(p0.X, p1.X, p2.X)
			aY, bY := quadraticDerivative(p0.Y, p1.Y, p2.Y)
			e.addCurve(linearRoots(aX, bX), linearRoots(aY, bY), func(t float64) (float64, float64) {
				return bezierQuad(p0.X, p1.X, p2.X, t), bezierQuad(p0.Y, p1.Y, p2.Y, t)
			})
			current = p2
		case CubicTo:
			p0, p1, p2, p3 := current, op[0], op[1], op[2]
			aX, bX, cX := cubicDerivative(p0.X, p1.X, p2.X, p3.X)
			aY, bY, cY := cubicDerivative(p0.Y, p1.Y, p2.Y, p3.Y)
			e.addCurve(quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY), func(t float64) (float64, float64) {
				return bezierSpline(p0.X, p1.X, p2.X, p3.X, t), bezierSpline(p0.Y, p1.Y, p2.Y, p3.Y, t)
			})
			current = p3
		}
	}
	if len(p) == 0 || math.IsInf(e.minX, 1) {
		return Bounds{}
	}
	return Bounds{X: e.minX, Y: e.minY, W: e.maxX - e.minX, H: e.maxY - e.minY}
}
