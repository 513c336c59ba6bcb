// Package svgdraw implements how to draw a parsed SVG document.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images.
package svgdraw

import (
	"math"

	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgdoc"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Drawer knows how to do the actual draw operations
// but doesn't need any SVG knowledge.
// In particular, transformation matrices are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	// Start, Line, QuadBezier, CubeBezier and Stop
	// build the current path.
	rasterx.Adder

	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// SetColor sets the paint of the current path. userSpace maps the
	// user space of the path to the device, and is required to draw
	// gradients in userSpaceOnUse units.
	SetColor(paint svgattr.Paint, opacity float64, userSpace rasterx.Matrix2D)

	// Draw fills or strokes the accumulated path using the current settings
	Draw()
}

type Filler interface {
	Drawer

	// Decide to use or not the NonZeroWinding rule for the current path
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the beginning of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	// When both booleans are true, one can assume that the exact same draw operations
	// will be performed on the Filler first and then on the Stroker.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

// StrokeOptions are expressed in device units.
type StrokeOptions struct {
	LineWidth  fixed.Int26_6
	MiterLimit fixed.Int26_6
	Cap        svgattr.LineCap
	Join       svgattr.LineJoin
	Dash       []float64 // values for the dash pattern (nil or an empty slice for no dashes)
	DashOffset float64   // starting offset into the dash array
}

// maximum nesting of use elements
const maxUseDepth = 16

// Target returns the matrix mapping the view box of doc
// into the rectangle (x, y, w, h).
func Target(doc *svgdoc.Document, x, y, w, h float64) rasterx.Matrix2D {
	vb := doc.ViewBox
	if vb.Width <= 0 || vb.Height <= 0 {
		return rasterx.Identity.Translate(x, y)
	}
	return rasterx.Identity.Translate(x, y).Scale(w/vb.Width, h/vb.Height).Translate(-vb.X, -vb.Y)
}

type drawer struct {
	d    Driver
	diag float64 // reference for percentage stroke widths

	// elements being drawn, so that a use element
	// never expands one of its ancestors
	active map[svgdoc.Element]bool
}

// Draw the document into the driver `d`, applying the matrix m
// (see Target) and the global opacity.
// Definitions, clip paths and text are not drawn.
func Draw(doc *svgdoc.Document, d Driver, m rasterx.Matrix2D, opacity float64) {
	dr := drawer{
		d:      d,
		diag:   math.Hypot(doc.ViewBox.Width, doc.ViewBox.Height) / math.Sqrt2,
		active: make(map[svgdoc.Element]bool),
	}
	dr.element(doc, m, opacity, 0)
}

func (dr drawer) children(parent svgdoc.Element, list []svgdoc.Element, m rasterx.Matrix2D, opacity float64, depth int) {
	dr.active[parent] = true
	defer delete(dr.active, parent)
	for _, child := range list {
		dr.element(child, m, opacity, depth)
	}
}

func (dr drawer) element(el svgdoc.Element, m rasterx.Matrix2D, opacity float64, depth int) {
	switch el := el.(type) {
	case *svgdoc.Document:
		if el.Hidden {
			return
		}
		dr.children(el, el.Children(), m.Mult(el.Transform.Matrix()), opacity*el.Opacity, depth)
	case *svgdoc.Group:
		if el.Hidden || el.Kind() != svgdoc.KindGroup {
			return
		}
		dr.children(el, el.Children(), m.Mult(el.Transform.Matrix()), opacity*el.Opacity, depth)
	case *svgdoc.Shape:
		if el.Hidden {
			return
		}
		dr.shape(el, m.Mult(el.Transform.Matrix()), opacity*el.Opacity)
	case *svgdoc.Use:
		if el.Hidden || el.Target == nil || depth >= maxUseDepth || dr.active[el] || dr.active[el.Target] {
			return
		}
		dr.active[el] = true
		defer delete(dr.active, el)
		m = m.Mult(el.Transform.Matrix()).Translate(el.X, el.Y)
		dr.element(el.Target, m, opacity*el.Opacity, depth+1)
	}
}

// scaleOf returns the mean scaling factor of m, used for lengths
// which are not transformed point by point.
func scaleOf(m rasterx.Matrix2D) float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

func (dr drawer) shape(s *svgdoc.Shape, m rasterx.Matrix2D, opacity float64) {
	path := s.Path()
	if len(path) == 0 {
		return
	}
	scale := scaleOf(m)
	lineWidth := s.Stroke.Width.Pixels(dr.diag) * scale

	filler, stroker := dr.d.SetupDrawers(s.Fill.Paint != nil, s.Stroke.Paint != nil && lineWidth > 0)
	if filler != nil { // nil paint disables filling
		filler.Clear()
		filler.SetWinding(s.Fill.Rule == svgattr.NonZero)
		path.AddTo(filler, m)
		filler.SetColor(s.Fill.Paint, s.Fill.Opacity*opacity, m)
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil { // nil paint disables lining
		stroker.Clear()
		var dash []float64
		if len(s.Stroke.Dash) != 0 {
			dash = make([]float64, len(s.Stroke.Dash))
			for i, v := range s.Stroke.Dash {
				dash[i] = v * scale
			}
		}
		stroker.SetStrokeOptions(StrokeOptions{
			LineWidth:  fixed.Int26_6(lineWidth * 64),
			MiterLimit: fixed.Int26_6(s.Stroke.MiterLimit * 64),
			Cap:        s.Stroke.Cap,
			Join:       s.Stroke.Join,
			Dash:       dash,
			DashOffset: s.Stroke.DashOffset * scale,
		})
		path.AddTo(stroker, m)
		stroker.SetColor(s.Stroke.Paint, s.Stroke.Opacity*opacity, m)
		stroker.Draw()
	}
}
