// Implements a raster backend to render SVG images,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"io"

	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgdoc"
	"github.com/benoitkugler/svgdom/svgdraw"
	"github.com/srwiley/rasterx"
)

var _ svgdraw.Driver = (*Renderer)(nil) // assert interface conformance

type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
}

// NewRenderer returns a renderer with default values.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), filler: rasterx.NewFiller(width, height, scanner)}
}

// Rasterize draws doc into a new image of the given size,
// scaling its view box to fill the image.
func Rasterize(doc *svgdoc.Document, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	renderer := NewRenderer(width, height, scanner)
	svgdraw.Draw(doc, renderer, svgdraw.Target(doc, 0, 0, float64(width), float64(height)), 1.0)
	return img
}

// RasterSVGToImage parses the SVG content and renders it
// at its nominal size.
func RasterSVGToImage(content io.Reader, opts ...svgdoc.Option) (*image.RGBA, error) {
	doc, err := svgdoc.Parse(content, opts...)
	if err != nil {
		return nil, err
	}
	return Rasterize(doc, int(doc.Width+0.5), int(doc.Height+0.5)), nil
}

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (svgdraw.Filler, svgdraw.Stroker) {
	var (
		f svgdraw.Filler
		s svgdraw.Stroker
	)
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

type filler struct {
	*rasterx.Filler
}

func (f filler) SetColor(paint svgattr.Paint, opacity float64, userSpace rasterx.Matrix2D) {
	setColorFromPaint(paint, opacity, userSpace, f.Scanner)
}

type stroker struct {
	*rasterx.Dasher
}

func (s stroker) SetColor(paint svgattr.Paint, opacity float64, userSpace rasterx.Matrix2D) {
	setColorFromPaint(paint, opacity, userSpace, s.Scanner)
}

func (s stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.SetStroke(
		options.LineWidth, options.MiterLimit, capToFunc[options.Cap],
		capToFunc[options.Cap], rasterx.FlatGap,
		joinToJoin[options.Join], options.Dash, options.DashOffset,
	)
}

func toRasterxGradient(grad *svgattr.Gradient, userSpace rasterx.Matrix2D) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
	)
	switch dir := grad.Direction.(type) {
	case svgattr.Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
	case svgattr.Radial:
		points[0], points[1], points[2], points[3], points[4] = dir[0], dir[1], dir[2], dir[3], dir[4] // in rasterx fr is ignored
		isRadial = true
	}
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i, s := range grad.Stops {
		stops[i] = rasterx.GradStop{StopColor: s.Color, Offset: s.Offset, Opacity: s.Opacity}
	}
	matrix := grad.Transform.Matrix()
	if grad.Units == svgattr.UserSpaceOnUse {
		matrix = userSpace.Mult(matrix)
	}
	return rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Matrix:   matrix,
		Spread:   rasterx.SpreadMethod(grad.Spread),
		Units:    rasterx.GradientUnits(grad.Units),
		IsRadial: isRadial,
	}
}

// resolve gradient color
func setColorFromPaint(paint svgattr.Paint, opacity float64, userSpace rasterx.Matrix2D, scanner rasterx.Scanner) {
	switch paint := paint.(type) {
	case svgattr.Color:
		scanner.SetColor(rasterx.ApplyOpacity(paint, opacity))
	case *svgattr.Gradient:
		g := toRasterxGradient(paint, userSpace)
		if paint.Units == svgattr.ObjectBoundingBox {
			fRect := scanner.GetPathExtent()
			mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
			mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
			g.Bounds.X, g.Bounds.Y = mnx, mny
			g.Bounds.W, g.Bounds.H = mxx-mnx, mxy-mny
		}
		scanner.SetColor(g.GetColorFunction(opacity))
	}
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgattr.Round:     rasterx.Round,
		svgattr.Bevel:     rasterx.Bevel,
		svgattr.Miter:     rasterx.Miter,
		svgattr.MiterClip: rasterx.MiterClip,
		svgattr.Arc:       rasterx.Arc,
		svgattr.ArcClip:   rasterx.ArcClip,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgattr.ButtCap:      rasterx.ButtCap,
		svgattr.SquareCap:    rasterx.SquareCap,
		svgattr.RoundCap:     rasterx.RoundCap,
		svgattr.CubicCap:     rasterx.CubicCap,
		svgattr.QuadraticCap: rasterx.QuadraticCap,
	}
)
