// Package svgpdf implements a PDF backend for svgdraw,
// writing the draw operations as a PDF content stream.
package svgpdf

import (
	"image/color"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgdoc"
	"github.com/benoitkugler/svgdom/svgdraw"
)

// assert interface conformance
var (
	_ svgdraw.Driver  = Renderer{}
	_ svgdraw.Filler  = (*filler)(nil)
	_ svgdraw.Stroker = (*stroker)(nil)
)

// A4 is used when the document has no nominal size.
const a4Width, a4Height = 595.28, 841.89

// Renderer writes into a content stream. Graphic states
// holding opacities are shared between the paths.
type Renderer struct {
	pdf                 *contentstream.Appearance
	fillOpacityStates   map[float64]*model.GraphicState
	strokeOpacityStates map[float64]*model.GraphicState
}

// NewRenderer return a renderer which will
// write to the given `pdf`.
func NewRenderer(cs *contentstream.Appearance) Renderer {
	return Renderer{
		pdf:                 cs,
		fillOpacityStates:   make(map[float64]*model.GraphicState),
		strokeOpacityStates: make(map[float64]*model.GraphicState),
	}
}

// RenderToPDF draws doc on a one page PDF file, sized after the
// nominal size of the document.
func RenderToPDF(doc *svgdoc.Document, pdfName string) error {
	width, height := pageSize(doc)
	pdf := contentstream.NewAppearance(width, height)
	renderer := NewRenderer(&pdf)
	// SVG has its y axis going down
	pdf.Ops(
		contentstream.OpSave{},
		contentstream.OpConcat{Matrix: model.Matrix{1, 0, 0, -1, 0, height}},
	)
	svgdraw.Draw(doc, renderer, svgdraw.Target(doc, 0, 0, width, height), 1.0)
	pdf.Ops(contentstream.OpRestore{})

	var out model.Document
	var page model.PageObject
	pdf.ApplyToPageObject(&page, true)
	out.Catalog.Pages.Kids = append(out.Catalog.Pages.Kids, &page)
	return out.WriteFile(pdfName, nil)
}

func pageSize(doc *svgdoc.Document) (w, h float64) {
	if doc.Width <= 0 || doc.Height <= 0 {
		return a4Width, a4Height
	}
	return doc.Width, doc.Height
}

// SetupDrawers returns drawers writing their own path,
// since the PDF painting operators consume the current path.
func (r Renderer) SetupDrawers(willFill, willStroke bool) (svgdraw.Filler, svgdraw.Stroker) {
	var (
		f svgdraw.Filler
		s svgdraw.Stroker
	)
	if willFill {
		f = &filler{pather: pather{pdf: r.pdf}, opacityStates: r.fillOpacityStates, nonZero: true}
	}
	if willStroke {
		s = &stroker{pather: pather{pdf: r.pdf}, opacityStates: r.strokeOpacityStates}
	}
	return f, s
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf     *contentstream.Appearance
	current fixed.Point26_6

	color   color.RGBA
	opacity float64
}

func (p *pather) Clear() {
	p.current = fixed.Point26_6{}
}

func (p *pather) Start(a fixed.Point26_6) {
	x, y := fixedTof(a)
	p.pdf.Ops(contentstream.OpMoveTo{X: x, Y: y})
	p.current = a
}

func (p *pather) Line(b fixed.Point26_6) {
	x, y := fixedTof(b)
	p.pdf.Ops(contentstream.OpLineTo{X: x, Y: y})
	p.current = b
}

// QuadBezier is written as the equivalent cubic, since
// PDF has no quadratic curves.
func (p *pather) QuadBezier(b, c fixed.Point26_6) {
	x0, y0 := fixedTof(p.current)
	bx, by := fixedTof(b)
	x, y := fixedTof(c)
	p.pdf.Ops(contentstream.OpCubicTo{
		X1: x0 + 2*(bx-x0)/3, Y1: y0 + 2*(by-y0)/3,
		X2: x + 2*(bx-x)/3, Y2: y + 2*(by-y)/3,
		X3: x, Y3: y,
	})
	p.current = c
}

func (p *pather) CubeBezier(b, c, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.pdf.Ops(contentstream.OpCubicTo{X1: cx0, Y1: cy0, X2: cx1, Y2: cy1, X3: x, Y3: y})
	p.current = d
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.Ops(contentstream.OpClosePath{})
	}
}

// SetColor resolves the paint to a flat color: gradients are
// approximated by their mean stop color.
func (p *pather) SetColor(paint svgattr.Paint, opacity float64, _ rasterx.Matrix2D) {
	c, alpha := flatColor(paint)
	p.color, p.opacity = c, opacity*alpha
}

func flatColor(paint svgattr.Paint) (color.RGBA, float64) {
	var c svgattr.Color
	switch paint := paint.(type) {
	case svgattr.Color:
		c = paint
	case *svgattr.Gradient:
		if len(paint.Stops) == 0 {
			return color.RGBA{}, 0
		}
		for _, s := range paint.Stops {
			c.R += s.Color.R
			c.G += s.Color.G
			c.B += s.Color.B
			c.A += s.Color.A * s.Opacity
		}
		n := float64(len(paint.Stops))
		c.R, c.G, c.B, c.A = c.R/n, c.G/n, c.B/n, c.A/n
	default:
		return color.RGBA{}, 0
	}
	return color.RGBA{R: toByte(c.R), G: toByte(c.G), B: toByte(c.B), A: 0xff}, c.A
}

func toByte(f float64) uint8 {
	if f <= 0 {
		return 0
	} else if f >= 1 {
		return 0xff
	}
	return uint8(f*0xff + 0.5)
}

// graphicState returns the cached state for opacity,
// creating it with newState if needed.
func graphicState(cache map[float64]*model.GraphicState, opacity float64, newState func() *model.GraphicState) *model.GraphicState {
	gs, ok := cache[opacity]
	if !ok {
		gs = newState()
		cache[opacity] = gs
	}
	return gs
}

// implements the filling operation
type filler struct {
	pather
	nonZero       bool
	opacityStates map[float64]*model.GraphicState
}

func (f *filler) SetWinding(useNonZeroWinding bool) {
	f.nonZero = useNonZeroWinding
}

func (f *filler) Draw() {
	f.pdf.SetColorFill(f.color)
	gs := graphicState(f.opacityStates, f.opacity, func() *model.GraphicState {
		return &model.GraphicState{Ca: model.ObjFloat(f.opacity), BM: []model.Name{"Normal"}}
	})
	f.pdf.Ops(contentstream.OpSetExtGState{Dict: f.pdf.AddExtGState(gs)})
	if f.nonZero {
		f.pdf.Ops(contentstream.OpFill{})
	} else {
		f.pdf.Ops(contentstream.OpEOFill{})
	}
}

// implements the stroking operation
type stroker struct {
	pather
	opacityStates map[float64]*model.GraphicState
}

var (
	capStyles = [...]uint8{
		svgattr.ButtCap:      0,
		svgattr.RoundCap:     1,
		svgattr.SquareCap:    2,
		svgattr.CubicCap:     1,
		svgattr.QuadraticCap: 1,
	}
	joinStyles = [...]uint8{
		svgattr.Miter:     0,
		svgattr.MiterClip: 0,
		svgattr.Round:     1,
		svgattr.Bevel:     2,
		svgattr.Arc:       1,
		svgattr.ArcClip:   1,
	}
)

func (s *stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.pdf.Ops(
		contentstream.OpSetDash{Dash: model.DashPattern{
			Array: options.Dash,
			Phase: options.DashOffset,
		}},
		contentstream.OpSetLineWidth{W: float64(options.LineWidth) / 64},
		contentstream.OpSetLineCap{Style: capStyles[options.Cap]},
		contentstream.OpSetLineJoin{Style: joinStyles[options.Join]},
		contentstream.OpSetMiterLimit{Limit: float64(options.MiterLimit) / 64},
	)
}

func (s *stroker) Draw() {
	s.pdf.SetColorStroke(s.color)
	gs := graphicState(s.opacityStates, s.opacity, func() *model.GraphicState {
		return &model.GraphicState{CA: model.ObjFloat(s.opacity), BM: []model.Name{"Normal"}}
	})
	s.pdf.Ops(contentstream.OpSetExtGState{Dict: s.pdf.AddExtGState(gs)})
	s.pdf.Ops(contentstream.OpStroke{})
}
