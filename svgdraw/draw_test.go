package svgdraw

import (
	"testing"

	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgdoc"
	"github.com/srwiley/rasterx"
	"github.com/tdewolff/test"
	"golang.org/x/image/math/fixed"
)

// record stores the operations sent by Draw
type record struct {
	ops []string
}

type recordDrawer struct {
	r    *record
	kind string

	points  []fixed.Point26_6
	paint   svgattr.Paint
	opacity float64
	stroke  StrokeOptions
	nonZero bool
}

func (d *recordDrawer) Start(a fixed.Point26_6)            { d.points = append(d.points, a) }
func (d *recordDrawer) Line(b fixed.Point26_6)             { d.points = append(d.points, b) }
func (d *recordDrawer) QuadBezier(b, c fixed.Point26_6)    { d.points = append(d.points, b, c) }
func (d *recordDrawer) CubeBezier(b, c, e fixed.Point26_6) { d.points = append(d.points, b, c, e) }
func (d *recordDrawer) Stop(bool)                          {}
func (d *recordDrawer) Clear()                             { d.points = d.points[:0] }
func (d *recordDrawer) SetWinding(nonZero bool)            { d.nonZero = nonZero }
func (d *recordDrawer) SetStrokeOptions(o StrokeOptions)   { d.stroke = o }

func (d *recordDrawer) SetColor(paint svgattr.Paint, opacity float64, _ rasterx.Matrix2D) {
	d.paint, d.opacity = paint, opacity
}

func (d *recordDrawer) Draw() { d.r.ops = append(d.r.ops, d.kind) }

type recordDriver struct {
	r               record
	filler, stroker recordDrawer
}

func newRecordDriver() *recordDriver {
	out := &recordDriver{}
	out.filler = recordDrawer{r: &out.r, kind: "fill"}
	out.stroker = recordDrawer{r: &out.r, kind: "stroke"}
	return out
}

func (rd *recordDriver) SetupDrawers(willFill, willStroke bool) (Filler, Stroker) {
	var (
		f Filler
		s Stroker
	)
	if willFill {
		f = &rd.filler
	}
	if willStroke {
		s = &rd.stroker
	}
	return f, s
}

func parse(t *testing.T, content string) *svgdoc.Document {
	t.Helper()
	doc, err := svgdoc.ParseBytes([]byte(content))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestTarget(t *testing.T) {
	doc := parse(t, `<svg viewBox="10 10 20 40"></svg>`)
	m := Target(doc, 0, 0, 40, 80)
	x, y := m.Transform(10, 10)
	test.T(t, x, 0.0)
	test.T(t, y, 0.0)
	x, y = m.Transform(30, 50)
	test.T(t, x, 40.0)
	test.T(t, y, 80.0)
}

func TestDraw(t *testing.T) {
	doc := parse(t, `<svg viewBox="0 0 10 10">
		<defs><rect id="r" width="2" height="2" fill="red"/></defs>
		<g opacity="0.5" transform="scale(2)">
			<rect width="1" height="1" stroke="blue" fill-rule="evenodd" stroke-dasharray="1 2"/>
		</g>
		<rect width="1" height="1" display="none"/>
		<use href="#r" x="4"/>
		<clipPath><rect width="1" height="1"/></clipPath>
		<text>ignored</text>
	</svg>`)
	d := newRecordDriver()
	Draw(doc, d, rasterx.Identity, 1)
	test.T(t, d.r.ops, []string{"fill", "stroke", "fill"})

	// the last fill is the used rect, translated
	test.T(t, d.filler.points[0], fixed.Point26_6{X: 4 * 64, Y: 0})
	test.T(t, d.filler.paint, svgattr.Paint(svgattr.Color{R: 1, A: 1}))
	test.That(t, d.filler.nonZero) // reset after drawing

	test.T(t, d.stroker.opacity, 0.5)
	test.T(t, d.stroker.stroke.LineWidth, fixed.Int26_6(2*64))
	test.T(t, d.stroker.stroke.Dash, []float64{2, 4})
	test.T(t, d.stroker.points[2], fixed.Point26_6{X: 2 * 64, Y: 2 * 64})
}

func TestUseCycle(t *testing.T) {
	var tests = []struct {
		content string
		fills   int
	}{
		{`<svg><g id="a"><rect width="1" height="1"/><use href="#a"/></g></svg>`, 1},
		{`<svg><g id="a"><rect width="1" height="1"/><use href="#a"/><use href="#a"/></g></svg>`, 1},
		// the group is drawn once directly, once through #b
		{`<svg><g id="a"><rect width="1" height="1"/><use href="#b"/></g><use id="b" href="#a"/></svg>`, 2},
	}
	for _, tt := range tests {
		d := newRecordDriver()
		Draw(parse(t, tt.content), d, rasterx.Identity, 1)
		test.T(t, len(d.r.ops), tt.fills, tt.content)
	}
}

func TestUseChain(t *testing.T) {
	doc := parse(t, `<svg>
		<rect id="r" width="1" height="1"/>
		<use id="u1" href="#r" x="1"/>
		<use id="u2" href="#u1" x="1"/>
		<use href="#u2" x="1"/>
		<use href="#r" x="1"/>
	</svg>`)
	d := newRecordDriver()
	Draw(doc, d, rasterx.Identity, 1)
	test.T(t, len(d.r.ops), 5)
	// the last one is drawn last, from x = 1
	test.T(t, d.filler.points[0], fixed.Point26_6{X: 64, Y: 0})
}
