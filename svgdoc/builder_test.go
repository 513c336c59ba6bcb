package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgpath"
	"github.com/tdewolff/test"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func mustParse(t *testing.T, content string, opts ...Option) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(content), opts...)
	if err != nil {
		t.Fatalf("parsing %s: %s", content, err)
	}
	return doc
}

func shapeByID(t *testing.T, doc *Document, id string) *Shape {
	t.Helper()
	s, ok := doc.IDs[id].(*Shape)
	if !ok {
		t.Fatalf("missing shape %s", id)
	}
	return s
}

func TestDocumentSize(t *testing.T) {
	var tests = []struct {
		svg           string
		width, height float64
		viewBox       svgattr.Rect
	}{
		{`<svg viewBox="0 0 100 50" width="200"></svg>`, 200, 50, svgattr.Rect{Width: 100, Height: 50}},
		{`<svg viewBox="0 0 200 100" width="50%" height="100%"></svg>`, 100, 100, svgattr.Rect{Width: 200, Height: 100}},
		{`<svg width="2in" height="10"></svg>`, 192, 10, svgattr.Rect{Width: 192, Height: 10}},
		{`<svg viewBox="-5,-5 10,10"></svg>`, 10, 10, svgattr.Rect{X: -5, Y: -5, Width: 10, Height: 10}},
	}
	for _, tt := range tests {
		doc := mustParse(t, tt.svg)
		test.T(t, doc.Width, tt.width, tt.svg)
		test.T(t, doc.Height, tt.height, tt.svg)
		test.T(t, doc.ViewBox, tt.viewBox, tt.svg)
	}
}

func TestShapes(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50">
		<rect id="r" x="10" y="10" width="20" height="10"/>
		<rect id="empty" width="0" height="10"/>
		<rect id="round" width="20" height="10" rx="2"/>
		<circle id="c" cx="50" cy="25" r="5"/>
		<ellipse id="e" cx="50" cy="25" ry="5"/>
		<line id="l" x1="1" y1="2" x2="3" y2="4"/>
		<polygon id="pg" points="0,0 10,0 10,10"/>
		<polyline id="pl" points="0 0 10 0 10 10"/>
		<path id="p" d="M0 0 h10 v10 z"/>
	</svg>`)
	test.T(t, len(doc.Children()), 9)

	test.T(t, shapeByID(t, doc, "r").Path(), svgpath.Path{
		svgpath.MoveTo{X: 10, Y: 10}, svgpath.LineTo{X: 30, Y: 10}, svgpath.LineTo{X: 30, Y: 20},
		svgpath.LineTo{X: 10, Y: 20}, svgpath.Close{},
	})
	test.T(t, len(shapeByID(t, doc, "empty").Path()), 0)
	// ry defaults to rx
	test.T(t, shapeByID(t, doc, "round").Path()[0], svgpath.Operation(svgpath.MoveTo{X: 2, Y: 0}))
	radius, _ := shapeByID(t, doc, "round").Attributes().Point(svgattr.NameCornerRadius)
	test.T(t, radius.Y, svgattr.Length{Value: 2})

	b := shapeByID(t, doc, "c").Path().Bounds()
	test.That(t, math.Abs(b.X-45) < 1e-9 && math.Abs(b.W-10) < 1e-9, b)
	// rx defaults to ry
	b = shapeByID(t, doc, "e").Path().Bounds()
	test.That(t, math.Abs(b.W-10) < 1e-9 && math.Abs(b.H-10) < 1e-9, b)

	test.String(t, shapeByID(t, doc, "l").Path().String(), "M1,2 L3,4")
	test.String(t, shapeByID(t, doc, "pg").Path().String(), "M0,0 L10,0 L10,10 Z")
	test.String(t, shapeByID(t, doc, "pl").Path().String(), "M0,0 L10,0 L10,10")
	test.String(t, shapeByID(t, doc, "p").Path().String(), "M0,0 L10,0 L10,10 Z")
}

func TestPercentLengths(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 200 100"><rect id="r" x="10%" y="10%" width="50%" height="50%"/></svg>`)
	test.String(t, shapeByID(t, doc, "r").Path().String(), "M20,10 L120,10 L120,60 L20,60 Z")
}

func TestUnpermittedContent(t *testing.T) {
	_, err := Parse(strings.NewReader(`<svg><rect><linearGradient id="g"/></rect></svg>`))
	test.That(t, errors.Is(err, ErrUnpermittedContentElement), err)
	var ee *ElementError
	test.That(t, errors.As(err, &ee))
	test.String(t, ee.Element, "linearGradient")
	test.String(t, ee.Parent, "rect")
	test.T(t, ee.Location.Line, 1)

	// structural errors do not depend on the mode
	_, err = Parse(strings.NewReader(`<svg><linearGradient><rect/></linearGradient></svg>`), WithMode(Permissive))
	test.That(t, errors.Is(err, ErrUnpermittedContentElement), err)

	_, err = Parse(strings.NewReader(`<svg></svg><svg></svg>`))
	test.That(t, errors.Is(err, ErrUnpermittedContentElement), err)
}

func TestNoRoot(t *testing.T) {
	for _, content := range []string{"", "   ", `<?xml version="1.0"?>`, "<!-- nothing -->"} {
		_, err := Parse(strings.NewReader(content))
		test.That(t, errors.Is(err, ErrNoRootDocument), err)
	}
}

func TestElementBeforeRoot(t *testing.T) {
	for _, content := range []string{`<g><svg/></g>`, `<html/>`} {
		_, err := Parse(strings.NewReader(content), WithMode(Permissive))
		test.That(t, errors.Is(err, ErrEncounteredElementBeforeRoot), err)
	}
}

func TestMalformedXML(t *testing.T) {
	_, err := Parse(strings.NewReader("<svg>\n<rect></svg>"))
	test.That(t, errors.Is(err, ErrUnknownParserFailure), err)
	var pe *ParseError
	test.That(t, errors.As(err, &pe))
	test.T(t, pe.Location.Line, 2)
	var se *xml.SyntaxError
	test.That(t, errors.As(err, &se))
}

func TestParseModes(t *testing.T) {
	const content = `<svg><rect foo="1" width="abc"/><mask/></svg>`

	_, err := Parse(strings.NewReader(`<svg><rect foo="1"/></svg>`), WithMode(StrictThrows))
	test.That(t, errors.Is(err, ErrUnhandledAttribute), err)
	var ae *AttributeError
	test.That(t, errors.As(err, &ae))
	test.String(t, ae.Name, "foo")
	test.String(t, ae.Element, "rect")

	_, err = Parse(strings.NewReader(`<svg><rect width="abc"/></svg>`), WithMode(StrictThrows))
	test.That(t, errors.Is(err, svgattr.ErrInvalidAttributeValue), err)

	_, err = Parse(strings.NewReader(`<svg><mask/></svg>`), WithMode(StrictThrows))
	test.That(t, errors.Is(err, ErrUnhandledElement), err)

	core, logs := observer.New(zap.WarnLevel)
	doc, err := Parse(strings.NewReader(content), WithMode(StrictWarns), WithLogger(zap.New(core)))
	test.Error(t, err)
	test.T(t, logs.FilterMessage("ignoring unsupported content").Len(), 3)
	_, hasSize := doc.Children()[0].Attributes().Size(svgattr.NameSize)
	test.That(t, !hasSize)

	core, logs = observer.New(zap.WarnLevel)
	_, err = Parse(strings.NewReader(content), WithMode(Permissive), WithLogger(zap.New(core)))
	test.Error(t, err)
	test.T(t, logs.Len(), 0)
}

func TestUnknownElementChildren(t *testing.T) {
	doc := mustParse(t, `<svg><switch><rect id="r" width="1" height="1"/></switch></svg>`, WithMode(Permissive))
	test.T(t, len(doc.Children()), 1)
	test.T(t, doc.Children()[0], Element(doc.IDs["r"]))
}

func TestForeignContent(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
		xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd" xml:space="preserve">
		<sodipodi:namedview><inkscape:grid/><rect/></sodipodi:namedview>
		<g inkscape:label="Layer 1" inkscape:groupmode="layer"><rect width="1" height="1"/></g>
	</svg>`, WithMode(StrictThrows))
	test.T(t, len(doc.Children()), 1)
	g := doc.Children()[0].(*Group)
	test.T(t, len(g.Children()), 1)
}

func TestStyleInheritance(t *testing.T) {
	doc := mustParse(t, `<svg>
		<g fill="red" stroke="blue" stroke-width="3" color="#00ff00">
			<rect id="a"/>
			<rect id="b" fill="currentColor" style="stroke: none"/>
			<rect id="c" fill="red" style="fill: #00f ; fill-opacity:50%"/>
		</g>
		<rect id="d"/>
	</svg>`)
	a := shapeByID(t, doc, "a")
	test.T(t, a.Fill.Paint, svgattr.Paint(svgattr.Color{R: 1, A: 1}))
	test.T(t, a.Stroke.Paint, svgattr.Paint(svgattr.Color{B: 1, A: 1}))
	test.T(t, a.Stroke.Width, svgattr.Length{Value: 3})

	b := shapeByID(t, doc, "b")
	test.T(t, b.Fill.Paint, svgattr.Paint(svgattr.Color{G: 1, A: 1}))
	test.That(t, b.Stroke.Paint == nil)

	c := shapeByID(t, doc, "c")
	test.T(t, c.Fill.Paint, svgattr.Paint(svgattr.Color{B: 1, A: 1}))
	test.T(t, c.Fill.Opacity, 0.5)

	d := shapeByID(t, doc, "d")
	test.T(t, d.Fill, svgattr.DefaultFill)
	test.That(t, d.Stroke.Paint == nil)
}

func TestDeferredGradient(t *testing.T) {
	doc := mustParse(t, `<svg xmlns:xlink="http://www.w3.org/1999/xlink">
		<rect id="r" width="10" height="10" fill="url(#g)" stroke="url(#missing)"/>
		<defs>
			<linearGradient id="g" x2="50%" spreadMethod="reflect">
				<stop offset="0" stop-color="red"/>
				<stop offset="1" style="stop-color:#00f;stop-opacity:0.5"/>
			</linearGradient>
			<linearGradient id="h" xlink:href="#g" gradientUnits="userSpaceOnUse"/>
			<radialGradient id="rg" cx="0.25" r="10%"/>
		</defs>
		<rect id="after" fill="url(#g)"/>
		<rect id="unknown" fill="url(#nowhere)"/>
	</svg>`)
	g := doc.Gradients["g"]
	test.That(t, g != nil)
	test.T(t, g.Direction, svgattr.GradientDirection(svgattr.Linear{0, 0, 0.5, 0}))
	test.T(t, g.Spread, svgattr.ReflectSpread)
	test.T(t, g.Stops, []svgattr.GradientStop{
		{Offset: 0, Color: svgattr.Color{R: 1, A: 1}, Opacity: 1},
		{Offset: 1, Color: svgattr.Color{B: 1, A: 1}, Opacity: 0.5},
	})

	r := shapeByID(t, doc, "r")
	test.That(t, r.Fill.Paint == svgattr.Paint(g))
	test.String(t, r.Fill.Ref, "g")
	test.That(t, r.Stroke.Paint == nil)
	test.That(t, shapeByID(t, doc, "after").Fill.Paint == svgattr.Paint(g))
	test.T(t, shapeByID(t, doc, "unknown").Fill.Paint, svgattr.Paint(svgattr.Black))

	h := doc.Gradients["h"]
	test.T(t, len(h.Stops), 2)
	test.T(t, h.Units, svgattr.UserSpaceOnUse)

	rg := doc.Gradients["rg"]
	test.That(t, rg.IsRadial())
	// the focus defaults to the center
	test.T(t, rg.Direction, svgattr.GradientDirection(svgattr.Radial{0.25, 0.5, 0.25, 0.5, 0.1, 0}))
}

func TestGradientDefaults(t *testing.T) {
	doc := mustParse(t, `<svg><linearGradient id="l"/><radialGradient id="r"/></svg>`)
	test.T(t, doc.Gradients["l"].Direction, svgattr.GradientDirection(svgattr.DefaultLinear))
	test.T(t, doc.Gradients["r"].Direction, svgattr.GradientDirection(svgattr.DefaultRadial))
	test.T(t, doc.Gradients["l"].Spread, svgattr.PadSpread)
	test.T(t, doc.Gradients["l"].Units, svgattr.ObjectBoundingBox)
}

func TestGradientRedefinition(t *testing.T) {
	doc := mustParse(t, `<svg>
		<linearGradient id="g"><stop offset="0" stop-color="red"/></linearGradient>
		<rect id="before" fill="url(#g)"/>
		<linearGradient id="g"><stop offset="0" stop-color="blue"/></linearGradient>
		<rect id="after" fill="url(#g)"/>
	</svg>`)
	before := shapeByID(t, doc, "before").Fill.Paint.(*svgattr.Gradient)
	after := shapeByID(t, doc, "after").Fill.Paint.(*svgattr.Gradient)
	test.That(t, before != after)
	test.That(t, doc.Gradients["g"] == after)
}

func TestTextContent(t *testing.T) {
	doc := mustParse(t, `<svg>
		<title>  Hello <!-- comment --> world </title>
		<desc>A <![CDATA[<test>]]> image</desc>
		<text id="t" x="1" y="2">abc<tspan>def</tspan></text>
	</svg>`, WithMode(Permissive))
	title := doc.Children()[0].(*Text)
	test.T(t, title.Kind(), KindTitle)
	test.String(t, title.Content, "Hello  world")
	test.String(t, doc.Children()[1].(*Text).Content, "A <test> image")
	text := doc.IDs["t"].(*Text)
	test.String(t, text.Content, "abcdef")
	test.T(t, text.Position, svgattr.Point{X: svgattr.Length{Value: 1}, Y: svgattr.Length{Value: 2}})
}

func TestCharset(t *testing.T) {
	content := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><svg><title>caf\xe9</title></svg>"
	doc := mustParse(t, content)
	test.String(t, doc.Children()[0].(*Text).Content, "café")
}

func TestReferences(t *testing.T) {
	doc := mustParse(t, `<svg xmlns:xlink="http://www.w3.org/1999/xlink">
		<defs>
			<rect id="r" width="1" height="1"/>
			<clipPath id="clip"><circle r="4"/></clipPath>
		</defs>
		<use id="u1" href="#r" x="5"/>
		<use id="u2" xlink:href="#r"/>
		<use id="u3" href="#later"/>
		<g id="later" clip-path="url(#clip)"/>
		<use id="u4" href="#nowhere"/>
	</svg>`)
	r := doc.IDs["r"]
	u1 := doc.IDs["u1"].(*Use)
	test.That(t, u1.Target == r)
	test.T(t, u1.X, 5.0)
	test.That(t, doc.IDs["u2"].(*Use).Target == r)
	test.That(t, doc.IDs["u3"].(*Use).Target == doc.IDs["later"])
	test.That(t, doc.IDs["u4"].(*Use).Target == nil)

	g := doc.IDs["later"].(*Group)
	test.That(t, g.ClipPath == doc.IDs["clip"])
}

func TestTransformAttribute(t *testing.T) {
	doc := mustParse(t, `<svg><g id="g" transform="translate(10) scale(2)"><rect id="r" opacity="0.5" display="none"/></g></svg>`)
	g := doc.IDs["g"].(*Group)
	x, y := g.Transform.Apply(1, 1)
	test.T(t, x, 12.0)
	test.T(t, y, 2.0)
	r := shapeByID(t, doc, "r")
	test.T(t, r.Opacity, 0.5)
	test.That(t, r.Hidden)

	_, err := Parse(strings.NewReader(`<svg><g transform="rotate(10"/></svg>`), WithMode(StrictThrows))
	test.That(t, errors.Is(err, svgattr.ErrMissingClosingBrace), err)
}

func TestPathErrorsAreSkipped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	doc := mustParse(t, `<svg><path id="p" d="M0 0 L10 0 X5 5 L10 10"/></svg>`,
		WithMode(StrictThrows), WithLogger(zap.New(core)))
	test.String(t, shapeByID(t, doc, "p").Path().String(), "M0,0 L10,0 L10,10")
	test.T(t, logs.FilterMessage("skipping path command").Len(), 1)
}

func TestRegistry(t *testing.T) {
	r := svgpath.NewRegistry()
	mustParse(t, `<svg><path d="M0 0 L1 1"/></svg>`, WithRegistry(r))
	test.T(t, r.Len(), 0)
}

func TestConcurrentParses(t *testing.T) {
	r := svgpath.NewRegistry()
	const workers = 8
	var (
		wg    sync.WaitGroup
		paths [workers]string
		errs  [workers]error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := fmt.Sprintf(`<svg><path id="p" d="M%d,0 c10,10 20,10 20,20 s10,10 20,0 z"/></svg>`, i)
			doc, err := Parse(strings.NewReader(content), WithRegistry(r))
			if err != nil {
				errs[i] = err
				return
			}
			paths[i] = doc.Children()[0].(*Shape).Path().String()
		}(i)
	}
	wg.Wait()

	test.T(t, r.Len(), 0)
	for i := 0; i < workers; i++ {
		test.Error(t, errs[i])
		x := float64(i)
		expected := fmt.Sprintf("M%g,0 C%g,10,%g,10,%g,20 C%g,30,%g,30,%g,20 Z", x, x+10, x+20, x+20, x+20, x+30, x+40)
		test.String(t, paths[i], expected)
	}
}

func TestWalk(t *testing.T) {
	doc := mustParse(t, `<svg><g><rect/><g><circle r="1"/></g></g><defs><rect/></defs></svg>`)
	var kinds []Kind
	Walk(doc, func(el Element) bool {
		kinds = append(kinds, el.Kind())
		return el.Kind() != KindDefs
	})
	test.T(t, kinds, []Kind{KindDocument, KindGroup, KindRect, KindGroup, KindCircle, KindDefs})
}
