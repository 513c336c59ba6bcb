package svgpdf

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgdoc"
	"github.com/benoitkugler/svgdom/svgdraw"
	"github.com/srwiley/rasterx"
	"github.com/tdewolff/test"
)

const icon = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20" viewBox="0 0 20 10">
	<linearGradient id="g"><stop offset="0" stop-color="#f00"/><stop offset="1" stop-color="#00f"/></linearGradient>
	<rect width="10" height="10" fill="red" fill-opacity="0.5"/>
	<circle cx="15" cy="5" r="4" fill="blue" fill-opacity="0.5" stroke="black" stroke-dasharray="1 1"/>
	<path d="M0,0 Q5,10 10,0" fill="url(#g)" fill-rule="evenodd"/>
</svg>`

func TestFlatColor(t *testing.T) {
	c, a := flatColor(svgattr.Color{R: 1, A: 0.5})
	test.T(t, c, color.RGBA{R: 0xff, A: 0xff})
	test.T(t, a, 0.5)

	grad := &svgattr.Gradient{Stops: []svgattr.GradientStop{
		{Color: svgattr.Color{R: 1, A: 1}, Opacity: 1},
		{Color: svgattr.Color{B: 1, A: 1}, Opacity: 0},
	}}
	c, a = flatColor(grad)
	test.T(t, c, color.RGBA{R: 0x80, B: 0x80, A: 0xff})
	test.T(t, a, 0.5)

	_, a = flatColor(&svgattr.Gradient{})
	test.T(t, a, 0.0)
	_, a = flatColor(nil)
	test.T(t, a, 0.0)
}

func TestSetupDrawers(t *testing.T) {
	app := contentstream.NewAppearance(10, 10)
	r := NewRenderer(&app)
	f, s := r.SetupDrawers(true, false)
	test.That(t, f != nil && s == nil)
	f, s = r.SetupDrawers(false, true)
	test.That(t, f == nil && s != nil)
	f, s = r.SetupDrawers(true, true)
	test.That(t, f != nil && s != nil)
}

func TestOpacityStates(t *testing.T) {
	doc, err := svgdoc.ParseBytes([]byte(icon))
	test.Error(t, err)

	app := contentstream.NewAppearance(40, 20)
	r := NewRenderer(&app)
	svgdraw.Draw(doc, r, rasterx.Identity, 1)
	// both shapes share the 0.5 fill state, the gradient is opaque
	test.T(t, len(r.fillOpacityStates), 2)
	test.T(t, len(r.strokeOpacityStates), 1)
	test.That(t, r.fillOpacityStates[0.5] != nil)
}

func TestRenderToPDF(t *testing.T) {
	doc, err := svgdoc.ParseBytes([]byte(icon))
	test.Error(t, err)
	w, h := pageSize(doc)
	test.T(t, w, 40.0)
	test.T(t, h, 20.0)

	name := filepath.Join(t.TempDir(), "icon.pdf")
	test.Error(t, RenderToPDF(doc, name))
	data, err := os.ReadFile(name)
	test.Error(t, err)
	test.That(t, bytes.HasPrefix(data, []byte("%PDF")))

	empty, err := svgdoc.ParseBytes([]byte(`<svg/>`))
	test.Error(t, err)
	w, h = pageSize(empty)
	test.T(t, w, a4Width)
	test.T(t, h, a4Height)
}
