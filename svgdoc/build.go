package svgdoc

import (
	"math"

	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgpath"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// This file implements the post processing of each kind
// of element, once its attributes are parsed.

func (p *attrParser) node() node { return node{kind: p.kind, attrs: p.out, loc: p.loc} }

func (p *attrParser) computedStyle() Style {
	tr, _ := p.out.Transform(svgattr.NameTransform)
	return Style{
		Fill:      p.style.fill,
		Stroke:    p.style.stroke,
		Transform: tr,
		Opacity:   p.out.Number(svgattr.NameOpacity, 1),
		Hidden:    p.out.String(svgattr.NameDisplay) == "none",
		clipRef:   p.out.String(svgattr.NameClipPath),
	}
}

// viewport returns the reference lengths used to resolve percentages
func (p *attrParser) viewport() (w, h, diag float64) {
	w, h = p.b.viewportW, p.b.viewportH
	return w, h, math.Hypot(w, h) / math.Sqrt2
}

func buildDocument(p *attrParser) (Element, error) {
	d := &Document{
		node:      p.node(),
		Style:     p.computedStyle(),
		Gradients: make(map[string]*svgattr.Gradient),
		IDs:       make(map[string]Element),
	}
	vb, hasViewBox := p.out.Rect(svgattr.NameViewBox)
	size, _ := p.out.Size(svgattr.NameSize)
	d.Width = size.Width.Pixels(vb.Width)
	d.Height = size.Height.Pixels(vb.Height)
	if d.Width == 0 {
		d.Width = vb.Width
	}
	if d.Height == 0 {
		d.Height = vb.Height
	}
	if !hasViewBox {
		vb = svgattr.Rect{Width: d.Width, Height: d.Height}
	}
	d.ViewBox = vb
	return d, nil
}

func buildGroup(p *attrParser) (Element, error) {
	return &Group{node: p.node(), Style: p.computedStyle()}, nil
}

func (p *attrParser) shape() *Shape {
	return &Shape{node: p.node(), Style: p.computedStyle()}
}

func buildRect(p *attrParser) (Element, error) {
	vw, vh, _ := p.viewport()
	pos, _ := p.out.Point(svgattr.NamePosition)
	size, _ := p.out.Size(svgattr.NameSize)
	radius, _ := p.out.Point(svgattr.NameCornerRadius)
	x, y := pos.X.Pixels(vw), pos.Y.Pixels(vh)
	w, h := size.Width.Pixels(vw), size.Height.Pixels(vh)
	s := p.shape()
	if w > 0 && h > 0 { // otherwise, not drawn
		s.path.AddRoundRect(x, y, x+w, y+h, radius.X.Pixels(vw), radius.Y.Pixels(vh))
	}
	return s, nil
}

// buildEllipse handles circles and ellipses
func buildEllipse(p *attrParser) (Element, error) {
	vw, vh, diag := p.viewport()
	center, _ := p.out.Point(svgattr.NameCenter)
	radius, _ := p.out.Point(svgattr.NameRadius)
	rx, ry := radius.X.Pixels(vw), radius.Y.Pixels(vh)
	if p.kind == KindCircle {
		rx, ry = radius.X.Pixels(diag), radius.Y.Pixels(diag)
	}
	s := p.shape()
	if rx > 0 && ry > 0 { // not drawn, but not an error
		s.path.AddEllipse(center.X.Pixels(vw), center.Y.Pixels(vh), rx, ry)
	}
	return s, nil
}

func buildLine(p *attrParser) (Element, error) {
	vw, vh, _ := p.viewport()
	start, _ := p.out.Point(svgattr.NameStart)
	end, _ := p.out.Point(svgattr.NameEnd)
	s := p.shape()
	s.path.Start(svgpath.Point{X: start.X.Pixels(vw), Y: start.Y.Pixels(vh)})
	s.path.Line(svgpath.Point{X: end.X.Pixels(vw), Y: end.Y.Pixels(vh)})
	s.path.Stop(false)
	return s, nil
}

func buildPolyline(p *attrParser) (Element, error) {
	points, _ := p.out.Points(svgattr.NamePoints)
	s := p.shape()
	s.path.AddPolyline(points, p.kind == KindPolygon)
	return s, nil
}

// buildPath interprets the path data. Invalid commands are
// skipped and logged, whatever the parse mode.
func buildPath(p *attrParser) (Element, error) {
	s := p.shape()
	d := p.out.String(svgattr.NameD)
	path, err := p.b.factory.Parse(d)
	for _, err := range multierr.Errors(err) {
		p.b.log.Warn("skipping path command",
			zap.String("element", p.kind.String()),
			zap.Int("line", p.loc.Line),
			zap.Error(err))
	}
	s.path = path
	return s, nil
}

func buildText(p *attrParser) (Element, error) {
	pos, _ := p.out.Point(svgattr.NamePosition)
	t := &Text{node: p.node(), Position: pos}
	if p.kind == KindText {
		t.Style = p.computedStyle()
	}
	return t, nil
}

func buildGradient(p *attrParser) (Element, error) {
	g := &svgattr.Gradient{
		ID:   p.out.String(svgattr.NameID),
		Href: p.out.String(svgattr.NameHref),
	}
	g.Transform, _ = p.out.Transform(svgattr.NameGradientTransform)
	if p.out.String(svgattr.NameGradientUnits) == "userSpaceOnUse" {
		g.Units = svgattr.UserSpaceOnUse
	}
	switch p.out.String(svgattr.NameSpreadMethod) {
	case "reflect":
		g.Spread = svgattr.ReflectSpread
	case "repeat":
		g.Spread = svgattr.RepeatSpread
	}

	// coordinates are fractions of the bounding box, or
	// user space lengths
	vw, vh, diag := 1., 1., 1.
	if g.Units == svgattr.UserSpaceOnUse {
		vw, vh, diag = p.viewport()
	}
	coord := func(n svgattr.Name, ref float64) float64 {
		l, _ := p.out.Length(n)
		return l.Pixels(ref)
	}
	if p.kind == KindRadialGradient {
		g.Direction = svgattr.Radial{
			coord(svgattr.NameCX, vw), coord(svgattr.NameCY, vh),
			coord(svgattr.NameFX, vw), coord(svgattr.NameFY, vh),
			coord(svgattr.NameR, diag), coord(svgattr.NameFR, diag),
		}
	} else {
		g.Direction = svgattr.Linear{
			coord(svgattr.NameX1, vw), coord(svgattr.NameY1, vh),
			coord(svgattr.NameX2, vw), coord(svgattr.NameY2, vh),
		}
	}
	return &GradientElement{node: p.node(), Gradient: g}, nil
}

func buildStop(p *attrParser) (Element, error) {
	color, ok := p.out.Color(svgattr.NameStopColor)
	if !ok {
		color = svgattr.Black
	}
	return &Stop{node: p.node(), GradientStop: svgattr.GradientStop{
		Offset:  p.out.Number(svgattr.NameOffset, 0),
		Color:   color,
		Opacity: p.out.Number(svgattr.NameStopOpacity, 1),
	}}, nil
}

func buildUse(p *attrParser) (Element, error) {
	vw, vh, _ := p.viewport()
	pos, _ := p.out.Point(svgattr.NamePosition)
	return &Use{
		node:  p.node(),
		Style: p.computedStyle(),
		Href:  p.out.String(svgattr.NameHref),
		X:     pos.X.Pixels(vw),
		Y:     pos.Y.Pixels(vh),
	}, nil
}
