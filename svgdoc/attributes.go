package svgdoc

import (
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgdom/svgattr"
)

// inheritedStyle is the painting state passed from
// an element to its children.
type inheritedStyle struct {
	fill   svgattr.Fill
	stroke svgattr.Stroke
	color  svgattr.Color // value of currentColor
}

var defaultStyle = inheritedStyle{
	fill:   svgattr.DefaultFill,
	stroke: svgattr.DefaultStroke,
	color:  svgattr.Black,
}

// attrParser holds the state used to coerce the
// attributes of one start tag.
type attrParser struct {
	b    *builder
	kind Kind
	raw  rawAttributes
	out  svgattr.Attributes
	loc  svgattr.Location

	parent inheritedStyle
	style  inheritedStyle // updated by the fill and stroke parsers
}

func (p *attrParser) take(n svgattr.Name) (string, bool) { return p.raw.take(string(n)) }

func (p *attrParser) report(err error) error { return p.b.report(err, p.kind) }

func (p *attrParser) invalid(n svgattr.Name, raw, reason string) error {
	return p.report(&svgattr.ValueError{
		Err:      svgattr.ErrInvalidAttributeValue,
		Raw:      raw,
		Location: p.loc,
		Reason:   fmt.Sprintf("%s: %s", n, reason),
	})
}

// length parses the attribute n. Invalid values are reported
// and treated as absent: the returned error is only non nil
// when the parse must stop.
func (p *attrParser) length(n svgattr.Name, nonNegative bool) (svgattr.Length, bool, error) {
	raw, ok := p.take(n)
	if !ok {
		return svgattr.Length{}, false, nil
	}
	l, ok, err := svgattr.ParseLength(raw, p.loc)
	if err != nil {
		return l, false, p.report(err)
	}
	if nonNegative && l.Value < 0 {
		return l, false, p.invalid(n, raw, "negative value")
	}
	return l, ok, nil
}

// fraction parses a number or percentage, clamped to [0,1].
func (p *attrParser) fraction(n svgattr.Name) (float64, bool, error) {
	raw, ok := p.take(n)
	if !ok {
		return 0, false, nil
	}
	f, ok, err := svgattr.ParseFraction(raw, p.loc)
	if err != nil {
		return 0, false, p.report(err)
	}
	return clamp01(f), ok, nil
}

func clamp01(f float64) float64 { return math.Max(0, math.Min(1, f)) }

// point combines the attributes nx and ny.
func (p *attrParser) point(nx, ny, out svgattr.Name) error {
	x, okX, err := p.length(nx, false)
	if err != nil {
		return err
	}
	y, okY, err := p.length(ny, false)
	if err != nil {
		return err
	}
	if okX || okY {
		p.out[out] = svgattr.Point{X: x, Y: y}
	}
	return nil
}

// radii combines rx and ry, each one defaulting to the other.
func (p *attrParser) radii(out svgattr.Name) error {
	rx, okX, err := p.length(svgattr.NameRX, true)
	if err != nil {
		return err
	}
	ry, okY, err := p.length(svgattr.NameRY, true)
	if err != nil {
		return err
	}
	switch {
	case okX && !okY:
		ry = rx
	case okY && !okX:
		rx = ry
	case !okX && !okY:
		return nil
	}
	p.out[out] = svgattr.Point{X: rx, Y: ry}
	return nil
}

// combinedParser consumes a group of related attributes.
type combinedParser func(p *attrParser) error

func parsePosition(p *attrParser) error { return p.point(svgattr.NameX, svgattr.NameY, svgattr.NamePosition) }

func parseCenter(p *attrParser) error { return p.point(svgattr.NameCX, svgattr.NameCY, svgattr.NameCenter) }

func parseEndpoints(p *attrParser) error {
	if err := p.point(svgattr.NameX1, svgattr.NameY1, svgattr.NameStart); err != nil {
		return err
	}
	return p.point(svgattr.NameX2, svgattr.NameY2, svgattr.NameEnd)
}

func parseSize(p *attrParser) error {
	w, okW, err := p.length(svgattr.NameWidth, true)
	if err != nil {
		return err
	}
	h, okH, err := p.length(svgattr.NameHeight, true)
	if err != nil {
		return err
	}
	if okW || okH {
		p.out[svgattr.NameSize] = svgattr.Size{Width: w, Height: h}
	}
	return nil
}

func parseCornerRadius(p *attrParser) error { return p.radii(svgattr.NameCornerRadius) }

func parseEllipseRadius(p *attrParser) error { return p.radii(svgattr.NameRadius) }

func parseCircleRadius(p *attrParser) error {
	r, ok, err := p.length(svgattr.NameR, true)
	if ok {
		p.out[svgattr.NameRadius] = svgattr.Point{X: r, Y: r}
	}
	return err
}

// paint updates a fill or stroke paint, keeping the inherited
// value for invalid input.
func (p *attrParser) paint(raw string, paint *svgattr.Paint, ref *string) error {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "inherit":
		return nil
	case "none":
		*paint, *ref = nil, ""
		return nil
	case "currentColor":
		*paint, *ref = p.style.color, ""
		return nil
	}
	resolved, err := p.b.resolver.Resolve(s, p.loc)
	if err != nil {
		return p.report(err)
	}
	*paint, *ref = resolved, ""
	if id, ok := svgattr.ParseURLReference(s); ok {
		*ref = id // resolved now or at the end of the document
	}
	return nil
}

// parseFill consumes color, fill, fill-opacity and fill-rule,
// starting from the inherited values.
func parseFill(p *attrParser) error {
	p.style.color = p.parent.color
	if raw, ok := p.take(svgattr.NameColor); ok && strings.TrimSpace(raw) != "inherit" {
		c, ok, err := svgattr.ParseColor(raw, p.loc)
		if err != nil {
			if err = p.report(err); err != nil {
				return err
			}
		} else if ok {
			p.style.color = c
			p.out[svgattr.NameColor] = c
		}
	}

	fill := p.parent.fill
	if raw, ok := p.take(svgattr.NameFill); ok {
		if err := p.paint(raw, &fill.Paint, &fill.Ref); err != nil {
			return err
		}
	}
	op, ok, err := p.fraction(svgattr.NameFillOpacity)
	if err != nil {
		return err
	} else if ok {
		fill.Opacity = op
	}
	if raw, ok := p.take(svgattr.NameFillRule); ok {
		switch strings.TrimSpace(raw) {
		case "nonzero":
			fill.Rule = svgattr.NonZero
		case "evenodd":
			fill.Rule = svgattr.EvenOdd
		case "inherit":
		default:
			if err := p.invalid(svgattr.NameFillRule, raw, "expected nonzero or evenodd"); err != nil {
				return err
			}
		}
	}
	p.style.fill = fill
	p.out[svgattr.NameFillStyle] = fill
	return nil
}

// parseStroke consumes the stroke attributes,
// starting from the inherited values.
func parseStroke(p *attrParser) error {
	stroke := p.parent.stroke
	if raw, ok := p.take(svgattr.NameStroke); ok {
		if err := p.paint(raw, &stroke.Paint, &stroke.Ref); err != nil {
			return err
		}
	}
	w, ok, err := p.length(svgattr.NameStrokeWidth, true)
	if err != nil {
		return err
	} else if ok {
		stroke.Width = w
	}
	op, ok, err := p.fraction(svgattr.NameStrokeOpacity)
	if err != nil {
		return err
	} else if ok {
		stroke.Opacity = op
	}
	if raw, ok := p.take(svgattr.NameStrokeLinecap); ok {
		c, err := svgattr.ParseLineCap(raw, p.loc)
		if err != nil {
			if err = p.report(err); err != nil {
				return err
			}
		} else {
			stroke.Cap = c
		}
	}
	if raw, ok := p.take(svgattr.NameStrokeLinejoin); ok {
		j, err := svgattr.ParseLineJoin(raw, p.loc)
		if err != nil {
			if err = p.report(err); err != nil {
				return err
			}
		} else {
			stroke.Join = j
		}
	}
	if raw, ok := p.take(svgattr.NameStrokeMiterlimit); ok {
		m, ok, err := svgattr.ParseNumber(raw, p.loc)
		if err != nil {
			if err = p.report(err); err != nil {
				return err
			}
		} else if ok && m < 1 {
			if err = p.invalid(svgattr.NameStrokeMiterlimit, raw, "must be at least 1"); err != nil {
				return err
			}
		} else if ok {
			stroke.MiterLimit = m
		}
	}
	if raw, ok := p.take(svgattr.NameStrokeDasharray); ok {
		dash, err := svgattr.ParseDashArray(raw, p.loc)
		if err != nil {
			if err = p.report(err); err != nil {
				return err
			}
		} else {
			stroke.Dash = dash
		}
	}
	offset, ok, err := p.length(svgattr.NameStrokeDashoffset, false)
	if err != nil {
		return err
	} else if ok {
		stroke.DashOffset = offset.Pixels(0)
	}
	p.style.stroke = stroke
	p.out[svgattr.NameStrokeStyle] = stroke
	return nil
}

func percent(v float32) svgattr.Length { return svgattr.Length{Value: v, Unit: svgattr.UnitPercent} }

// lengthsWithDefault stores the attributes names, using
// defaults for the missing ones.
func (p *attrParser) lengthsWithDefault(names []svgattr.Name, defaults []svgattr.Length) error {
	for i, n := range names {
		l, ok, err := p.length(n, false)
		if err != nil {
			return err
		}
		if !ok {
			l = defaults[i]
		}
		p.out[n] = l
	}
	return nil
}

func parseLinearGeometry(p *attrParser) error {
	return p.lengthsWithDefault(
		[]svgattr.Name{svgattr.NameX1, svgattr.NameY1, svgattr.NameX2, svgattr.NameY2},
		[]svgattr.Length{percent(0), percent(0), percent(100), percent(0)},
	)
}

// parseRadialGeometry defaults the focus to the center.
func parseRadialGeometry(p *attrParser) error {
	err := p.lengthsWithDefault(
		[]svgattr.Name{svgattr.NameCX, svgattr.NameCY, svgattr.NameR, svgattr.NameFR},
		[]svgattr.Length{percent(50), percent(50), percent(50), percent(0)},
	)
	if err != nil {
		return err
	}
	cx, _ := p.out.Length(svgattr.NameCX)
	cy, _ := p.out.Length(svgattr.NameCY)
	return p.lengthsWithDefault([]svgattr.Name{svgattr.NameFX, svgattr.NameFY}, []svgattr.Length{cx, cy})
}

// singleParser coerces one attribute. A false boolean
// means the attribute is empty, and is ignored.
type singleParser func(raw string, loc svgattr.Location) (svgattr.Value, bool, error)

func stringValue(raw string, _ svgattr.Location) (svgattr.Value, bool, error) {
	return svgattr.String(strings.TrimSpace(raw)), true, nil
}

func numberValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	f, ok, err := svgattr.ParseNumber(raw, loc)
	return svgattr.Number(f), ok, err
}

func fractionValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	f, ok, err := svgattr.ParseFraction(raw, loc)
	return svgattr.Number(clamp01(f)), ok, err
}

func lengthValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	l, ok, err := svgattr.ParseLength(raw, loc)
	return l, ok, err
}

func colorValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	c, ok, err := svgattr.ParseColor(raw, loc)
	return c, ok, err
}

func rectValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	r, ok, err := svgattr.ParseRect(raw, loc)
	return r, ok, err
}

func transformValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	t, ok, err := svgattr.ParseTransform(raw, loc)
	return t, ok, err
}

func pointsValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	pts, ok, err := svgattr.ParsePoints(raw, loc)
	return pts, ok, err
}

// hrefValue strips the leading # of a local reference.
func hrefValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false, nil
	}
	id, ok := strings.CutPrefix(s, "#")
	if !ok || id == "" {
		return nil, false, &svgattr.ValueError{Err: svgattr.ErrInvalidAttributeValue, Raw: raw, Location: loc,
			Reason: "only local references are supported"}
	}
	return svgattr.String(id), true, nil
}

// urlValue accepts "none" or a url(#id) reference.
func urlValue(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "none" {
		return nil, false, nil
	}
	id, ok := svgattr.ParseURLReference(s)
	if !ok {
		return nil, false, &svgattr.ValueError{Err: svgattr.ErrInvalidAttributeValue, Raw: raw, Location: loc,
			Reason: "expected url(#id)"}
	}
	return svgattr.String(id), true, nil
}

// keywordValue accepts one of the given keywords.
func keywordValue(keywords ...string) singleParser {
	return func(raw string, loc svgattr.Location) (svgattr.Value, bool, error) {
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, false, nil
		}
		for _, k := range keywords {
			if s == k {
				return svgattr.String(s), true, nil
			}
		}
		return nil, false, &svgattr.ValueError{Err: svgattr.ErrInvalidAttributeValue, Raw: raw, Location: loc,
			Reason: "expected one of " + strings.Join(keywords, ", ")}
	}
}

func merge(tables ...map[svgattr.Name]singleParser) map[svgattr.Name]singleParser {
	out := make(map[svgattr.Name]singleParser)
	for _, t := range tables {
		for k, v := range t {
			out[k] = v
		}
	}
	return out
}

var (
	coreAttributes = map[svgattr.Name]singleParser{
		svgattr.NameID:    stringValue,
		svgattr.NameClass: stringValue,
	}

	presentationAttributes = map[svgattr.Name]singleParser{
		svgattr.NameTransform:  transformValue,
		svgattr.NameOpacity:    fractionValue,
		svgattr.NameClipPath:   urlValue,
		svgattr.NameDisplay:    stringValue,
		svgattr.NameFontFamily: stringValue,
		svgattr.NameFontSize:   lengthValue,
		svgattr.NameTextAnchor: keywordValue("start", "middle", "end"),
	}

	gradientAttributes = map[svgattr.Name]singleParser{
		svgattr.NameGradientUnits:     keywordValue("objectBoundingBox", "userSpaceOnUse"),
		svgattr.NameSpreadMethod:      keywordValue("pad", "reflect", "repeat"),
		svgattr.NameGradientTransform: transformValue,
		svgattr.NameHref:              hrefValue,
	}
)

// elementDef describes how to build one kind of element.
type elementDef struct {
	combined []combinedParser
	singles  map[svgattr.Name]singleParser
	build    func(p *attrParser) (Element, error)
}

var (
	painted          = []combinedParser{parseFill, parseStroke}
	styledAttributes = merge(coreAttributes, presentationAttributes)
)

func withPaint(parsers ...combinedParser) []combinedParser {
	return append(parsers, painted...)
}

var elementDefs = [kindCount]elementDef{
	KindDocument: {
		combined: withPaint(parsePosition, parseSize),
		singles: merge(styledAttributes, map[svgattr.Name]singleParser{
			svgattr.NameViewBox:        rectValue,
			svgattr.NameVersion:        stringValue,
			svgattr.NamePreserveAspect: stringValue,
		}),
		build: buildDocument,
	},
	KindGroup: {combined: painted, singles: styledAttributes, build: buildGroup},
	KindDefs:  {combined: painted, singles: styledAttributes, build: buildGroup},
	KindClipPath: {
		combined: painted,
		singles: merge(styledAttributes, map[svgattr.Name]singleParser{
			svgattr.NameClipPathUnits: keywordValue("userSpaceOnUse", "objectBoundingBox"),
		}),
		build: buildGroup,
	},
	KindRect:    {combined: withPaint(parsePosition, parseSize, parseCornerRadius), singles: styledAttributes, build: buildRect},
	KindCircle:  {combined: withPaint(parseCenter, parseCircleRadius), singles: styledAttributes, build: buildEllipse},
	KindEllipse: {combined: withPaint(parseCenter, parseEllipseRadius), singles: styledAttributes, build: buildEllipse},
	KindLine:    {combined: withPaint(parseEndpoints), singles: styledAttributes, build: buildLine},
	KindPolygon: {
		combined: painted,
		singles:  merge(styledAttributes, map[svgattr.Name]singleParser{svgattr.NamePoints: pointsValue}),
		build:    buildPolyline,
	},
	KindPolyline: {
		combined: painted,
		singles:  merge(styledAttributes, map[svgattr.Name]singleParser{svgattr.NamePoints: pointsValue}),
		build:    buildPolyline,
	},
	KindPath: {
		combined: painted,
		singles:  merge(styledAttributes, map[svgattr.Name]singleParser{svgattr.NameD: stringValue}),
		build:    buildPath,
	},
	KindText:  {combined: withPaint(parsePosition), singles: styledAttributes, build: buildText},
	KindTitle: {singles: coreAttributes, build: buildText},
	KindDesc:  {singles: coreAttributes, build: buildText},
	KindLinearGradient: {
		combined: []combinedParser{parseLinearGeometry},
		singles:  merge(coreAttributes, gradientAttributes),
		build:    buildGradient,
	},
	KindRadialGradient: {
		combined: []combinedParser{parseRadialGeometry},
		singles:  merge(coreAttributes, gradientAttributes),
		build:    buildGradient,
	},
	KindStop: {
		singles: merge(coreAttributes, map[svgattr.Name]singleParser{
			svgattr.NameOffset:      fractionValue,
			svgattr.NameStopColor:   colorValue,
			svgattr.NameStopOpacity: fractionValue,
		}),
		build: buildStop,
	},
	KindUse: {
		combined: withPaint(parsePosition, parseSize),
		singles:  merge(styledAttributes, map[svgattr.Name]singleParser{svgattr.NameHref: hrefValue}),
		build:    buildUse,
	},
}
