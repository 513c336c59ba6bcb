package svgattr

// Name is a canonical attribute name.
// Combined attributes (built from several raw attributes)
// have names which are not valid SVG attribute names.
type Name string

// raw attribute names
const (
	NameID                = Name("id")
	NameClass             = Name("class")
	NameStyle             = Name("style")
	NameX                 = Name("x")
	NameY                 = Name("y")
	NameWidth             = Name("width")
	NameHeight            = Name("height")
	NameRX                = Name("rx")
	NameRY                = Name("ry")
	NameCX                = Name("cx")
	NameCY                = Name("cy")
	NameR                 = Name("r")
	NameFX                = Name("fx")
	NameFY                = Name("fy")
	NameFR                = Name("fr")
	NameX1                = Name("x1")
	NameY1                = Name("y1")
	NameX2                = Name("x2")
	NameY2                = Name("y2")
	NameD                 = Name("d")
	NamePoints            = Name("points")
	NameTransform         = Name("transform")
	NameViewBox           = Name("viewBox")
	NameVersion           = Name("version")
	NamePreserveAspect    = Name("preserveAspectRatio")
	NameHref              = Name("href")
	NameOpacity           = Name("opacity")
	NameClipPath          = Name("clip-path")
	NameClipPathUnits     = Name("clipPathUnits")
	NameOffset            = Name("offset")
	NameStopColor         = Name("stop-color")
	NameStopOpacity       = Name("stop-opacity")
	NameGradientUnits     = Name("gradientUnits")
	NameGradientTransform = Name("gradientTransform")
	NameSpreadMethod      = Name("spreadMethod")
	NameFontFamily        = Name("font-family")
	NameFontSize          = Name("font-size")
	NameTextAnchor        = Name("text-anchor")
	NameDisplay           = Name("display")
	NameColor             = Name("color")

	NameFill             = Name("fill")
	NameFillOpacity      = Name("fill-opacity")
	NameFillRule         = Name("fill-rule")
	NameStroke           = Name("stroke")
	NameStrokeWidth      = Name("stroke-width")
	NameStrokeOpacity    = Name("stroke-opacity")
	NameStrokeLinecap    = Name("stroke-linecap")
	NameStrokeLinejoin   = Name("stroke-linejoin")
	NameStrokeMiterlimit = Name("stroke-miterlimit")
	NameStrokeDasharray  = Name("stroke-dasharray")
	NameStrokeDashoffset = Name("stroke-dashoffset")
)

// combined attribute names
const (
	NamePosition     = Name("<position>")      // x, y
	NameSize         = Name("<size>")          // width, height
	NameCornerRadius = Name("<corner-radius>") // rx, ry
	NameCenter       = Name("<center>")        // cx, cy
	NameStart        = Name("<start>")         // x1, y1
	NameEnd          = Name("<end>")           // x2, y2
	NameRadius       = Name("<radius>")        // r or rx, ry
	NameFillStyle    = Name("<fill>")          // fill, fill-opacity, fill-rule
	NameStrokeStyle  = Name("<stroke>")        // stroke, stroke-*
)

// Value is a typed attribute value. The set of implementations is closed:
// Length, Point, Size, Rect, Transform, Color, Fill, Stroke, String, Number, Points.
type Value interface {
	isValue()
}

// String is a raw string attribute value.
type String string

// Number is a plain number attribute value.
type Number float64

func (Length) isValue()    {}
func (Point) isValue()     {}
func (Size) isValue()      {}
func (Rect) isValue()      {}
func (Transform) isValue() {}
func (Color) isValue()     {}
func (Fill) isValue()      {}
func (Stroke) isValue()    {}
func (String) isValue()    {}
func (Number) isValue()    {}
func (Points) isValue()    {}

// Attributes maps canonical names to typed values.
type Attributes map[Name]Value

func get[T Value](a Attributes, n Name) (T, bool) {
	v, ok := a[n].(T)
	return v, ok
}

func (a Attributes) Length(n Name) (Length, bool)       { return get[Length](a, n) }
func (a Attributes) Point(n Name) (Point, bool)         { return get[Point](a, n) }
func (a Attributes) Size(n Name) (Size, bool)           { return get[Size](a, n) }
func (a Attributes) Rect(n Name) (Rect, bool)           { return get[Rect](a, n) }
func (a Attributes) Transform(n Name) (Transform, bool) { return get[Transform](a, n) }
func (a Attributes) Color(n Name) (Color, bool)         { return get[Color](a, n) }
func (a Attributes) Fill(n Name) (Fill, bool)           { return get[Fill](a, n) }
func (a Attributes) Stroke(n Name) (Stroke, bool)       { return get[Stroke](a, n) }
func (a Attributes) Points(n Name) (Points, bool)       { return get[Points](a, n) }

// String returns the string value of n, or "".
func (a Attributes) String(n Name) string {
	s, _ := get[String](a, n)
	return string(s)
}

// Number returns the number value of n, or def if absent.
func (a Attributes) Number(n Name, def float64) float64 {
	if v, ok := get[Number](a, n); ok {
		return float64(v)
	}
	return def
}
