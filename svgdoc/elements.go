package svgdoc

import (
	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgpath"
)

// Element is a node of the document tree.
// The set of implementations is closed: *Document, *Group, *Shape,
// *Text, *GradientElement, *Stop and *Use.
type Element interface {
	Kind() Kind
	// ID returns the id attribute, or an empty string.
	ID() string
	// Attributes returns the typed attributes of the element,
	// which must not be modified.
	Attributes() svgattr.Attributes
	// Location returns the position of the start tag.
	Location() svgattr.Location
	isElement()
}

// Container is implemented by elements which may have children.
type Container interface {
	Element
	Children() []Element
}

// Drawable is implemented by elements reduced to a path.
type Drawable interface {
	Element
	Path() svgpath.Path
}

type node struct {
	kind  Kind
	attrs svgattr.Attributes
	loc   svgattr.Location
}

func (n *node) Kind() Kind                     { return n.kind }
func (n *node) ID() string                     { return n.attrs.String(svgattr.NameID) }
func (n *node) Attributes() svgattr.Attributes { return n.attrs }
func (n *node) Location() svgattr.Location     { return n.loc }
func (n *node) isElement()                     {}

type children struct {
	list []Element
}

func (c *children) Children() []Element { return c.list }

func (c *children) addChild(e Element) { c.list = append(c.list, e) }

// Style groups the painting properties shared by the
// elements which may be drawn.
type Style struct {
	Fill      svgattr.Fill
	Stroke    svgattr.Stroke
	Transform svgattr.Transform
	Opacity   float64 // group opacity, in [0,1]
	Hidden    bool    // display="none"

	// ClipPath is the resolved clip-path reference, if any.
	ClipPath *Group
	clipRef  string
}

func (s *Style) style() *Style { return s }

// Document is the root svg element.
type Document struct {
	node
	children
	Style

	ViewBox svgattr.Rect
	// Width and Height are the nominal size of the image,
	// in pixels.
	Width, Height float64

	// Gradients are indexed by id.
	Gradients map[string]*svgattr.Gradient
	// IDs indexes every element with an id. When several
	// elements share an id, the last one wins.
	IDs map[string]Element
}

// Group is a g, defs or clipPath element.
type Group struct {
	node
	children
	Style
}

// Shape is one of the basic shapes or a path.
type Shape struct {
	node
	children
	Style

	path svgpath.Path
}

// Path returns the outline of the shape, in user space.
func (s *Shape) Path() svgpath.Path { return s.path }

// Text is a text, title or desc element.
type Text struct {
	node
	children
	Style

	// Position is the anchor of a text element.
	Position svgattr.Point
	Content  string
}

// GradientElement is a linearGradient or radialGradient element.
// Its stops are also available as its children.
type GradientElement struct {
	node
	children

	Gradient *svgattr.Gradient
}

// Stop is a gradient stop.
type Stop struct {
	node

	svgattr.GradientStop
}

// Use references another element, drawn at (X, Y).
type Use struct {
	node
	children
	Style

	Href string
	X, Y float64
	// Target is resolved at the end of the parse,
	// and is nil when Href is not found.
	Target Element
}

type styled interface {
	Element
	style() *Style
}

var (
	_ Container = (*Document)(nil)
	_ Container = (*Group)(nil)
	_ Drawable  = (*Shape)(nil)
	_ styled    = (*Text)(nil)
	_ styled    = (*Use)(nil)
	_ Container = (*GradientElement)(nil)
	_ Element   = (*Stop)(nil)
)

// Walk calls fn for el and its descendants, in document order.
// The children of an element are skipped when fn returns false.
// The targets of use elements are not visited.
func Walk(el Element, fn func(Element) bool) {
	if !fn(el) {
		return
	}
	if c, ok := el.(Container); ok {
		for _, child := range c.Children() {
			Walk(child, fn)
		}
	}
}
