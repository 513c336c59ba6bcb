package svgattr

// GradientUnits is the type for gradient units
type GradientUnits byte

// SVG bounds paremater constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradientStop represents a stop in the SVG 2.0 gradient specification
type GradientStop struct {
	Offset  float64 // in [0,1]
	Color   Color
	Opacity float64 // in [0,1]
}

// Gradient holds a description of an SVG 2.0 gradient
type Gradient struct {
	ID        string
	Direction GradientDirection // Linear or Radial
	Stops     []GradientStop
	Transform Transform
	Spread    SpreadMethod
	Units     GradientUnits

	// Href is the id of a gradient to inherit stops from,
	// when the gradient defines none.
	Href string
}

// GradientDirection is either Linear or Radial.
type GradientDirection interface {
	isRadial() bool
}

// Linear stores x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial stores cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// IsRadial returns true for radial gradients.
func (g *Gradient) IsRadial() bool { return g.Direction != nil && g.Direction.isRadial() }

// DefaultLinear is the geometry used when no attribute is given.
var DefaultLinear = Linear{0, 0, 1, 0}

// DefaultRadial is the geometry used when no attribute is given.
var DefaultRadial = Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0}
