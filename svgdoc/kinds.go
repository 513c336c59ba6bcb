package svgdoc

import "fmt"

// Kind identifies the supported elements.
type Kind uint8

const (
	KindDocument Kind = iota // svg
	KindGroup                // g
	KindDefs
	KindClipPath
	KindRect
	KindCircle
	KindEllipse
	KindLine
	KindPolygon
	KindPolyline
	KindPath
	KindText
	KindTitle
	KindDesc
	KindLinearGradient
	KindRadialGradient
	KindStop
	KindUse
	kindCount
)

var kindNames = [...]string{
	KindDocument:       "svg",
	KindGroup:          "g",
	KindDefs:           "defs",
	KindClipPath:       "clipPath",
	KindRect:           "rect",
	KindCircle:         "circle",
	KindEllipse:        "ellipse",
	KindLine:           "line",
	KindPolygon:        "polygon",
	KindPolyline:       "polyline",
	KindPath:           "path",
	KindText:           "text",
	KindTitle:          "title",
	KindDesc:           "desc",
	KindLinearGradient: "linearGradient",
	KindRadialGradient: "radialGradient",
	KindStop:           "stop",
	KindUse:            "use",
}

// String returns the element name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("<kind %d>", k)
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

// KindFromName returns the kind of the element with the given
// (local) name.
func KindFromName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// IsShape returns true for the basic shapes and paths.
func (k Kind) IsShape() bool { return KindRect <= k && k <= KindPath }

// IsGradient returns true for linear and radial gradients.
func (k Kind) IsGradient() bool { return k == KindLinearGradient || k == KindRadialGradient }

type kindSet uint32

func setOf(kinds ...Kind) kindSet {
	var s kindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

func (s kindSet) has(k Kind) bool { return s&(1<<k) != 0 }

var (
	descriptive = setOf(KindTitle, KindDesc)
	shapes      = setOf(KindRect, KindCircle, KindEllipse, KindLine, KindPolygon, KindPolyline, KindPath)

	containerContent = descriptive | shapes | setOf(KindGroup, KindDefs, KindUse, KindText,
		KindClipPath, KindLinearGradient, KindRadialGradient)
	clipPathContent = descriptive | shapes | setOf(KindText, KindUse)
	gradientContent = descriptive | setOf(KindStop)
)

// permitted returns the kinds accepted as children of k.
func (k Kind) permitted() kindSet {
	switch k {
	case KindDocument, KindGroup, KindDefs:
		return containerContent
	case KindClipPath:
		return clipPathContent
	case KindLinearGradient, KindRadialGradient:
		return gradientContent
	case KindStop, KindTitle, KindDesc:
		return 0
	default: // shapes, text and use
		return descriptive
	}
}

// Permits returns true if an element of kind child may
// be nested inside an element of kind k.
func (k Kind) Permits(child Kind) bool { return k.permitted().has(child) }
