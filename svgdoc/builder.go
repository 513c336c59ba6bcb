package svgdoc

import (
	"encoding/xml"
	"strings"

	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgpath"
	"go.uber.org/zap"
)

type builderState uint8

const (
	beforeRoot builderState = iota
	inRoot
	afterRoot
)

// frame is an open element. el is nil for unknown elements,
// whose children are attached to the nearest known ancestor.
type frame struct {
	el    Element
	name  string
	style inheritedStyle
}

// builder assembles the document tree from the tokenizer events.
// It is used for one parse only.
type builder struct {
	mode     ParseMode
	log      *zap.Logger
	factory  *svgpath.Factory
	resolver *Resolver

	state builderState
	doc   *Document
	stack []frame
	skip  int // depth inside an ignored foreign element

	viewportW, viewportH float64
}

var _ Handler = (*builder)(nil)

func newBuilder(mode ParseMode, log *zap.Logger, factory *svgpath.Factory) *builder {
	return &builder{mode: mode, log: log, factory: factory, resolver: NewResolver()}
}

// report applies the parse mode to a recoverable error:
// it is returned in StrictThrows mode, and logged otherwise.
func (b *builder) report(err error, kind Kind) error {
	switch b.mode {
	case StrictThrows:
		return err
	case StrictWarns:
		b.log.Warn("ignoring unsupported content", zap.String("element", kind.String()), zap.Error(err))
	default:
		b.log.Debug("ignoring unsupported content", zap.String("element", kind.String()), zap.Error(err))
	}
	return nil
}

// current returns the innermost known open element, or nil.
func (b *builder) current() *frame {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].el != nil {
			return &b.stack[i]
		}
	}
	return nil
}

func (b *builder) inherited() inheritedStyle {
	if f := b.current(); f != nil {
		return f.style
	}
	return defaultStyle
}

func (b *builder) OnStart(name xml.Name, attrs []xml.Attr, loc svgattr.Location) error {
	if b.skip > 0 {
		b.skip++
		return nil
	}
	if isForeign(name) {
		b.skip = 1
		return nil
	}

	kind, known := KindFromName(name.Local)
	switch b.state {
	case beforeRoot:
		if kind != KindDocument || !known {
			return &ElementError{Err: ErrEncounteredElementBeforeRoot, Element: name.Local, Location: loc}
		}
	case afterRoot:
		return &ElementError{Err: ErrUnpermittedContentElement, Element: name.Local, Location: loc}
	}

	parent := b.current()
	if !known {
		err := b.report(&ElementError{Err: ErrUnhandledElement, Element: name.Local, Parent: parent.name, Location: loc}, parent.el.Kind())
		if err != nil {
			return err
		}
		b.stack = append(b.stack, frame{name: name.Local})
		return nil
	}
	if parent != nil && !parent.el.Kind().Permits(kind) {
		return &ElementError{Err: ErrUnpermittedContentElement, Element: name.Local, Parent: parent.name, Location: loc}
	}

	el, style, err := b.parseElement(kind, attrs, loc)
	if err != nil {
		return err
	}
	if doc, ok := el.(*Document); ok {
		b.doc = doc
		b.state = inRoot
		b.viewportW, b.viewportH = doc.ViewBox.Width, doc.ViewBox.Height
	}
	if id := el.ID(); id != "" {
		b.doc.IDs[id] = el
	}
	b.stack = append(b.stack, frame{el: el, name: name.Local, style: style})
	return nil
}

// parseElement runs the combined parsers, then the single ones,
// then the post processing of the element kind.
func (b *builder) parseElement(kind Kind, attrs []xml.Attr, loc svgattr.Location) (Element, inheritedStyle, error) {
	def := &elementDefs[kind]
	parent := b.inherited()
	p := &attrParser{
		b:      b,
		kind:   kind,
		raw:    collectAttributes(attrs),
		out:    make(svgattr.Attributes),
		loc:    loc,
		parent: parent,
		style:  parent,
	}
	for _, parse := range def.combined {
		if err := parse(p); err != nil {
			return nil, p.style, err
		}
	}
	for _, name := range p.raw.names {
		raw, ok := p.raw.take(name)
		if !ok { // consumed by a combined parser
			continue
		}
		parse, ok := def.singles[svgattr.Name(name)]
		if !ok {
			err := p.report(&AttributeError{Err: ErrUnhandledAttribute, Element: kind.String(), Name: name, Location: loc})
			if err != nil {
				return nil, p.style, err
			}
			continue
		}
		v, ok, err := parse(raw, loc)
		if err != nil {
			if err = p.report(err); err != nil {
				return nil, p.style, err
			}
			continue
		}
		if ok {
			p.out[svgattr.Name(name)] = v
		}
	}
	el, err := def.build(p)
	return el, p.style, err
}

func (b *builder) OnEnd(xml.Name) error {
	if b.skip > 0 {
		b.skip--
		return nil
	}
	if len(b.stack) == 0 {
		return nil
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.el == nil {
		return nil
	}

	b.closeElement(top.el)
	if parent := b.current(); parent != nil {
		b.attach(parent.el, top.el)
	}
	if top.el.Kind() == KindDocument {
		b.state = afterRoot
	}
	return nil
}

func (b *builder) closeElement(el Element) {
	switch el := el.(type) {
	case *Text:
		el.Content = strings.TrimSpace(el.Content)
	case *GradientElement:
		// registered when closed, so that references
		// appearing before are resolved at the end
		b.resolver.Register(el.Gradient)
		if el.Gradient.ID != "" {
			b.doc.Gradients[el.Gradient.ID] = el.Gradient
		}
	}
}

func (b *builder) attach(parent, child Element) {
	if g, ok := parent.(*GradientElement); ok {
		if stop, ok := child.(*Stop); ok {
			// offsets are increasing
			if n := len(g.Gradient.Stops); n != 0 && stop.Offset < g.Gradient.Stops[n-1].Offset {
				stop.Offset = g.Gradient.Stops[n-1].Offset
			}
			g.Gradient.Stops = append(g.Gradient.Stops, stop.GradientStop)
		}
	}
	if c, ok := parent.(interface{ addChild(Element) }); ok {
		c.addChild(child)
	}
}

func (b *builder) OnCharacters(text string) error {
	if b.skip > 0 {
		return nil
	}
	if f := b.current(); f != nil {
		if t, ok := f.el.(*Text); ok {
			t.Content += text
		}
	}
	return nil
}

func (b *builder) OnParseError(err error, loc svgattr.Location) error {
	return &ParseError{Cause: err, Location: loc}
}

// finish checks that a root was found and resolves the
// references to elements and gradients.
func (b *builder) finish() (*Document, error) {
	if b.doc == nil {
		return nil, ErrNoRootDocument
	}
	b.resolver.inheritStops(b.log)
	b.resolveReferences(b.doc)
	return b.doc, nil
}

func (b *builder) resolveReferences(root Element) {
	Walk(root, func(el Element) bool {
		if s, ok := el.(styled); ok {
			b.resolveStyle(el, s.style())
		}
		if u, ok := el.(*Use); ok && u.Href != "" {
			u.Target = b.doc.IDs[u.Href]
			if u.Target == nil {
				b.log.Warn("use reference not found", zap.String("href", u.Href), zap.Int("line", u.Location().Line))
			}
		}
		return true
	})
}

// resolveStyle resolves the paint servers referenced before their
// definition. Unknown fills default to black, unknown strokes to none.
func (b *builder) resolveStyle(el Element, s *Style) {
	if s.Fill.Ref != "" && s.Fill.Paint == nil {
		if g, ok := b.resolver.Gradient(s.Fill.Ref); ok {
			s.Fill.Paint = g
		} else {
			b.log.Warn("fill reference not found", zap.String("ref", s.Fill.Ref), zap.Int("line", el.Location().Line))
			s.Fill.Paint = svgattr.Black
		}
		el.Attributes()[svgattr.NameFillStyle] = s.Fill
	}
	if s.Stroke.Ref != "" && s.Stroke.Paint == nil {
		if g, ok := b.resolver.Gradient(s.Stroke.Ref); ok {
			s.Stroke.Paint = g
		} else {
			b.log.Warn("stroke reference not found", zap.String("ref", s.Stroke.Ref), zap.Int("line", el.Location().Line))
		}
		el.Attributes()[svgattr.NameStrokeStyle] = s.Stroke
	}
	if s.clipRef != "" {
		if g, ok := b.doc.IDs[s.clipRef].(*Group); ok && g.Kind() == KindClipPath {
			s.ClipPath = g
		} else {
			b.log.Warn("clip-path reference not found", zap.String("ref", s.clipRef), zap.Int("line", el.Location().Line))
		}
	}
}
