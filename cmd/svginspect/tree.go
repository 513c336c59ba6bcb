package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/benoitkugler/svgdom/svgattr"
	"github.com/benoitkugler/svgdom/svgdoc"
)

func formatPaint(p svgattr.Paint, ref string) string {
	switch p := p.(type) {
	case svgattr.Color:
		return p.String()
	case *svgattr.Gradient:
		return "url(#" + p.ID + ")"
	}
	if ref != "" {
		return "url(#" + ref + ") (unresolved)"
	}
	return "none"
}

func formatValue(v svgattr.Value) string {
	switch v := v.(type) {
	case svgattr.Fill:
		return fmt.Sprintf("%s opacity=%g rule=%s", formatPaint(v.Paint, v.Ref), v.Opacity, v.Rule)
	case svgattr.Stroke:
		if v.Paint == nil {
			return formatPaint(nil, v.Ref)
		}
		return fmt.Sprintf("%s width=%s opacity=%g", formatPaint(v.Paint, v.Ref), v.Width, v.Opacity)
	case svgattr.Transform:
		if v.IsIdentity() {
			return "identity"
		}
		m := v.Matrix()
		return fmt.Sprintf("matrix(%g %g %g %g %g %g)", m.A, m.B, m.C, m.D, m.E, m.F)
	case svgattr.Points:
		return fmt.Sprintf("%d points", len(v))
	default:
		return fmt.Sprint(v)
	}
}

// printTree writes one line per element, indented by depth,
// followed by its attributes sorted by name.
func printTree(w io.Writer, doc *svgdoc.Document, withAttributes bool) error {
	var err error
	depth := map[svgdoc.Element]int{}
	svgdoc.Walk(doc, func(el svgdoc.Element) bool {
		if err != nil {
			return false
		}
		indent := strings.Repeat("  ", depth[el])
		if c, ok := el.(svgdoc.Container); ok {
			for _, child := range c.Children() {
				depth[child] = depth[el] + 1
			}
		}
		line := indent + "<" + el.Kind().String()
		if id := el.ID(); id != "" {
			line += " #" + id
		}
		line += fmt.Sprintf("> line %d", el.Location().Line)
		switch el := el.(type) {
		case *svgdoc.Shape:
			if b := el.Path().Bounds(); len(el.Path()) != 0 {
				line += fmt.Sprintf(" bounds=(%g,%g %gx%g)", b.X, b.Y, b.W, b.H)
			}
		case *svgdoc.Text:
			if el.Content != "" {
				line += fmt.Sprintf(" %q", el.Content)
			}
		case *svgdoc.Use:
			if el.Target == nil {
				line += " -> #" + el.Href + " (unresolved)"
			} else {
				line += " -> #" + el.Href
			}
		}
		if _, err = fmt.Fprintln(w, line); err != nil {
			return false
		}
		if !withAttributes {
			return true
		}
		attrs := el.Attributes()
		for _, name := range slices.Sorted(maps.Keys(attrs)) {
			if _, err = fmt.Fprintf(w, "%s    %s: %s\n", indent, name, formatValue(attrs[name])); err != nil {
				return false
			}
		}
		return true
	})
	return err
}
