package svgdoc

import (
	"encoding/xml"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"
)

// isForeign returns true for names in a namespace other than SVG,
// which are ignored.
func isForeign(name xml.Name) bool {
	return name.Space != "" && name.Space != svgNS
}

// rawAttributes are the attribute values of a start tag,
// before coercion. Parsers consume them with take.
type rawAttributes struct {
	names  []string // in source order
	values map[string]string
}

func (r *rawAttributes) set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

func (r *rawAttributes) take(name string) (string, bool) {
	v, ok := r.values[name]
	delete(r.values, name)
	return v, ok
}

// collectAttributes canonicalizes the attributes of a start tag.
// Foreign attributes and namespace declarations are dropped,
// xlink:href is renamed href, and the declarations of the
// style attribute override the other attributes.
func collectAttributes(attrs []xml.Attr) rawAttributes {
	r := rawAttributes{values: make(map[string]string, len(attrs))}
	var style, xlinkHref string
	for _, attr := range attrs {
		switch {
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
		case attr.Name.Space == "" && attr.Name.Local == "style":
			style = attr.Value
		case attr.Name.Space == "":
			r.set(attr.Name.Local, attr.Value)
		case attr.Name.Local == "href" && (attr.Name.Space == xlinkNS || attr.Name.Space == "xlink"):
			xlinkHref = attr.Value
		}
	}
	if _, ok := r.values["href"]; !ok && xlinkHref != "" {
		r.set("href", xlinkHref)
	}
	for _, decl := range parseStyle(style) {
		r.set(decl[0], decl[1])
	}
	return r
}

// parseStyle splits the declarations of a style attribute,
// such as "fill:red; stroke-width:2".
func parseStyle(style string) [][2]string {
	if strings.TrimSpace(style) == "" {
		return nil
	}
	parser := css.NewParser(parse.NewInputString(style), true)
	var out [][2]string
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			// end of input or error
			return out
		case css.DeclarationGrammar:
			var value strings.Builder
			for _, tok := range parser.Values() {
				value.Write(tok.Data)
			}
			v := strings.TrimSpace(value.String())
			v = strings.TrimSpace(strings.TrimSuffix(v, "!important"))
			out = append(out, [2]string{strings.ToLower(string(data)), v})
		}
	}
}
