// Package svgdoc parses SVG documents into a tree of
// typed elements.
//
// The XML content is read by an event based tokenizer, and each
// start tag is turned into an Element: its attributes are coerced
// to typed values (see package svgattr), the basic shapes are
// reduced to paths (see package svgpath), and the references to
// gradients, clip paths and other elements are resolved once the
// whole document is read.
package svgdoc

import (
	"bytes"
	"io"
	"os"

	"github.com/benoitkugler/svgdom/svgpath"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Parse reads an SVG document from r.
// Only a sub-set of SVG is supported, but it is enough to draw
// many icons. The parse mode determines if the parser ignores,
// errors out, or logs a warning when it finds unsupported content.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	o := newOptions(opts)

	// each parse uses its own path factory
	id := uuid.NewString()
	log := o.Logger.With(zap.String("parse", id))
	if o.Filename != "" {
		log = log.With(zap.String("file", o.Filename))
	}
	var factory *svgpath.Factory
	if o.Registry != nil {
		factory = o.Registry.Get(id)
		defer o.Registry.Release(id)
	} else {
		factory = svgpath.NewFactory()
	}

	b := newBuilder(o.Mode, log, factory)
	if err := Tokenize(r, b); err != nil {
		return nil, err
	}
	return b.finish()
}

// ParseBytes parses an in-memory SVG document.
func ParseBytes(content []byte, opts ...Option) (*Document, error) {
	return Parse(bytes.NewReader(content), opts...)
}

// ParseFile parses the named SVG file.
func ParseFile(filename string, opts ...Option) (*Document, error) {
	fin, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return Parse(fin, append([]Option{WithFilename(filename)}, opts...)...)
}
