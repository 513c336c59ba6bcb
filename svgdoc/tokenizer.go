package svgdoc

import (
	"encoding/xml"
	"io"

	"github.com/benoitkugler/svgdom/svgattr"
	"golang.org/x/net/html/charset"
)

// Handler receives the events of the XML tokenizer.
// Returning an error from one of the methods stops the tokenization.
type Handler interface {
	OnStart(name xml.Name, attrs []xml.Attr, loc svgattr.Location) error
	OnEnd(name xml.Name) error
	OnCharacters(text string) error
	// OnParseError is called when the input is not well formed.
	// Its return value is returned by Tokenize.
	OnParseError(err error, loc svgattr.Location) error
}

// Tokenize reads the XML content of r and reports its elements
// and character data to h, until the end of input or an error.
// Documents declaring a non UTF-8 encoding are decoded.
func Tokenize(r io.Reader, h Handler) error {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		line, col := decoder.InputPos()
		loc := svgattr.Location{Line: line, Col: col}
		t, err := decoder.Token()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return h.OnParseError(err, loc)
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			err = h.OnStart(se.Name, se.Attr, loc)
		case xml.EndElement:
			err = h.OnEnd(se.Name)
		case xml.CharData:
			err = h.OnCharacters(string(se))
		}
		if err != nil {
			return err
		}
	}
}
