package svgattr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAttributeValue      = errors.New("invalid attribute value")
	ErrInvalidMeasurementUnit     = errors.New("invalid measurement unit")
	ErrMissingOpeningBrace        = errors.New("missing opening brace")
	ErrMissingClosingBrace        = errors.New("missing closing brace")
	ErrInvalidTransformDefinition = errors.New("invalid transform definition")
)

// Location is a position in the source document, 1-based.
// The zero value means the position is unknown.
type Location struct {
	Line, Col int
}

func (l Location) String() string {
	if l.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// ValueError reports a raw attribute value that could not be coerced
// into its typed form.
type ValueError struct {
	Err      error // one of the sentinel errors of this package
	Raw      string
	Location Location
	Reason   string
}

func (e *ValueError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %q at %s", e.Err, e.Raw, e.Location)
	}
	return fmt.Sprintf("%s: %q at %s (%s)", e.Err, e.Raw, e.Location, e.Reason)
}

func (e *ValueError) Unwrap() error { return e.Err }

func invalidValue(raw string, loc Location, reason string) error {
	return &ValueError{Err: ErrInvalidAttributeValue, Raw: raw, Location: loc, Reason: reason}
}

// TransformError reports a malformed transform function call.
type TransformError struct {
	Err      error
	Function string
	Argument string // name of the missing argument, if any
	Raw      string
	Location Location
}

func (e *TransformError) Error() string {
	msg := fmt.Sprintf("%s in %s(...) of %q at %s", e.Err, e.Function, e.Raw, e.Location)
	if e.Argument != "" {
		msg += ": missing argument " + e.Argument
	}
	return msg
}

func (e *TransformError) Unwrap() error { return e.Err }
