package svgdoc

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/svgdom/svgattr"
)

var (
	ErrUnhandledAttribute           = errors.New("unhandled attribute")
	ErrUnhandledElement             = errors.New("unhandled element")
	ErrUnpermittedContentElement    = errors.New("element not permitted here")
	ErrEncounteredElementBeforeRoot = errors.New("element encountered before the root svg element")
	ErrNoRootDocument               = errors.New("no root svg element found")
	ErrUnknownParserFailure         = errors.New("unknown parser failure")
)

// AttributeError is returned for attributes not supported
// by an element.
type AttributeError struct {
	Err      error
	Element  string
	Name     string
	Location svgattr.Location
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s %q on <%s> at %s", e.Err, e.Name, e.Element, e.Location)
}

func (e *AttributeError) Unwrap() error { return e.Err }

// ElementError reports a structural problem with an element.
type ElementError struct {
	Err      error
	Element  string
	Parent   string // empty at the top level
	Location svgattr.Location
}

func (e *ElementError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("%s: <%s> at %s", e.Err, e.Element, e.Location)
	}
	return fmt.Sprintf("%s: <%s> inside <%s> at %s", e.Err, e.Element, e.Parent, e.Location)
}

func (e *ElementError) Unwrap() error { return e.Err }

// ParseError wraps a failure of the XML tokenizer.
// It matches ErrUnknownParserFailure with errors.Is, as well as
// the underlying cause, if any.
type ParseError struct {
	Cause    error
	Location svgattr.Location
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s at %s", ErrUnknownParserFailure, e.Location)
	}
	return fmt.Sprintf("invalid xml at %s: %s", e.Location, e.Cause)
}

func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUnknownParserFailure}
	}
	return []error{ErrUnknownParserFailure, e.Cause}
}
