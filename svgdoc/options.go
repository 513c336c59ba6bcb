package svgdoc

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/svgdom/svgpath"
	"go.uber.org/zap"
)

// ParseMode determines if the parser ignores, warns about or
// errors out on the content it does not handle.
type ParseMode uint8

const (
	// Permissive silently drops unhandled content.
	Permissive ParseMode = iota
	// StrictWarns logs a warning for unhandled content.
	StrictWarns
	// StrictThrows aborts the parse on unhandled content.
	StrictThrows
)

var modeNames = [...]string{
	Permissive:   "permissive",
	StrictWarns:  "warn",
	StrictThrows: "strict",
}

func (m ParseMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("<mode %d>", m)
}

// MarshalText implements encoding.TextMarshaler.
func (m ParseMode) MarshalText() ([]byte, error) {
	if int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid parse mode %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ParseMode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range modeNames {
		if s == name {
			*m = ParseMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown parse mode %q (expected permissive, warn or strict)", s)
}

// Options configures a parse.
type Options struct {
	Mode   ParseMode
	Logger *zap.Logger
	// Registry, when not nil, supplies the path factory
	// used by the parse.
	Registry *svgpath.Registry
	// Filename is only used in log messages.
	Filename string
}

// Option modifies Options.
type Option func(*Options)

// WithMode sets the parse mode. The default is StrictWarns.
func WithMode(m ParseMode) Option { return func(o *Options) { o.Mode = m } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithRegistry shares a path factory registry between parses.
func WithRegistry(r *svgpath.Registry) Option { return func(o *Options) { o.Registry = r } }

// WithFilename names the source in log messages.
func WithFilename(name string) Option { return func(o *Options) { o.Filename = name } }

func newOptions(opts []Option) Options {
	o := Options{Mode: StrictWarns}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
