package svgpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
	"go.uber.org/multierr"
)

var (
	ErrInvalidPathCommand = errors.New("invalid path command")
	ErrUnknownPathCommand = errors.New("unknown path command")
)

// CommandError reports a path command which could not be replayed.
type CommandError struct {
	Err     error  // ErrInvalidPathCommand or ErrUnknownPathCommand
	Command string // raw command invocation
	Offset  int    // byte offset of the command in the path data
	Reason  string
}

func (e *CommandError) Error() string {
	cmd := e.Command
	if len(cmd) > 24 {
		cmd = cmd[:24] + "..."
	}
	if e.Reason == "" {
		return fmt.Sprintf("%s %q at offset %d", e.Err, cmd, e.Offset)
	}
	return fmt.Sprintf("%s %q at offset %d: %s", e.Err, cmd, e.Offset, e.Reason)
}

func (e *CommandError) Unwrap() error { return e.Err }

// command describes one path command letter, lower cased.
type command struct {
	arity int
	// run applies one argument group; group is the index
	// of the group in the invocation
	run func(r *replay, group int, args []float64)
}

// replay is the state of one command invocation
type replay struct {
	f       *Factory
	path    *Path
	abs     bool
	current Point
	prevCmd string // previous invocation, for reflections
	ctrl    Point  // last control point of this invocation
}

// Factory replays path commands against a Path. It holds a command
// table and scratch state, and must not be used concurrently.
// See Registry to share factories between independent parses.
type Factory struct {
	commands map[byte]command

	args []float64 // scratch buffer

	// control point of the last smooth quadratic command,
	// which can't be derived from its own arguments
	lastQuadCtrl Point
	lastQuadCmd  string
}

// NewFactory returns a factory knowing the SVG 1.1 path commands.
func NewFactory() *Factory {
	return &Factory{commands: map[byte]command{
		'm': {2, (*replay).moveTo},
		'l': {2, (*replay).lineTo},
		'h': {1, (*replay).horizontalTo},
		'v': {1, (*replay).verticalTo},
		'c': {6, (*replay).cubicTo},
		's': {4, (*replay).smoothCubicTo},
		'q': {4, (*replay).quadTo},
		't': {2, (*replay).smoothQuadTo},
		'a': {7, (*replay).arcTo},
		'z': {0, nil},
	}}
}

// isCommandLetter returns true if d[i] starts a command.
// The exponent marker of a number is not a command.
func isCommandLetter(d string, i int) bool {
	c := d[i]
	if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
		return false
	}
	if (c == 'e' || c == 'E') && i > 0 {
		prev := d[i-1]
		if '0' <= prev && prev <= '9' || prev == '.' {
			return false
		}
	}
	return true
}

// SplitCommands cuts d into command invocations, each starting
// with its command letter and running up to the next one.
// It also returns the offsets of the invocations in d, and
// the content found before the first letter.
func SplitCommands(d string) (cmds []string, offsets []int, leading string) {
	start := -1
	for i := 0; i < len(d); i++ {
		if !isCommandLetter(d, i) {
			continue
		}
		if start == -1 {
			leading = d[:i]
		} else {
			cmds = append(cmds, d[start:i])
			offsets = append(offsets, start)
		}
		start = i
	}
	if start == -1 {
		return nil, nil, d
	}
	cmds = append(cmds, d[start:])
	offsets = append(offsets, start)
	return cmds, offsets, leading
}

// Parse interprets the path data d. Commands which can't be replayed
// are skipped: the returned error, if any, combines one *CommandError
// per skipped command, and the returned path holds what
// could be interpreted. A skipped command is still the previous
// command of the next one.
func (f *Factory) Parse(d string) (Path, error) {
	var (
		path Path
		errs error
		prev string
	)
	cmds, offsets, leading := SplitCommands(d)
	if strings.TrimSpace(leading) != "" {
		errs = multierr.Append(errs, &CommandError{Err: ErrInvalidPathCommand, Command: leading, Reason: "content before first command"})
	}
	for i, cmd := range cmds {
		err := f.Command(&path, cmd, prev)
		if err != nil {
			var ce *CommandError
			if errors.As(err, &ce) {
				ce.Offset = offsets[i]
			}
			errs = multierr.Append(errs, err)
		}
		prev = cmd
	}
	return path, errs
}

// Command replays one command invocation cmd, such as "C10,10 20,10 20,20",
// appending to path. prev is the previous invocation, used by the smooth
// commands to reflect its last control point. Extra argument groups
// repeat the command, and a repeated move becomes a line.
func (f *Factory) Command(path *Path, cmd, prev string) error {
	if strings.TrimSpace(cmd) == "" {
		return &CommandError{Err: ErrInvalidPathCommand, Command: cmd, Reason: "empty command"}
	}
	letter := cmd[0]
	c, ok := f.commands[letter|0x20]
	if !ok {
		return &CommandError{Err: ErrUnknownPathCommand, Command: cmd, Reason: fmt.Sprintf("letter %q", letter)}
	}
	var err error
	if letter|0x20 == 'a' {
		f.args, err = scanArcArgs(f.args[:0], cmd[1:])
	} else {
		f.args, err = scanNumbers(f.args[:0], cmd[1:])
	}
	if err != nil {
		return &CommandError{Err: ErrInvalidPathCommand, Command: cmd, Reason: err.Error()}
	}
	args := f.args

	if c.arity == 0 {
		path.Stop(true)
		if len(args) != 0 {
			return &CommandError{Err: ErrInvalidPathCommand, Command: cmd, Reason: "unexpected arguments"}
		}
		return nil
	}
	if len(args) < c.arity {
		return &CommandError{Err: ErrInvalidPathCommand, Command: cmd,
			Reason: fmt.Sprintf("expected %d arguments, got %d", c.arity, len(args))}
	}

	r := replay{f: f, path: path, abs: 'A' <= letter && letter <= 'Z', current: path.CurrentPoint(), prevCmd: prev}
	groups := len(args) / c.arity
	for g := 0; g < groups; g++ {
		c.run(&r, g, args[g*c.arity:(g+1)*c.arity])
	}
	if letter|0x20 == 'q' || letter|0x20 == 't' {
		f.lastQuadCtrl, f.lastQuadCmd = r.ctrl, cmd
	}
	if rem := len(args) % c.arity; rem != 0 {
		return &CommandError{Err: ErrInvalidPathCommand, Command: cmd,
			Reason: fmt.Sprintf("%d trailing arguments", rem)}
	}
	return nil
}

// scanNumbers appends the numbers of s to dst
func scanNumbers(dst []float64, s string) ([]float64, error) {
	b := []byte(s)
	for {
		b = b[skipCommaWhitespace(b):]
		if len(b) == 0 {
			return dst, nil
		}
		f, n := strconv.ParseFloat(b)
		if n == 0 {
			return dst, fmt.Errorf("unexpected character %q", b[0])
		}
		dst = append(dst, f)
		b = b[n:]
	}
}

// scanArcArgs is as scanNumbers, but reads the flags (4th and 5th
// arguments of each group) as single characters, so that compact
// forms like "a1,1 0 00.5.5" are supported.
func scanArcArgs(dst []float64, s string) ([]float64, error) {
	b := []byte(s)
	for i := 0; ; i++ {
		b = b[skipCommaWhitespace(b):]
		if len(b) == 0 {
			return dst, nil
		}
		if k := i % 7; k == 3 || k == 4 {
			if b[0] != '0' && b[0] != '1' {
				return dst, fmt.Errorf("invalid arc flag %q", b[0])
			}
			dst = append(dst, float64(b[0]-'0'))
			b = b[1:]
			continue
		}
		f, n := strconv.ParseFloat(b)
		if n == 0 {
			return dst, fmt.Errorf("unexpected character %q", b[0])
		}
		dst = append(dst, f)
		b = b[n:]
	}
}

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t') {
		i++
	}
	return i
}

// point resolves the (x, y) argument pair in absolute coordinates
func (r *replay) point(x, y float64) Point {
	if r.abs {
		return Point{x, y}
	}
	return Point{r.current.X + x, r.current.Y + y}
}

// ensureStarted opens a subpath at the current point when drawing
// without a preceding move, or after a close.
func (r *replay) ensureStarted() {
	p := *r.path
	if len(p) == 0 {
		r.path.Start(r.current)
		return
	}
	if _, ok := p[len(p)-1].(Close); ok {
		r.path.Start(r.current)
	}
}

func (r *replay) moveTo(group int, args []float64) {
	if group > 0 {
		r.lineTo(group, args)
		return
	}
	r.current = r.point(args[0], args[1])
	r.path.Start(r.current)
}

func (r *replay) lineTo(_ int, args []float64) {
	r.ensureStarted()
	r.current = r.point(args[0], args[1])
	r.path.Line(r.current)
}

func (r *replay) horizontalTo(_ int, args []float64) {
	r.ensureStarted()
	if r.abs {
		r.current.X = args[0]
	} else {
		r.current.X += args[0]
	}
	r.path.Line(r.current)
}

func (r *replay) verticalTo(_ int, args []float64) {
	r.ensureStarted()
	if r.abs {
		r.current.Y = args[0]
	} else {
		r.current.Y += args[0]
	}
	r.path.Line(r.current)
}

func (r *replay) cubicTo(_ int, args []float64) {
	r.ensureStarted()
	c1, c2, end := r.point(args[0], args[1]), r.point(args[2], args[3]), r.point(args[4], args[5])
	r.path.CubeBezier(c1, c2, end)
	r.current, r.ctrl = end, c2
}

func (r *replay) smoothCubicTo(group int, args []float64) {
	r.ensureStarted()
	c1 := r.current
	if group > 0 {
		c1 = r.ctrl.reflect(r.current)
	} else if p, ok := r.previousControl("cs"); ok {
		c1 = p.reflect(r.current)
	}
	c2, end := r.point(args[0], args[1]), r.point(args[2], args[3])
	r.path.CubeBezier(c1, c2, end)
	r.current, r.ctrl = end, c2
}

func (r *replay) quadTo(_ int, args []float64) {
	r.ensureStarted()
	c, end := r.point(args[0], args[1]), r.point(args[2], args[3])
	r.path.QuadBezier(c, end)
	r.current, r.ctrl = end, c
}

func (r *replay) smoothQuadTo(group int, args []float64) {
	r.ensureStarted()
	c := r.current
	if group > 0 {
		c = r.ctrl.reflect(r.current)
	} else if p, ok := r.previousControl("qt"); ok {
		c = p.reflect(r.current)
	}
	end := r.point(args[0], args[1])
	r.path.QuadBezier(c, end)
	r.current, r.ctrl = end, c
}

func (r *replay) arcTo(_ int, args []float64) {
	r.ensureStarted()
	var a arcArgs
	copy(a[:], args)
	end := r.point(a[5], a[6])
	a[5], a[6] = end.X, end.Y
	r.path.arcTo(r.current, a)
	r.current = end
}

// previousControl returns the absolute position of the last control
// point of the previous invocation, if its letter is one of kinds.
// The control point is recovered by parsing the previous invocation
// again, since its relative arguments are expressed from the point
// its last group started from.
func (r *replay) previousControl(kinds string) (Point, bool) {
	if r.prevCmd == "" {
		return Point{}, false
	}
	letter := r.prevCmd[0]
	lower := letter | 0x20
	if strings.IndexByte(kinds, lower) == -1 {
		return Point{}, false
	}
	var ctrlIdx, endIdx, arity int
	switch lower {
	case 'c':
		ctrlIdx, endIdx, arity = 2, 4, 6
	case 's', 'q':
		ctrlIdx, endIdx, arity = 0, 2, 4
	case 't':
		// the control point of a smooth quadratic is itself a reflection
		if r.f.lastQuadCmd == r.prevCmd {
			return r.f.lastQuadCtrl, true
		}
		return Point{}, false
	}
	args, _ := scanNumbers(nil, r.prevCmd[1:])
	if len(args) < arity {
		return Point{}, false
	}
	last := args[(len(args)/arity-1)*arity:]
	ctrl := Point{last[ctrlIdx], last[ctrlIdx+1]}
	if 'a' <= letter && letter <= 'z' {
		oldCurrent := r.current.sub(Point{last[endIdx], last[endIdx+1]})
		ctrl = ctrl.add(oldCurrent)
	}
	return ctrl, true
}
