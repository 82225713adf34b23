package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error produced by this package is derived from one of these, so
// callers classify failures with [errors.Is].
var (
	ErrParse             = NewError("parse error")
	ErrNameCollision     = NewError("name already declared")
	ErrUndefinedName     = NewError("undefined name")
	ErrDimensionMismatch = NewError("dimension mismatch")
	ErrTypeMismatch      = NewError("type mismatch")
	ErrUnimplemented     = NewError("feature not implemented")
	ErrReadInput         = NewError("failed to read input")
	ErrCatalog           = NewError("invalid catalog")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	kind  *Error      // Sentinel this error was derived from
	pos   *Position   // Source position, if any
	rest  string      // Unparsed input remaining at pos
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		msg := e.msg
		if e.pos != nil {
			msg += " at " + e.pos.String()
		}

		part = append(part, msg)
	}

	for _, a := range e.attrs {
		part = append(part, a.Key+"="+a.Value.String())
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.kind != nil && e.kind == t
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Position returns the source position attached to e, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Remaining returns the unparsed input attached to a parse error.
func (e *Error) Remaining() string { return e.rest }

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition attaches a source position.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

// WithRemaining attaches the input left unparsed when the error occurred.
func (e *Error) WithRemaining(rest string) *Error {
	c := e.clone()
	c.rest = rest

	return c
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Snippet renders the line of source containing the error position with a
// caret under the offending column. It returns an empty string when e carries
// no position or the position is outside source.
func (e *Error) Snippet(source string) string {
	if e.pos == nil {
		return ""
	}

	lines := strings.Split(source, "\n")
	if e.pos.Line < 1 || e.pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(e.pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[e.pos.Line-1])
	sb.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if e.pos.Column > 0 {
		padding += strings.Repeat(" ", e.pos.Column-1)
	}

	sb.WriteString(padding)
	sb.WriteString("^\n")

	return sb.String()
}
