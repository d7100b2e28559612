package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Stage errors. Every error returned by Tokenize, Parse and Execute wraps
// exactly one of these.
var (
	ErrLex     = NewError("lex error")
	ErrParse   = NewError("parse error")
	ErrRuntime = NewError("runtime error")
)

// Predefined errors (sentinel values).
var (
	ErrReadInput          = NewError("failed to read input")
	ErrUnexpectedChar     = NewError("unexpected char")
	ErrUnterminatedString = NewError("unterminated string")
	ErrNumberRange        = NewError("number out of range")
	ErrUnexpectedToken    = NewError("unexpected token")
	ErrUnexpectedIndent   = NewError("unexpected indentation")
	ErrExpectedBlock      = NewError("expected indented block")
	ErrMaxDepth           = NewError("maximum nesting depth exceeded")
	ErrDivideByZero       = NewError("division by zero")
	ErrStringLength       = NewError("string too long")
	ErrExpectCompile      = NewError("expectation compilation failed")
	ErrExpectFailed       = NewError("expectation failed")
)

// Error represents an error with optional structured logging attributes
// and an optional source span.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind  *Error      // sentinel this error derives from
	err   error       // Wrapped error (for errors.Unwrap)
	span  *Span       // offending source range
	msg   string
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg> at <L:C>: <err>"
	//   2. "<msg>: <err>"
	//   3. "<msg>"
	//   4. "<err>"
	part := make([]string, 0, 2)

	if e.msg != "" {
		msg := e.msg
		if e.span != nil {
			msg += " at " + e.span.Start.String()
		}

		part = append(part, msg)
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

	return ok && e.kind != nil && t == e.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.span != nil {
		attrs = append(attrs, slog.String("span", e.span.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

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
	c.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	c.attrs = append(append(c.attrs, e.attrs...), attrs...)

	return c
}

// WithSpan returns a copy of e located at span.
func (e *Error) WithSpan(span Span) *Error {
	c := e.clone()
	c.span = &span

	return c
}

// Span returns the innermost source span recorded in the error chain.
func (e *Error) Span() (Span, bool) {
	var inner *Error
	if e.err != nil && errors.As(e.err, &inner) {
		if s, ok := inner.Span(); ok {
			return s, true
		}
	}

	if e.span != nil {
		return *e.span, true
	}

	return Span{}, false
}

// Attrs returns the attributes of every Error in the chain, outermost first.
func (e *Error) Attrs() []slog.Attr {
	attrs := append([]slog.Attr(nil), e.attrs...)

	var inner *Error
	if e.err != nil && errors.As(e.err, &inner) {
		attrs = append(attrs, inner.Attrs()...)
	}

	return attrs
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Diagnostic renders err against the source it was produced from: a header,
// the offending line with a caret run under the span, and any expectation
// attributes.
//
//	parse error at 2:5: unexpected token
//	  2 | a = = 1
//	          ^
//	  expected: expression
//	  found: "="
func Diagnostic(err error, src string) string {
	var b strings.Builder

	b.WriteString(err.Error())
	b.WriteByte('\n')

	var le *Error
	if !errors.As(err, &le) {
		return b.String()
	}

	if span, ok := le.Span(); ok {
		b.WriteString(snippet(src, span))
	}

	for _, a := range le.Attrs() {
		switch a.Key {
		case "expected", "found":
			b.WriteString("  " + a.Key + ": " + a.Value.String() + "\n")
		}
	}

	return b.String()
}

// snippet formats the source line containing span with a caret marker.
func snippet(src string, span Span) string {
	lines := strings.Split(src, "\n")

	if span.Start.Line < 1 || span.Start.Line > len(lines) {
		return ""
	}

	line := lines[span.Start.Line-1]
	num := strconv.Itoa(span.Start.Line)

	var b strings.Builder

	b.WriteString("  " + num + " | " + line + "\n")

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	b.WriteString(strings.Repeat(" ", len(num)+5))

	if span.Start.Column > 1 {
		b.WriteString(strings.Repeat(" ", span.Start.Column-1))
	}

	width := span.Len()
	if s, e := span.Start.Offset, span.End.Offset; 0 <= s && s <= e && e <= len(src) {
		width = utf8.RuneCountInString(src[s:e])
	}

	if rest := utf8.RuneCountInString(line) - (span.Start.Column - 1); width > rest {
		width = rest
	}

	b.WriteString(strings.Repeat("^", max(width, 1)))
	b.WriteByte('\n')

	return b.String()
}
