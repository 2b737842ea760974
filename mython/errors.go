// errors.go — tagged error kinds (spec.md §7) and caret-snippet rendering.
//
// Every error the lexer, parser, or evaluator can raise is a concrete type
// here, never a bare string, so callers can `errors.As` to the specific
// kind. WrapWithSource renders any of them as a Python-style snippet with a
// caret under the offending column, the same shape the teacher's errors.go
// builds for *LexError/*ParseError/*RuntimeError.
package mython

import (
	"errors"
	"fmt"
	"strings"
)

// LexError — unterminated string or unknown escape sequence.
type LexError struct {
	Line, Col int
	Msg       string
}

func (e *LexError) Error() string { return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg) }

// NameError — identifier or field not bound.
type NameError struct {
	Line, Col int
	Name      string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("name error at %d:%d: %q is not defined", e.Line, e.Col, e.Name)
}

// TypeMismatch — operands unsupported for Equal/Less/Add/Sub/Mult/Div.
type TypeMismatch struct {
	Line, Col int
	Msg       string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ZeroDivisionError — divisor is Number(0).
type ZeroDivisionError struct {
	Line, Col int
}

func (e *ZeroDivisionError) Error() string {
	return fmt.Sprintf("zero division at %d:%d", e.Line, e.Col)
}

// NotImplementedError — method missing or arity mismatch.
type NotImplementedError struct {
	Line, Col int
	Msg       string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// located is satisfied by every error kind above; WrapWithSource uses it to
// find the line/col to point the caret at.
type located interface {
	error
	position() (line, col int)
}

func (e *LexError) position() (int, int)           { return e.Line, e.Col }
func (e *NameError) position() (int, int)           { return e.Line, e.Col }
func (e *TypeMismatch) position() (int, int)        { return e.Line, e.Col }
func (e *ZeroDivisionError) position() (int, int)   { return e.Line, e.Col }
func (e *NotImplementedError) position() (int, int) { return e.Line, e.Col }

func headerFor(err error) string {
	switch err.(type) {
	case *LexError:
		return "LEXICAL ERROR"
	case *NameError:
		return "NAME ERROR"
	case *TypeMismatch:
		return "TYPE ERROR"
	case *ZeroDivisionError:
		return "ZERO DIVISION"
	case *NotImplementedError:
		return "NOT IMPLEMENTED"
	case *ParseError:
		return "SYNTAX ERROR"
	default:
		return "ERROR"
	}
}

// WrapWithSource renders err as a multi-line snippet with a caret pointing
// at its source column, if err (or an error it wraps, such as Parse's
// tracerr-wrapped ParseError) carries a position. Errors with no position
// are returned unchanged.
func WrapWithSource(err error, src string) error {
	var le located
	if !errors.As(err, &le) {
		return err
	}
	line, col := le.position()
	return fmt.Errorf("%s", prettySnippet(src, headerFor(le), line, col, le.Error()))
}

func prettySnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	pad := col - 1
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", pad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
