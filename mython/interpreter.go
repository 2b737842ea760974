// interpreter.go — public facade: parse + execute a complete program
// against a fresh top-level Closure (spec.md §6.2's root-Compound contract).
package mython

import "io"

// Version is the interpreter's reported version string, surfaced by
// cmd/mython's "version" command (teacher's cmd/msg/main.go convention).
const Version = "0.1.0"

// Interpreter holds the persistent top-level Closure across repeated
// Eval calls, the way the teacher's REPL keeps one *Interpreter alive for
// the session (teacher's interpreter.go: NewInterpreter/EvalPersistentSource).
type Interpreter struct {
	globals Closure
	opts    []Option
	// counter backs ClassInstance identity across every Eval call on this
	// Interpreter, so instances created in different REPL lines never reuse
	// an id (class.go: NewClassInstance). A new Interpreter — and so a new
	// Run call — always starts back at 1.
	counter int64
}

// NewInterpreter builds an interpreter with a fresh, empty top-level
// Closure.
func NewInterpreter(opts ...Option) *Interpreter {
	return &Interpreter{globals: Closure{}, opts: opts}
}

// Run parses and executes src once against a fresh top-level Closure,
// writing Print output to w. It returns the root Compound's ExecResult,
// which is empty unless a top-level return stopped execution early; the
// values of the other top-level statements are discarded.
func Run(src string, w io.Writer, opts ...Option) (ExecResult, error) {
	return NewInterpreter(opts...).Eval(src, w)
}

// Eval parses and executes src against ip's persistent Closure (teacher's
// EvalPersistentSource shape), so class and variable bindings from one
// call are visible to the next — the REPL's incremental-evaluation model.
func (ip *Interpreter) Eval(src string, w io.Writer) (ExecResult, error) {
	prog, err := Parse(src, ip.opts...)
	if err != nil {
		return ExecResult{}, err
	}
	ctx := newContextWithCounter(w, &ip.counter)
	return prog.Execute(ip.globals, ctx)
}

// Globals returns the interpreter's persistent top-level Closure, e.g. so
// a caller can enumerate bound Classes for schema export (SPEC_FULL.md §2.5).
func (ip *Interpreter) Globals() Closure { return ip.globals }
