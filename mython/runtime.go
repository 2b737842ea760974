// runtime.go — Context, truthiness, equality and ordering (spec.md §4.2, §6.3).
package mython

import (
	"io"
	"sync/atomic"
)

// Context is the runtime environment exposing an output stream and the
// instance-identity counter (spec.md §6.3, §4.2). It is the only service
// the evaluator requires.
type Context interface {
	Output() io.Writer
	// NextInstanceID returns the next id in a strictly increasing sequence,
	// used to stamp a freshly allocated ClassInstance for its no-__str__
	// print placeholder (class.go: NewClassInstance).
	NextInstanceID() int64
}

// StdContext is the default Context, writing to an arbitrary io.Writer.
// counter is owned by this Context, not a package global: a fresh
// StdContext always starts instance numbering at 1, so two separate runs of
// the same program see identical placeholders (spec.md §8 invariant 2).
type StdContext struct {
	w       io.Writer
	counter *int64
}

// NewContext builds a Context that writes Print output to w, with its own
// independent instance counter.
func NewContext(w io.Writer) *StdContext {
	return &StdContext{w: w, counter: new(int64)}
}

// newContextWithCounter builds a Context sharing counter with whatever else
// holds a reference to it — used by Interpreter.Eval so repeated calls on
// one persistent session keep handing out fresh, non-repeating ids.
func newContextWithCounter(w io.Writer, counter *int64) *StdContext {
	return &StdContext{w: w, counter: counter}
}

func (c *StdContext) Output() io.Writer { return c.w }

func (c *StdContext) NextInstanceID() int64 { return atomic.AddInt64(c.counter, 1) }

// IsTrue implements spec.md §4.2's truthiness rule.
func IsTrue(h ObjectHolder) bool {
	if h.IsEmpty() {
		return false
	}
	switch v := h.Object().(type) {
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	case String:
		return v != ""
	default:
		return true
	}
}

// Equal implements spec.md §4.2's Equal rule.
func Equal(ctx Context, lhs, rhs ObjectHolder, line, col int) (bool, error) {
	if lv, ok := lhs.Object().(Number); ok {
		if rv, ok := rhs.Object().(Number); ok {
			return lv == rv, nil
		}
	}
	if lv, ok := lhs.Object().(String); ok {
		if rv, ok := rhs.Object().(String); ok {
			return lv == rv, nil
		}
	}
	if lv, ok := lhs.Object().(Bool); ok {
		if rv, ok := rhs.Object().(Bool); ok {
			return lv == rv, nil
		}
	}
	if lhs.IsEmpty() && rhs.IsEmpty() {
		return true, nil
	}
	if ci, ok := lhs.Object().(*ClassInstance); ok {
		if ci.Class.HasMethod(MethodEq, 1) {
			res, err := ci.Call(ctx, MethodEq, []ObjectHolder{rhs}, line, col)
			if err != nil {
				return false, err
			}
			return IsTrue(res.Value), nil
		}
	}
	return false, &TypeMismatch{Line: line, Col: col, Msg: "operands do not support equality"}
}

// Less implements spec.md §4.2's Less rule, symmetric to Equal.
func Less(ctx Context, lhs, rhs ObjectHolder, line, col int) (bool, error) {
	if lv, ok := lhs.Object().(Number); ok {
		if rv, ok := rhs.Object().(Number); ok {
			return lv < rv, nil
		}
	}
	if lv, ok := lhs.Object().(String); ok {
		if rv, ok := rhs.Object().(String); ok {
			return lv < rv, nil
		}
	}
	if lv, ok := lhs.Object().(Bool); ok {
		if rv, ok := rhs.Object().(Bool); ok {
			return !bool(lv) && bool(rv), nil
		}
	}
	if ci, ok := lhs.Object().(*ClassInstance); ok {
		if ci.Class.HasMethod(MethodLt, 1) {
			res, err := ci.Call(ctx, MethodLt, []ObjectHolder{rhs}, line, col)
			if err != nil {
				return false, err
			}
			return IsTrue(res.Value), nil
		}
	}
	return false, &TypeMismatch{Line: line, Col: col, Msg: "operands do not support ordering"}
}

// NotEqual, Greater, LessOrEqual and GreaterOrEqual are derived exactly as
// spec.md §4.2 defines them.

func NotEqual(ctx Context, lhs, rhs ObjectHolder, line, col int) (bool, error) {
	eq, err := Equal(ctx, lhs, rhs, line, col)
	return !eq, err
}

func Greater(ctx Context, lhs, rhs ObjectHolder, line, col int) (bool, error) {
	lt, err := Less(ctx, lhs, rhs, line, col)
	if err != nil {
		return false, err
	}
	eq, err := Equal(ctx, lhs, rhs, line, col)
	if err != nil {
		return false, err
	}
	return !lt && !eq, nil
}

func LessOrEqual(ctx Context, lhs, rhs ObjectHolder, line, col int) (bool, error) {
	lt, err := Less(ctx, lhs, rhs, line, col)
	if err != nil {
		return false, err
	}
	if lt {
		return true, nil
	}
	return Equal(ctx, lhs, rhs, line, col)
}

func GreaterOrEqual(ctx Context, lhs, rhs ObjectHolder, line, col int) (bool, error) {
	lt, err := Less(ctx, lhs, rhs, line, col)
	if err != nil {
		return false, err
	}
	return !lt, nil
}
