// ast.go — AST node variants and the tree-walking evaluator (spec.md §3.3, §4.3).
//
// Every node is a concrete Go type implementing Stmt, a single-method
// interface: evaluation dispatches dynamically through Execute, and the
// compiler does not check that every node kind is handled anywhere. Return
// propagation threads explicitly through ExecResult rather than repurposing
// "non-empty holder from IfElse" as the reference source does.
package mython

import "strconv"

// ExecResult is what every node's Execute returns: a Value (possibly
// empty), and a flag marking whether that value is an in-flight Return
// that must bubble past enclosing Compound/IfElse nodes up to the nearest
// MethodBody (spec.md §9's recommended redesign of the reference source's
// implicit-return trick).
type ExecResult struct {
	Value    ObjectHolder
	IsReturn bool
}

// value wraps h as a plain (non-return) result.
func value(h ObjectHolder) ExecResult { return ExecResult{Value: h} }

// noValue is the empty, non-return result.
func noValue() ExecResult { return ExecResult{} }

// ret wraps h as an in-flight return.
func ret(h ObjectHolder) ExecResult { return ExecResult{Value: h, IsReturn: true} }

// Stmt is the single operation every statement and expression node
// implements (spec.md §3.3, §6.2).
type Stmt interface {
	Execute(closure Closure, ctx Context) (ExecResult, error)
}

// ---- Assignment ------------------------------------------------------

// Assignment binds Name in the current Closure to the evaluated Rhs.
type Assignment struct {
	Name string
	Rhs  Stmt
}

func (a *Assignment) Execute(closure Closure, ctx Context) (ExecResult, error) {
	res, err := a.Rhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	closure[a.Name] = res.Value
	return noValue(), nil
}

// ---- VariableValue -----------------------------------------------------

// VariableValue reads a dotted chain `a.b.c…` (spec.md §4.3).
type VariableValue struct {
	Ids       []string
	Line, Col int
}

func (v *VariableValue) Execute(closure Closure, ctx Context) (ExecResult, error) {
	h, ok := closure.Lookup(v.Ids[0])
	if !ok {
		return ExecResult{}, &NameError{Line: v.Line, Col: v.Col, Name: v.Ids[0]}
	}
	for _, field := range v.Ids[1:] {
		ci, ok := h.Object().(*ClassInstance)
		if !ok {
			return ExecResult{}, &NameError{Line: v.Line, Col: v.Col, Name: field}
		}
		h, ok = ci.Fields.Lookup(field)
		if !ok {
			return ExecResult{}, &NameError{Line: v.Line, Col: v.Col, Name: field}
		}
	}
	return value(h), nil
}

// ---- Print -------------------------------------------------------------

// Print emits Args to ctx's output stream, space-separated, with a
// trailing newline (spec.md §4.3). An empty argument prints as "None".
type Print struct {
	Args []Stmt
}

func (p *Print) Execute(closure Closure, ctx Context) (ExecResult, error) {
	w := ctx.Output()
	for i, arg := range p.Args {
		if i > 0 {
			if _, err := w.Write([]byte(" ")); err != nil {
				return ExecResult{}, err
			}
		}
		res, err := arg.Execute(closure, ctx)
		if err != nil {
			return ExecResult{}, err
		}
		if err := PrintObject(ctx, w, res.Value); err != nil {
			return ExecResult{}, err
		}
	}
	_, err := w.Write([]byte("\n"))
	return noValue(), err
}

// ---- MethodCall ----------------------------------------------------------

// MethodCall dispatches Method on the evaluated Receiver with the
// evaluated Args (spec.md §4.3).
type MethodCall struct {
	Receiver  Stmt
	Method    string
	Args      []Stmt
	Line, Col int
}

func (m *MethodCall) Execute(closure Closure, ctx Context) (ExecResult, error) {
	recv, err := m.Receiver.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	ci, ok := recv.Value.Object().(*ClassInstance)
	if !ok {
		return ExecResult{}, &NotImplementedError{Line: m.Line, Col: m.Col, Msg: m.Method + ": receiver is not a class instance"}
	}
	args := make([]ObjectHolder, len(m.Args))
	for i, a := range m.Args {
		res, err := a.Execute(closure, ctx)
		if err != nil {
			return ExecResult{}, err
		}
		args[i] = res.Value
	}
	return ci.Call(ctx, m.Method, args, m.Line, m.Col)
}

// ---- Stringify -----------------------------------------------------------

// Stringify returns a String Object holding Arg's Print-style rendering
// (spec.md §3.3).
type Stringify struct {
	Arg Stmt
}

func (s *Stringify) Execute(closure Closure, ctx Context) (ExecResult, error) {
	res, err := s.Arg.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	text, err := RenderString(ctx, res.Value)
	if err != nil {
		return ExecResult{}, err
	}
	return value(Own(String(text))), nil
}

// ---- Arithmetic ------------------------------------------------------

// ArithOp names an Add/Sub/Mult/Div operator (spec.md §3.3, §4.3).
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMult
	OpDiv
)

// Arith is the shared node for Add/Sub/Mult/Div.
type Arith struct {
	Op        ArithOp
	Lhs, Rhs  Stmt
	Line, Col int
}

func (a *Arith) Execute(closure Closure, ctx Context) (ExecResult, error) {
	lres, err := a.Lhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	rres, err := a.Rhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	lhs, rhs := lres.Value, rres.Value

	if a.Op == OpAdd {
		if lv, ok := lhs.Object().(Number); ok {
			if rv, ok := rhs.Object().(Number); ok {
				return value(Own(lv + rv)), nil
			}
		}
		if lv, ok := lhs.Object().(String); ok {
			if rv, ok := rhs.Object().(String); ok {
				return value(Own(lv + rv)), nil
			}
		}
		if ci, ok := lhs.Object().(*ClassInstance); ok {
			if ci.Class.HasMethod(MethodAdd, 1) {
				res, err := ci.Call(ctx, MethodAdd, []ObjectHolder{rhs}, a.Line, a.Col)
				if err != nil {
					return ExecResult{}, err
				}
				return value(res.Value), nil
			}
		}
		return ExecResult{}, &TypeMismatch{Line: a.Line, Col: a.Col, Msg: "unsupported operand types for +"}
	}

	lv, lok := lhs.Object().(Number)
	rv, rok := rhs.Object().(Number)
	if !lok || !rok {
		return ExecResult{}, &TypeMismatch{Line: a.Line, Col: a.Col, Msg: "unsupported operand types for arithmetic"}
	}
	switch a.Op {
	case OpSub:
		return value(Own(lv - rv)), nil
	case OpMult:
		return value(Own(lv * rv)), nil
	case OpDiv:
		if rv == 0 {
			return ExecResult{}, &ZeroDivisionError{Line: a.Line, Col: a.Col}
		}
		return value(Own(lv / rv)), nil
	}
	panic("unreachable arithmetic op")
}

// ---- Compound ----------------------------------------------------------

// Compound executes Stmts in order, propagating the first in-flight
// return (spec.md §4.3).
type Compound struct {
	Stmts []Stmt
}

func (c *Compound) Execute(closure Closure, ctx Context) (ExecResult, error) {
	for _, s := range c.Stmts {
		res, err := s.Execute(closure, ctx)
		if err != nil {
			return ExecResult{}, err
		}
		if res.IsReturn {
			return res, nil
		}
	}
	return noValue(), nil
}

// ---- Return --------------------------------------------------------------

// Return delivers Stmt's value to the nearest enclosing MethodBody.
type Return struct {
	Stmt Stmt
}

func (r *Return) Execute(closure Closure, ctx Context) (ExecResult, error) {
	if r.Stmt == nil {
		return ret(None()), nil
	}
	res, err := r.Stmt.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	return ret(res.Value), nil
}

// ---- ClassDefinition -----------------------------------------------------

// ClassDefinition binds Cls by name in the current Closure.
type ClassDefinition struct {
	Cls *Class
}

func (c *ClassDefinition) Execute(closure Closure, ctx Context) (ExecResult, error) {
	closure[c.Cls.Name] = Own(c.Cls)
	return noValue(), nil
}

// ---- FieldAssignment -----------------------------------------------------

// FieldAssignment sets Field on the ClassInstance that ObjectExpr evaluates
// to (spec.md §3.3).
type FieldAssignment struct {
	ObjectExpr Stmt
	Field      string
	Rhs        Stmt
	Line, Col  int
}

func (f *FieldAssignment) Execute(closure Closure, ctx Context) (ExecResult, error) {
	ores, err := f.ObjectExpr.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	ci, ok := ores.Value.Object().(*ClassInstance)
	if !ok {
		return ExecResult{}, &NameError{Line: f.Line, Col: f.Col, Name: f.Field}
	}
	rres, err := f.Rhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	ci.Fields[f.Field] = rres.Value
	return noValue(), nil
}

// ---- IfElse --------------------------------------------------------------

// IfElse branches on Cond's truthiness (spec.md §4.3). ElseBody may be nil.
type IfElse struct {
	Cond     Stmt
	IfBody   Stmt
	ElseBody Stmt
}

func (i *IfElse) Execute(closure Closure, ctx Context) (ExecResult, error) {
	cres, err := i.Cond.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	if IsTrue(cres.Value) {
		return i.IfBody.Execute(closure, ctx)
	}
	if i.ElseBody != nil {
		return i.ElseBody.Execute(closure, ctx)
	}
	return noValue(), nil
}

// ---- Or / And / Not --------------------------------------------------

// Or short-circuits: true as soon as Lhs is truthy, without evaluating Rhs
// (spec.md §4.3, invariant tested by spec.md §8 scenario 8).
type Or struct{ Lhs, Rhs Stmt }

func (o *Or) Execute(closure Closure, ctx Context) (ExecResult, error) {
	lres, err := o.Lhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	if IsTrue(lres.Value) {
		return value(Own(Bool(true))), nil
	}
	rres, err := o.Rhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	return value(Own(Bool(IsTrue(rres.Value)))), nil
}

// And requires both operands to be truthy, short-circuiting on Lhs.
type And struct{ Lhs, Rhs Stmt }

func (a *And) Execute(closure Closure, ctx Context) (ExecResult, error) {
	lres, err := a.Lhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	if !IsTrue(lres.Value) {
		return value(Own(Bool(false))), nil
	}
	rres, err := a.Rhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	return value(Own(Bool(IsTrue(rres.Value)))), nil
}

// Not negates Arg's truthiness.
type Not struct{ Arg Stmt }

func (n *Not) Execute(closure Closure, ctx Context) (ExecResult, error) {
	res, err := n.Arg.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	return value(Own(Bool(!IsTrue(res.Value)))), nil
}

// ---- Comparison ------------------------------------------------------

// CmpOp names one of the six comparison operators (spec.md §3.3).
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNotEq
	CmpLess
	CmpGreater
	CmpLessOrEq
	CmpGreaterOrEq
)

// Comparison wraps one of Equal/Less/… (spec.md §4.2).
type Comparison struct {
	Op        CmpOp
	Lhs, Rhs  Stmt
	Line, Col int
}

func (c *Comparison) Execute(closure Closure, ctx Context) (ExecResult, error) {
	lres, err := c.Lhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	rres, err := c.Rhs.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	var b bool
	switch c.Op {
	case CmpEq:
		b, err = Equal(ctx, lres.Value, rres.Value, c.Line, c.Col)
	case CmpNotEq:
		b, err = NotEqual(ctx, lres.Value, rres.Value, c.Line, c.Col)
	case CmpLess:
		b, err = Less(ctx, lres.Value, rres.Value, c.Line, c.Col)
	case CmpGreater:
		b, err = Greater(ctx, lres.Value, rres.Value, c.Line, c.Col)
	case CmpLessOrEq:
		b, err = LessOrEqual(ctx, lres.Value, rres.Value, c.Line, c.Col)
	case CmpGreaterOrEq:
		b, err = GreaterOrEqual(ctx, lres.Value, rres.Value, c.Line, c.Col)
	}
	if err != nil {
		return ExecResult{}, err
	}
	return value(Own(Bool(b))), nil
}

// ---- NewInstance -----------------------------------------------------

// NewInstance allocates a ClassInstance of Cls and, if __init__ is
// declared, invokes it with Args (spec.md §4.3).
type NewInstance struct {
	ClassExpr Stmt
	Args      []Stmt
	Line, Col int
}

func (n *NewInstance) Execute(closure Closure, ctx Context) (ExecResult, error) {
	cres, err := n.ClassExpr.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	cls, ok := cres.Value.Object().(*Class)
	if !ok {
		return ExecResult{}, &NameError{Line: n.Line, Col: n.Col, Name: "new instance: not a class"}
	}
	inst := NewClassInstance(cls, ctx.NextInstanceID())
	h := Own(inst)
	args := make([]ObjectHolder, len(n.Args))
	for i, a := range n.Args {
		res, err := a.Execute(closure, ctx)
		if err != nil {
			return ExecResult{}, err
		}
		args[i] = res.Value
	}
	if cls.GetMethod(MethodInit) != nil {
		if _, err := inst.Call(ctx, MethodInit, args, n.Line, n.Col); err != nil {
			return ExecResult{}, err
		}
	} else if len(args) != 0 {
		return ExecResult{}, &NotImplementedError{Line: n.Line, Col: n.Col, Msg: cls.Name + ".__init__/" + strconv.Itoa(len(args))}
	}
	return value(h), nil
}

// ---- MethodBody ------------------------------------------------------

// MethodBody wraps a method body so a Return inside it terminates at the
// call boundary rather than bubbling further (spec.md §3.3). Call's
// result is Stmt's ExecResult with IsReturn cleared, since by construction
// nothing above a method body should see it as a return-in-flight.
type MethodBody struct {
	Stmt Stmt
}

func (m *MethodBody) Execute(closure Closure, ctx Context) (ExecResult, error) {
	res, err := m.Stmt.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	return value(res.Value), nil
}
