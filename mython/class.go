// class.go — Class, Method and ClassInstance (spec.md §3.2, §4.2).
package mython

import "fmt"

// Special method names the evaluator invokes implicitly (GLOSSARY).
const (
	MethodInit = "__init__"
	MethodStr  = "__str__"
	MethodEq   = "__eq__"
	MethodLt   = "__lt__"
	MethodAdd  = "__add__"
)

// Method is a named, ordered-parameter, owned-body callable (spec.md §3.2).
type Method struct {
	Name   string
	Params []string
	Body   Stmt
}

// Class is named, with its own methods in declaration order and an
// optional parent class (spec.md §3.2). Parent is a non-owning reference:
// the evaluator keeps every Class reachable from the program's top-level
// closure so parents always outlive their children.
type Class struct {
	Name    string
	Methods []*Method
	Parent  *Class
}

func (*Class) objectKind() string { return "Class" }

// GetMethod searches the class's own methods in declaration order, falling
// through to the parent chain (spec.md §4.2). Returns nil if absent.
func (c *Class) GetMethod(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	if c.Parent != nil {
		return c.Parent.GetMethod(name)
	}
	return nil
}

// HasMethod reports whether name resolves to a method of the given arity.
func (c *Class) HasMethod(name string, arity int) bool {
	m := c.GetMethod(name)
	return m != nil && len(m.Params) == arity
}

// ClassInstance holds a non-owning reference to its Class and an owned
// Closure of fields (spec.md §3.2).
type ClassInstance struct {
	Class  *Class
	Fields Closure
	id     int64
}

func (*ClassInstance) objectKind() string { return "ClassInstance" }

// NewClassInstance allocates a fresh instance with an empty field closure,
// stamped with id (spec.md §4.2, §9's "stable placeholder"). id comes from
// the running Context rather than a package-level counter: a package global
// would carry instance numbering across unrelated Interpreters/Run calls in
// the same process, so the very same program re-run against a fresh Closure
// could print a different placeholder each time — a determinism violation
// (spec.md §8 invariant 2), the same class of bug spec.md §9 flags for the
// lexer's indent counter. Scoping id to the calling Context's counter
// (Interpreter.Eval shares one counter across repeated calls on the same
// session; a fresh Interpreter/Run starts back at 1) keeps both properties:
// stable, increasing ids within one REPL session, and determinism across
// separate runs.
func NewClassInstance(cls *Class, id int64) *ClassInstance {
	return &ClassInstance{
		Class:  cls,
		Fields: Closure{},
		id:     id,
	}
}

// placeholder is the stable textual stand-in used when an instance defines
// no __str__ (spec.md §4.2).
func (ci *ClassInstance) placeholder() string {
	return fmt.Sprintf("%s instance #%d", ci.Class.Name, ci.id)
}

// Call dispatches method on ci with actual_args (spec.md §4.2). It builds a
// fresh Closure, binds self to a Share view of ci, then binds each formal
// parameter positionally, and executes the method body.
func (ci *ClassInstance) Call(ctx Context, name string, args []ObjectHolder, line, col int) (ExecResult, error) {
	m := ci.Class.GetMethod(name)
	if m == nil || len(m.Params) != len(args) {
		return ExecResult{}, &NotImplementedError{Line: line, Col: col, Msg: fmt.Sprintf("%s.%s/%d", ci.Class.Name, name, len(args))}
	}
	closure := Closure{"self": Share(ci)}
	for i, p := range m.Params {
		closure[p] = args[i]
	}
	return m.Body.Execute(closure, ctx)
}
