// parser.go — recursive-descent parser, token stream → AST (spec.md §6.1,
// §6.2's external-collaborator contract; spec.md scopes the parser as
// "bounded by the token stream and AST shape" rather than prescribing an
// implementation). It panics on a malformed token stream and recovers at
// the Parse entry point, the same shape pontaoski/tawago's parser.go uses
// (LexExpecting-style panics wrapped with tracerr at the boundary).
package mython

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ztrue/tracerr"
)

// ParseError is raised for any token-stream shape the grammar does not
// accept. It is not one of spec.md §7's five runtime error kinds — it is a
// syntactic failure, reported before evaluation ever starts.
type ParseError struct {
	Line, Col int
	Msg       string
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg) }

func (e *ParseError) position() (int, int) { return e.Line, e.Col }

// IsIncomplete reports whether err is a ParseError caused by the token
// stream running out before a statement's grammar was satisfied — a
// `class`/`if`/`def` header with no block body yet, or any other construct
// still expecting more tokens once the lexer hit Eof. A REPL uses this to
// keep buffering lines with a continuation prompt instead of reporting a
// syntax error, the same role the teacher's IsIncomplete plays for
// ParseSExprInteractiveWithSpans (daios-ai/msg cmd/msg/main.go:
// readByParseProbe).
func IsIncomplete(err error) bool {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return false
	}
	return strings.HasSuffix(pe.Msg, "Eof")
}

type parser struct {
	cur *Cursor
}

// Parse scans src and parses it into a root Compound of top-level class
// definitions and statements (spec.md §6.2).
func Parse(src string, opts ...Option) (prog Stmt, err error) {
	cur, scanErr := NewCursor(src, opts...)
	if scanErr != nil {
		return nil, scanErr
	}
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = tracerr.Wrap(perr)
				return
			}
			panic(r)
		}
	}()
	p := &parser{cur: cur}
	return p.program(), nil
}

func (p *parser) tok() Token { return p.cur.Current() }

func (p *parser) advance() Token { return p.cur.Next() }

func (p *parser) fail(msg string) {
	t := p.tok()
	panic(&ParseError{Line: t.Line, Col: t.Col, Msg: msg})
}

func (p *parser) expect(tt TokenType) Token {
	t := p.tok()
	if t.Type != tt {
		p.fail(fmt.Sprintf("expected %s, got %s", tt, t.Type))
	}
	p.advance()
	return t
}

func (p *parser) expectChar(c byte) Token {
	t := p.tok()
	if t.Type != CHAR || t.Char != c {
		p.fail(fmt.Sprintf("expected %q, got %s", string(c), t.Type))
	}
	p.advance()
	return t
}

func (p *parser) isChar(c byte) bool {
	t := p.tok()
	return t.Type == CHAR && t.Char == c
}

// skipNewlines consumes zero or more Newline tokens (blank top-of-block
// lines are already collapsed by the lexer, but a block can still be
// followed by a bare Newline before Dedent in some grammars).
func (p *parser) skipNewlines() {
	for p.tok().Type == NEWLINE {
		p.advance()
	}
}

// program parses a sequence of top-level statements until Eof.
func (p *parser) program() Stmt {
	var stmts []Stmt
	p.skipNewlines()
	for p.tok().Type != EOF {
		stmts = append(stmts, p.statement())
		p.skipNewlines()
	}
	return &Compound{Stmts: stmts}
}

// block parses `Newline Indent stmt+ Dedent` (spec.md §6.1).
func (p *parser) block() Stmt {
	p.expect(NEWLINE)
	p.expect(INDENT)
	var stmts []Stmt
	for p.tok().Type != DEDENT {
		stmts = append(stmts, p.statement())
		p.skipNewlines()
	}
	p.expect(DEDENT)
	return &Compound{Stmts: stmts}
}

func (p *parser) statement() Stmt {
	switch p.tok().Type {
	case CLASS:
		return p.classDef()
	case IF:
		return p.ifElse()
	case PRINT:
		return p.printStmt()
	case RETURN:
		return p.returnStmt()
	default:
		return p.simpleStatement()
	}
}

// classDef parses `class Name ['(' Parent ')'] ':' block`, collecting
// `def` methods from the class body (spec.md §3.3's ClassDefinition,
// grounded on spec.md §8 scenario 6's inheritance syntax).
func (p *parser) classDef() Stmt {
	t0 := p.tok()
	p.expect(CLASS)
	name := p.expect(ID).Id
	var parentName string
	hasParent := false
	if p.isChar('(') {
		p.advance()
		parentName = p.expect(ID).Id
		hasParent = true
		p.expectChar(')')
	}
	p.expectChar(':')
	p.expect(NEWLINE)
	p.expect(INDENT)
	var methods []*Method
	for p.tok().Type != DEDENT {
		if p.tok().Type == NEWLINE {
			p.advance()
			continue
		}
		methods = append(methods, p.methodDef())
	}
	p.expect(DEDENT)

	cls := &Class{Name: name, Methods: methods}
	node := &ClassDefinition{Cls: cls}
	if hasParent {
		return &resolvingClassDef{def: node, parentName: parentName, line: t0.Line, col: t0.Col}
	}
	return node
}

// resolvingClassDef defers parent-class resolution to execution time: the
// parser sees only names, and a class may subclass something defined
// earlier in the same Closure (spec.md §4.3's ClassDefinition binds by
// name; the parent lookup happens against the Closure in scope).
type resolvingClassDef struct {
	def        *ClassDefinition
	parentName string
	line, col  int
}

func (r *resolvingClassDef) Execute(closure Closure, ctx Context) (ExecResult, error) {
	h, ok := closure.Lookup(r.parentName)
	if !ok {
		return ExecResult{}, &NameError{Line: r.line, Col: r.col, Name: r.parentName}
	}
	parent, ok := h.Object().(*Class)
	if !ok {
		return ExecResult{}, &NameError{Line: r.line, Col: r.col, Name: r.parentName}
	}
	r.def.Cls.Parent = parent
	return r.def.Execute(closure, ctx)
}

// methodDef parses `def name '(' params ')' ':' block` and wraps the body
// in a MethodBody so Return terminates at the call boundary.
func (p *parser) methodDef() *Method {
	p.expect(DEF)
	name := p.expect(ID).Id
	p.expectChar('(')
	var params []string
	if !p.isChar(')') {
		params = append(params, p.expect(ID).Id)
		for p.isChar(',') {
			p.advance()
			params = append(params, p.expect(ID).Id)
		}
	}
	p.expectChar(')')
	p.expectChar(':')
	body := p.block()
	// The leading "self" is a syntactic convention, not a formal parameter:
	// ClassInstance.Call (class.go) binds self to a Share view separately
	// and zips the remaining names against the caller's actual_args, which
	// never include a receiver. Storing "self" in Params would shift every
	// positional binding by one and make the arity check always fail.
	if len(params) == 0 || params[0] != "self" {
		p.fail("method " + name + " must declare self as its first parameter")
	}
	params = params[1:]
	return &Method{Name: name, Params: params, Body: &MethodBody{Stmt: body}}
}

func (p *parser) ifElse() Stmt {
	p.expect(IF)
	cond := p.expr()
	p.expectChar(':')
	ifBody := p.block()
	node := &IfElse{Cond: cond, IfBody: ifBody}
	if p.tok().Type == ELSE {
		p.advance()
		p.expectChar(':')
		node.ElseBody = p.block()
	}
	return node
}

func (p *parser) printStmt() Stmt {
	p.expect(PRINT)
	var args []Stmt
	if p.tok().Type != NEWLINE && p.tok().Type != EOF {
		args = append(args, p.expr())
		for p.isChar(',') {
			p.advance()
			args = append(args, p.expr())
		}
	}
	p.endOfStmt()
	return &Print{Args: args}
}

func (p *parser) returnStmt() Stmt {
	p.expect(RETURN)
	var arg Stmt
	if p.tok().Type != NEWLINE && p.tok().Type != EOF && p.tok().Type != DEDENT {
		arg = p.expr()
	}
	p.endOfStmt()
	return &Return{Stmt: arg}
}

// endOfStmt accepts a Newline, Eof, or a lookahead Dedent (the last
// statement of a block before its closing Dedent).
func (p *parser) endOfStmt() {
	switch p.tok().Type {
	case NEWLINE:
		p.advance()
	case EOF, DEDENT:
		// nothing to consume
	default:
		p.fail("expected end of statement")
	}
}

// simpleStatement covers assignment, field assignment, and bare
// expression statements (a method call used for its side effect).
func (p *parser) simpleStatement() Stmt {
	start := p.tok()
	if start.Type != ID || start.Id == "str" {
		expr := p.expr()
		p.endOfStmt()
		return expr
	}

	ids := []string{p.expect(ID).Id}
	for p.isChar('.') {
		p.advance()
		ids = append(ids, p.expect(ID).Id)
	}

	if p.isChar('(') {
		call := p.callTail(ids, start.Line, start.Col)
		p.endOfStmt()
		return call
	}

	if p.isChar('=') {
		p.advance()
		rhs := p.expr()
		p.endOfStmt()
		if len(ids) == 1 {
			return &Assignment{Name: ids[0], Rhs: rhs}
		}
		return &FieldAssignment{
			ObjectExpr: &VariableValue{Ids: ids[:len(ids)-1], Line: start.Line, Col: start.Col},
			Field:      ids[len(ids)-1],
			Rhs:        rhs,
			Line:       start.Line, Col: start.Col,
		}
	}

	p.endOfStmt()
	return &VariableValue{Ids: ids, Line: start.Line, Col: start.Col}
}

// callTail parses a trailing `( args )` onto a dotted-id chain. A
// single-segment chain is class instantiation (spec.md's NewInstance); a
// multi-segment chain is a method call on the receiver formed by all but
// the last segment (spec.md's MethodCall).
func (p *parser) callTail(ids []string, line, col int) Stmt {
	args := p.argList()
	if len(ids) == 1 {
		return &NewInstance{ClassExpr: &VariableValue{Ids: ids, Line: line, Col: col}, Args: args, Line: line, Col: col}
	}
	return &MethodCall{
		Receiver: &VariableValue{Ids: ids[:len(ids)-1], Line: line, Col: col},
		Method:   ids[len(ids)-1],
		Args:     args,
		Line:     line, Col: col,
	}
}

func (p *parser) argList() []Stmt {
	p.expectChar('(')
	var args []Stmt
	if !p.isChar(')') {
		args = append(args, p.expr())
		for p.isChar(',') {
			p.advance()
			args = append(args, p.expr())
		}
	}
	p.expectChar(')')
	return args
}

// ---- expression grammar (lowest to highest precedence) ----
//
//	expr       := orExpr
//	orExpr     := andExpr   ( 'or'  andExpr )*
//	andExpr    := notExpr   ( 'and' notExpr )*
//	notExpr    := 'not' notExpr | comparison
//	comparison := additive  ( cmpOp additive )?
//	additive   := term      ( ('+'|'-') term )*
//	term       := unary     ( ('*'|'/') unary )*
//	unary      := '-' unary | postfix
//	postfix    := primary ( '.' Id ['(' args ')'] | '(' args ')' )*

func (p *parser) expr() Stmt { return p.orExpr() }

func (p *parser) orExpr() Stmt {
	lhs := p.andExpr()
	for p.tok().Type == OR {
		p.advance()
		lhs = &Or{Lhs: lhs, Rhs: p.andExpr()}
	}
	return lhs
}

func (p *parser) andExpr() Stmt {
	lhs := p.notExpr()
	for p.tok().Type == AND {
		p.advance()
		lhs = &And{Lhs: lhs, Rhs: p.notExpr()}
	}
	return lhs
}

func (p *parser) notExpr() Stmt {
	if p.tok().Type == NOT {
		p.advance()
		return &Not{Arg: p.notExpr()}
	}
	return p.comparison()
}

func (p *parser) comparison() Stmt {
	lhs := p.additive()
	line, col := p.tok().Line, p.tok().Col
	op, ok := p.cmpOp()
	if !ok {
		return lhs
	}
	p.advance()
	rhs := p.additive()
	return &Comparison{Op: op, Lhs: lhs, Rhs: rhs, Line: line, Col: col}
}

func (p *parser) cmpOp() (CmpOp, bool) {
	switch p.tok().Type {
	case EQ:
		return CmpEq, true
	case NOTEQ:
		return CmpNotEq, true
	case LESSOREQ:
		return CmpLessOrEq, true
	case GREATEROREQ:
		return CmpGreaterOrEq, true
	case CHAR:
		switch p.tok().Char {
		case '<':
			return CmpLess, true
		case '>':
			return CmpGreater, true
		}
	}
	return 0, false
}

func (p *parser) additive() Stmt {
	lhs := p.term()
	for p.isChar('+') || p.isChar('-') {
		op := OpAdd
		if p.tok().Char == '-' {
			op = OpSub
		}
		line, col := p.tok().Line, p.tok().Col
		p.advance()
		lhs = &Arith{Op: op, Lhs: lhs, Rhs: p.term(), Line: line, Col: col}
	}
	return lhs
}

func (p *parser) term() Stmt {
	lhs := p.unary()
	for p.isChar('*') || p.isChar('/') {
		op := OpMult
		if p.tok().Char == '/' {
			op = OpDiv
		}
		line, col := p.tok().Line, p.tok().Col
		p.advance()
		lhs = &Arith{Op: op, Lhs: lhs, Rhs: p.unary(), Line: line, Col: col}
	}
	return lhs
}

func (p *parser) unary() Stmt {
	if p.isChar('-') {
		line, col := p.tok().Line, p.tok().Col
		p.advance()
		return &Arith{Op: OpSub, Lhs: &Literal{Value: Own(Number(0))}, Rhs: p.unary(), Line: line, Col: col}
	}
	return p.postfix()
}

func (p *parser) postfix() Stmt {
	expr := p.primary()
	for {
		switch {
		case p.isChar('.'):
			line, col := p.tok().Line, p.tok().Col
			p.advance()
			field := p.expect(ID).Id
			if p.isChar('(') {
				args := p.argList()
				expr = &MethodCall{Receiver: expr, Method: field, Args: args, Line: line, Col: col}
				continue
			}
			expr = &fieldRead{Receiver: expr, Field: field, Line: line, Col: col}
		case p.isChar('('):
			line, col := p.tok().Line, p.tok().Col
			args := p.argList()
			expr = &NewInstance{ClassExpr: expr, Args: args, Line: line, Col: col}
		default:
			return expr
		}
	}
}

// fieldRead is the postfix-expression form of a dotted field read, used
// when the receiver is itself a compound expression (e.g. a call result)
// rather than a bare identifier chain VariableValue already covers.
type fieldRead struct {
	Receiver  Stmt
	Field     string
	Line, Col int
}

func (f *fieldRead) Execute(closure Closure, ctx Context) (ExecResult, error) {
	res, err := f.Receiver.Execute(closure, ctx)
	if err != nil {
		return ExecResult{}, err
	}
	ci, ok := res.Value.Object().(*ClassInstance)
	if !ok {
		return ExecResult{}, &NameError{Line: f.Line, Col: f.Col, Name: f.Field}
	}
	h, ok := ci.Fields.Lookup(f.Field)
	if !ok {
		return ExecResult{}, &NameError{Line: f.Line, Col: f.Col, Name: f.Field}
	}
	return value(h), nil
}

func (p *parser) primary() Stmt {
	t := p.tok()
	switch t.Type {
	case NUMBER:
		p.advance()
		return &Literal{Value: Own(Number(t.Number))}
	case STRING:
		p.advance()
		return &Literal{Value: Own(String(t.Str))}
	case TRUE:
		p.advance()
		return &Literal{Value: Own(Bool(true))}
	case FALSE:
		p.advance()
		return &Literal{Value: Own(Bool(false))}
	case NONE:
		p.advance()
		return &Literal{Value: None()}
	case ID:
		if t.Id == "str" {
			line, col := t.Line, t.Col
			p.advance()
			if p.isChar('(') {
				p.advance()
				arg := p.expr()
				p.expectChar(')')
				return &Stringify{Arg: arg}
			}
			// "str" used as a plain identifier, not the builtin conversion.
			return &VariableValue{Ids: []string{"str"}, Line: line, Col: col}
		}
		ids := []string{t.Id}
		line, col := t.Line, t.Col
		p.advance()
		for p.isChar('.') {
			p.advance()
			ids = append(ids, p.expect(ID).Id)
		}
		if len(ids) > 1 && p.isChar('(') {
			return p.callTail(ids, line, col)
		}
		return &VariableValue{Ids: ids, Line: line, Col: col}
	case CHAR:
		if t.Char == '(' {
			p.advance()
			inner := p.expr()
			p.expectChar(')')
			return inner
		}
	}
	p.fail(fmt.Sprintf("unexpected token %s", t.Type))
	return nil
}

// Literal is a constant expression (spec.md's Number/String/Bool/None
// literals are folded into the AST at parse time rather than given their
// own runtime node, since they carry no evaluation behavior beyond
// yielding their fixed value).
type Literal struct {
	Value ObjectHolder
}

func (l *Literal) Execute(Closure, Context) (ExecResult, error) {
	return value(l.Value), nil
}
