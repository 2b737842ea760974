// lexer.go — indentation-sensitive tokenizer (spec.md §4.1).
//
// The lexer tracks a current indent level and a "measure the next line's
// indentation" flag. Scan() drives the whole source to completion and
// returns the token slice (the teacher's lexer.go does the same — callers
// needing the single-lookahead contract of spec.md §6.1 use Current()/Next()
// as a cursor over that slice, via NewCursor).
package mython

import "strings"

const defaultIndentWidth = 2

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithIndentWidth overrides the default 2-space indent unit.
func WithIndentWidth(n int) Option {
	return func(l *Lexer) { l.indentWidth = n }
}

// Lexer scans Mython source into a token stream.
type Lexer struct {
	src []byte
	pos int
	line, col int

	indentWidth      int
	currentIndent    int
	firstMeasurement bool
	newlinePending   bool
	lineHasToken     bool
	pendingIndentOps int

	tokens []Token
}

// NewLexer creates a lexer over src. Indentation starts measuring from the
// very first line; no token is produced for it (spec.md §4.1 "Start of
// file").
func NewLexer(src string, opts ...Option) *Lexer {
	l := &Lexer{
		src:              []byte(src),
		line:             1,
		col:              1,
		indentWidth:      defaultIndentWidth,
		firstMeasurement: true,
		newlinePending:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Scan tokenizes the whole source and returns the resulting token slice,
// always terminated by exactly one Eof token.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) here() (int, int) { return l.line, l.col }

// countIndentSpaces consumes leading spaces, collapsing blank lines and
// comment-only lines (spec.md's "collapse blank and comment lines"), and
// returns the number of spaces immediately preceding the next real byte (or
// 0 if that byte is EOF).
func (l *Lexer) countIndentSpaces() int {
	spaces := 0
	for {
		if l.atEnd() {
			return 0
		}
		switch l.peek() {
		case ' ':
			spaces++
			l.advance()
		case '\n':
			spaces = 0
			l.advance()
		case '#':
			l.skipToEOL()
		default:
			return spaces
		}
	}
}

func (l *Lexer) skipToEOL() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) skipIntraLineSpaces() {
	for l.peek() == ' ' {
		l.advance()
	}
}

func (l *Lexer) simple(tt TokenType, line, col int) Token {
	return Token{Type: tt, Line: line, Col: col}
}

// nextToken produces the single next token, including any virtual
// Indent/Dedent that indentation bookkeeping requires before real content.
func (l *Lexer) nextToken() (Token, error) {
	if l.pendingIndentOps != 0 {
		line, col := l.here()
		if l.pendingIndentOps > 0 {
			l.pendingIndentOps--
			l.currentIndent++
			return l.simple(INDENT, line, col), nil
		}
		l.pendingIndentOps++
		l.currentIndent--
		return l.simple(DEDENT, line, col), nil
	}

	if l.newlinePending {
		spaces := l.countIndentSpaces()
		l.newlinePending = false
		if l.firstMeasurement {
			l.firstMeasurement = false
			l.currentIndent = spaces / l.indentWidth
		} else {
			lvl := spaces / l.indentWidth
			if delta := lvl - l.currentIndent; delta != 0 {
				l.pendingIndentOps = delta
				return l.nextToken()
			}
		}
	}

	if l.pendingIndentOps != 0 {
		return l.nextToken()
	}

	l.skipIntraLineSpaces()
	line, col := l.here()

	if l.atEnd() {
		if l.lineHasToken {
			l.lineHasToken = false
			return l.simple(NEWLINE, line, col), nil
		}
		return l.simple(EOF, line, col), nil
	}

	c := l.peek()
	switch {
	case isDigit(c):
		return l.lexNumber(line, col)
	case isAlpha(c):
		return l.lexIdentifier(line, col)
	case c == '\'' || c == '"':
		return l.lexString(line, col)
	case c == '#':
		l.skipToEOL()
		return l.nextToken()
	case c == '\n':
		l.advance()
		if l.lineHasToken {
			l.lineHasToken = false
			l.newlinePending = true
			return l.simple(NEWLINE, line, col), nil
		}
		l.newlinePending = true
		return l.nextToken()
	default:
		return l.lexOperatorOrChar(line, col)
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }

func (l *Lexer) lexNumber(line, col int) (Token, error) {
	var n int64
	for !l.atEnd() && isDigit(l.peek()) {
		n = n*10 + int64(l.advance()-'0')
	}
	l.lineHasToken = true
	return Token{Type: NUMBER, Number: n, Line: line, Col: col}, nil
}

func (l *Lexer) lexIdentifier(line, col int) (Token, error) {
	start := l.pos
	for !l.atEnd() && isAlphaNum(l.peek()) {
		l.advance()
	}
	id := string(l.src[start:l.pos])
	l.lineHasToken = true
	if tt, ok := keywords[id]; ok {
		return Token{Type: tt, Line: line, Col: col}, nil
	}
	return Token{Type: ID, Id: id, Line: line, Col: col}, nil
}

var stringEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'\'': '\'',
	'"':  '"',
	'\\': '\\',
}

func (l *Lexer) lexString(line, col int) (Token, error) {
	quote := l.advance()
	var sb strings.Builder
	for {
		if l.atEnd() {
			return Token{}, &LexError{Line: line, Col: col, Msg: "unterminated string literal"}
		}
		c := l.advance()
		if c == quote {
			break
		}
		if c == '\\' {
			if l.atEnd() {
				return Token{}, &LexError{Line: line, Col: col, Msg: "unterminated string literal"}
			}
			esc := l.advance()
			mapped, ok := stringEscapes[esc]
			if !ok {
				eline, ecol := l.here()
				return Token{}, &LexError{Line: eline, Col: ecol, Msg: "unknown escape sequence \\" + string(esc)}
			}
			sb.WriteByte(mapped)
			continue
		}
		sb.WriteByte(c)
	}
	l.lineHasToken = true
	return Token{Type: STRING, Str: sb.String(), Line: line, Col: col}, nil
}

func (l *Lexer) lexOperatorOrChar(line, col int) (Token, error) {
	two := string([]byte{l.peek(), l.peekAt(1)})
	if tt, ok := keywords[two]; ok {
		l.advance()
		l.advance()
		l.lineHasToken = true
		return Token{Type: tt, Line: line, Col: col}, nil
	}
	c := l.advance()
	l.lineHasToken = true
	return Token{Type: CHAR, Char: c, Line: line, Col: col}, nil
}

// Cursor is the single-lookahead current()/next() view over an already
// scanned token stream (spec.md §6.1's external interface contract).
type Cursor struct {
	tokens []Token
	idx    int
}

// NewCursor scans src fully, then returns a cursor positioned at the first
// token. The stream never starts with Indent or a leading Newline, and
// terminates with exactly one Eof, per spec.md §6.1.
func NewCursor(src string, opts ...Option) (*Cursor, error) {
	toks, err := NewLexer(src, opts...).Scan()
	if err != nil {
		return nil, err
	}
	return &Cursor{tokens: toks}, nil
}

// Current returns the most recently produced token.
func (c *Cursor) Current() Token { return c.tokens[c.idx] }

// Next advances the cursor and returns the new current token. Calling Next
// past Eof keeps returning Eof.
func (c *Cursor) Next() Token {
	if c.idx < len(c.tokens)-1 {
		c.idx++
	}
	return c.tokens[c.idx]
}
