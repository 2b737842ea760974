// lexer_test.go
package mython

import (
	"reflect"
	"testing"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return toks
}

func types(toks []Token) []TokenType {
	out := make([]TokenType, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tk.Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := scanAll(t, src)
	if !reflect.DeepEqual(types(got), want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, types(got))
	}
	return got
}

// spec.md §8 scenario 1: Indent/dedent balance.
func TestLexer_IndentDedentBalance(t *testing.T) {
	src := "if x:\n  print 1\nprint 2\n"
	wantTypes(t, src, []TokenType{
		IF, ID, CHAR, NEWLINE,
		INDENT, PRINT, NUMBER, NEWLINE,
		DEDENT, PRINT, NUMBER, NEWLINE,
		EOF,
	})
}

// spec.md §8 scenario 2: comment and blank-line collapsing.
func TestLexer_CommentAndBlankLineCollapsing(t *testing.T) {
	src := "\n# hi\nx = 1\n\n\n"
	wantTypes(t, src, []TokenType{
		ID, CHAR, NUMBER, NEWLINE, EOF,
	})
}

func TestLexer_NestedIndentProducesMultipleTokens(t *testing.T) {
	src := "if a:\n  if b:\n    print 1\nprint 2\n"
	wantTypes(t, src, []TokenType{
		IF, ID, CHAR, NEWLINE,
		INDENT, IF, ID, CHAR, NEWLINE,
		INDENT, PRINT, NUMBER, NEWLINE,
		DEDENT, DEDENT, PRINT, NUMBER, NEWLINE,
		EOF,
	})
}

func TestLexer_BlankIndentedLineDoesNotChangeLevel(t *testing.T) {
	src := "if a:\n  print 1\n   \n  print 2\n"
	wantTypes(t, src, []TokenType{
		IF, ID, CHAR, NEWLINE,
		INDENT, PRINT, NUMBER, NEWLINE, PRINT, NUMBER, NEWLINE,
		DEDENT,
		EOF,
	})
}

func TestLexer_KeywordsAndTwoCharOperators(t *testing.T) {
	src := "a == b != c <= d >= e and f or g not h"
	wantTypes(t, src, []TokenType{
		ID, EQ, ID, NOTEQ, ID, LESSOREQ, ID, GREATEROREQ, ID,
		AND, ID, OR, ID, NOT, ID, NEWLINE, EOF,
	})
}

func TestLexer_StringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tc\'d\"e"`+"\n")
	if toks[0].Type != STRING {
		t.Fatalf("want STRING, got %s", toks[0].Type)
	}
	want := "a\nb\tc'd\"e"
	if toks[0].Str != want {
		t.Fatalf("want %q, got %q", want, toks[0].Str)
	}
}

func TestLexer_UnterminatedStringIsLexError(t *testing.T) {
	_, err := NewLexer(`"abc`).Scan()
	if err == nil {
		t.Fatal("expected LexError, got nil")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("want *LexError, got %T", err)
	}
}

func TestLexer_UnknownEscapeIsLexError(t *testing.T) {
	_, err := NewLexer(`"a\zb"` + "\n").Scan()
	if err == nil {
		t.Fatal("expected LexError, got nil")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("want *LexError, got %T", err)
	}
}

func TestLexer_NumberAndIdentifier(t *testing.T) {
	toks := scanAll(t, "x1 42\n")
	if toks[0].Type != ID || toks[0].Id != "x1" {
		t.Fatalf("want Id(x1), got %v", toks[0])
	}
	if toks[1].Type != NUMBER || toks[1].Number != 42 {
		t.Fatalf("want Number(42), got %v", toks[1])
	}
}

// WithIndentWidth lets a caller use a non-default indent unit (SPEC_FULL.md
// §1.2); a 4-space file lexed with the default 2-space width would split
// each indent level into two synthetic Indent tokens, so this pins the
// option actually changing Scan's output.
func TestLexer_WithIndentWidth(t *testing.T) {
	src := "if a:\n    print 1\n"
	toks, err := NewLexer(src, WithIndentWidth(4)).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	want := []TokenType{IF, ID, CHAR, NEWLINE, INDENT, PRINT, NUMBER, NEWLINE, DEDENT, EOF}
	if !reflect.DeepEqual(types(toks), want) {
		t.Fatalf("got %v, want %v", types(toks), want)
	}

	// The same source lexed with the default 2-space width treats the
	// 4-space line as two indent levels deep instead of one.
	toks2, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	want2 := []TokenType{IF, ID, CHAR, NEWLINE, INDENT, INDENT, PRINT, NUMBER, NEWLINE, DEDENT, DEDENT, EOF}
	if !reflect.DeepEqual(types(toks2), want2) {
		t.Fatalf("got %v, want %v", types(toks2), want2)
	}
}

func TestLexer_LeadingIndentAtStartOfFileEmitsNoIndent(t *testing.T) {
	src := "  print 1\n"
	toks := scanAll(t, src)
	if toks[0].Type == INDENT {
		t.Fatalf("unexpected leading Indent: %v", types(toks))
	}
}

func TestToken_Equal(t *testing.T) {
	cases := []struct {
		a, b Token
		want bool
	}{
		{Token{Type: NUMBER, Number: 1}, Token{Type: NUMBER, Number: 1}, true},
		{Token{Type: NUMBER, Number: 1}, Token{Type: NUMBER, Number: 2}, false},
		{Token{Type: ID, Id: "a"}, Token{Type: ID, Id: "a"}, true},
		{Token{Type: NUMBER, Number: 1}, Token{Type: STRING, Str: "1"}, false},
		{Token{Type: EOF}, Token{Type: EOF}, true},
		{Token{Type: NUMBER, Number: 1, Line: 5}, Token{Type: NUMBER, Number: 1, Line: 9}, true},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Errorf("%v.Equal(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestCursor_CurrentNext(t *testing.T) {
	cur, err := NewCursor("x = 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if cur.Current().Type != ID {
		t.Fatalf("want ID, got %s", cur.Current().Type)
	}
	if cur.Next().Type != CHAR {
		t.Fatalf("want CHAR, got %s", cur.Current().Type)
	}
	for cur.Current().Type != EOF {
		cur.Next()
	}
	// Calling Next past Eof keeps returning Eof.
	if cur.Next().Type != EOF {
		t.Fatal("Next past Eof should stay at Eof")
	}
}
