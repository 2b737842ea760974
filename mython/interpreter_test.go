// interpreter_test.go — end-to-end scenarios straight from spec.md §8.
package mython

import (
	"strings"
	"testing"
)

func runProgram(t *testing.T, src string) (string, error) {
	t.Helper()
	var sb strings.Builder
	_, err := Run(src, &sb)
	return sb.String(), err
}

func TestInterpreter_ArithmeticAndPrint(t *testing.T) {
	src := "x = 4 * 2 - 3\nprint x\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "5\n" {
		t.Fatalf("got %q, want %q", out, "5\n")
	}
}

func TestInterpreter_StringConcatAndStringify(t *testing.T) {
	src := `print "a" + "b"` + "\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "ab\n" {
		t.Fatalf("got %q, want %q", out, "ab\n")
	}
}

func TestInterpreter_ClassWithStr(t *testing.T) {
	src := "class A:\n  def __str__(self):\n    return \"hello\"\nprint A()\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello\n" {
		t.Fatalf("got %q, want %q", out, "hello\n")
	}
}

func TestInterpreter_InheritanceAndMethodLookup(t *testing.T) {
	src := "class B:\n  def f(self):\n    return 1\nclass C(B):\n  def g(self):\n    return self.f()\nprint C().g()\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "1\n" {
		t.Fatalf("got %q, want %q", out, "1\n")
	}
}

func TestInterpreter_DivisionByZero(t *testing.T) {
	src := "print 1/0\n"
	out, err := runProgram(t, src)
	if err == nil {
		t.Fatal("expected ZeroDivisionError")
	}
	if _, ok := err.(*ZeroDivisionError); !ok {
		t.Fatalf("want *ZeroDivisionError, got %T (%v)", err, err)
	}
	if out != "" {
		t.Fatalf("expected no output before the error, got %q", out)
	}
}

func TestInterpreter_ShortCircuitOr(t *testing.T) {
	src := "print 1 or undefined\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "True\n" {
		t.Fatalf("got %q, want %q", out, "True\n")
	}
}

func TestInterpreter_ShortCircuitAnd(t *testing.T) {
	src := "print 0 and undefined\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "False\n" {
		t.Fatalf("got %q, want %q", out, "False\n")
	}
}

func TestInterpreter_IfElse(t *testing.T) {
	src := "x = 5\nif x > 3:\n  print \"big\"\nelse:\n  print \"small\"\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "big\n" {
		t.Fatalf("got %q, want %q", out, "big\n")
	}
}

func TestInterpreter_FieldAssignmentAndRead(t *testing.T) {
	src := "class Point:\n  def __init__(self, x):\n    self.x = x\np = Point(7)\nprint p.x\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "7\n" {
		t.Fatalf("got %q, want %q", out, "7\n")
	}
}

func TestInterpreter_ReturnPropagatesThroughIfElse(t *testing.T) {
	src := "class C:\n  def f(self, x):\n    if x:\n      return 1\n    return 2\nprint C().f(True)\nprint C().f(False)\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "1\n2\n" {
		t.Fatalf("got %q, want %q", out, "1\n2\n")
	}
}

func TestInterpreter_NotImplementedOnArityMismatch(t *testing.T) {
	src := "class C:\n  def f(self, a):\n    return a\nprint C().f(1, 2)\n"
	_, err := runProgram(t, src)
	if _, ok := err.(*NotImplementedError); !ok {
		t.Fatalf("want *NotImplementedError, got %T (%v)", err, err)
	}
}

func TestInterpreter_NameErrorOnUnboundIdentifier(t *testing.T) {
	src := "print missing\n"
	_, err := runProgram(t, src)
	if _, ok := err.(*NameError); !ok {
		t.Fatalf("want *NameError, got %T (%v)", err, err)
	}
}

func TestInterpreter_StrBuiltin(t *testing.T) {
	src := "print str(1 + 2)\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "3\n" {
		t.Fatalf("got %q, want %q", out, "3\n")
	}
}

func TestInterpreter_StrOfNone(t *testing.T) {
	src := "print str(None)\n"
	out, err := runProgram(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != "None\n" {
		t.Fatalf("got %q, want %q", out, "None\n")
	}
}

// spec.md §8 invariant 2: determinism — re-executing the same program
// against a fresh Closure yields identical output.
func TestInterpreter_Determinism(t *testing.T) {
	src := "x = 2\ny = 3\nprint x + y\n"
	out1, err1 := runProgram(t, src)
	out2, err2 := runProgram(t, src)
	if err1 != nil || err2 != nil {
		t.Fatalf("errors: %v, %v", err1, err2)
	}
	if out1 != out2 {
		t.Fatalf("nondeterministic output: %q vs %q", out1, out2)
	}
}

// A fresh Run of the same program must print the same instance placeholder
// every time (spec.md §8 invariant 2) — this would fail if instance ids came
// from a package-level counter shared across unrelated Interpreters.
func TestInterpreter_InstancePlaceholderIsDeterministicAcrossRuns(t *testing.T) {
	src := "class A:\n  def __init__(self):\n    return\nprint A()\n"
	out1, err1 := runProgram(t, src)
	out2, err2 := runProgram(t, src)
	if err1 != nil || err2 != nil {
		t.Fatalf("errors: %v, %v", err1, err2)
	}
	if out1 != out2 {
		t.Fatalf("nondeterministic placeholder: %q vs %q", out1, out2)
	}
	if out1 != "A instance #1\n" {
		t.Fatalf("got %q, want %q", out1, "A instance #1\n")
	}
}

// Within one persistent session, each new instance gets its own id even
// across separate Eval calls.
func TestInterpreter_InstancePlaceholderIncrementsAcrossEvalCalls(t *testing.T) {
	ip := NewInterpreter()
	var sb strings.Builder
	if _, err := ip.Eval("class A:\n  def __init__(self):\n    return\n", &sb); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.Eval("print A()\n", &sb); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.Eval("print A()\n", &sb); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "A instance #1\nA instance #2\n" {
		t.Fatalf("got %q", sb.String())
	}
}

func TestInterpreter_PersistentEvalAcrossCalls(t *testing.T) {
	ip := NewInterpreter()
	var sb strings.Builder
	if _, err := ip.Eval("x = 10\n", &sb); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.Eval("print x + 1\n", &sb); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "11\n" {
		t.Fatalf("got %q, want %q", sb.String(), "11\n")
	}
}
