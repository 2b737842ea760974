// runtime_test.go — truthiness, Equal/Less and their derived comparisons
// (spec.md §4.2, §8 invariants 3-5).
package mython

import "testing"

func TestIsTrue(t *testing.T) {
	cases := []struct {
		name string
		h    ObjectHolder
		want bool
	}{
		{"empty", None(), false},
		{"false", Own(Bool(false)), false},
		{"true", Own(Bool(true)), true},
		{"zero", Own(Number(0)), false},
		{"nonzero", Own(Number(-1)), true},
		{"empty string", Own(String("")), false},
		{"nonempty string", Own(String("x")), true},
		{"class instance", Own(NewClassInstance(&Class{Name: "C"}, 1)), true},
		{"class", Own(&Class{Name: "C"}), true},
	}
	for _, c := range cases {
		if got := IsTrue(c.h); got != c.want {
			t.Errorf("%s: IsTrue = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEqual_PrimitiveVariants(t *testing.T) {
	ctx := NewContext(nopWriter{})
	eq, err := Equal(ctx, Own(Number(3)), Own(Number(3)), 0, 0)
	if err != nil || !eq {
		t.Fatalf("Number(3) == Number(3): eq=%v err=%v", eq, err)
	}
	eq, err = Equal(ctx, Own(String("a")), Own(String("b")), 0, 0)
	if err != nil || eq {
		t.Fatalf("String(a) == String(b): eq=%v err=%v", eq, err)
	}
	eq, err = Equal(ctx, None(), None(), 0, 0)
	if err != nil || !eq {
		t.Fatalf("None == None: eq=%v err=%v", eq, err)
	}
}

func TestEqual_TypeMismatch(t *testing.T) {
	ctx := NewContext(nopWriter{})
	_, err := Equal(ctx, Own(Number(1)), Own(String("1")), 1, 1)
	if _, ok := err.(*TypeMismatch); !ok {
		t.Fatalf("want *TypeMismatch, got %T (%v)", err, err)
	}
}

func TestEqual_UserDefinedEq(t *testing.T) {
	cls := &Class{Name: "C", Methods: []*Method{
		{Name: MethodEq, Params: []string{"other"}, Body: &MethodBody{Stmt: &Return{Stmt: &Literal{Value: Own(Bool(true))}}}},
	}}
	a := Own(NewClassInstance(cls, 1))
	b := Own(NewClassInstance(cls, 2))
	ctx := NewContext(nopWriter{})
	eq, err := Equal(ctx, a, b, 0, 0)
	if err != nil || !eq {
		t.Fatalf("user __eq__: eq=%v err=%v", eq, err)
	}
}

func TestComparisons_DerivedFromEqualAndLess(t *testing.T) {
	ctx := NewContext(nopWriter{})
	two, three := Own(Number(2)), Own(Number(3))

	if lt, _ := Less(ctx, two, three, 0, 0); !lt {
		t.Fatal("2 < 3 should be true")
	}
	if neq, _ := NotEqual(ctx, two, three, 0, 0); !neq {
		t.Fatal("2 != 3 should be true")
	}
	if gt, _ := Greater(ctx, three, two, 0, 0); !gt {
		t.Fatal("3 > 2 should be true")
	}
	if le, _ := LessOrEqual(ctx, two, two, 0, 0); !le {
		t.Fatal("2 <= 2 should be true")
	}
	if ge, _ := GreaterOrEqual(ctx, three, two, 0, 0); !ge {
		t.Fatal("3 >= 2 should be true")
	}
	if ge, _ := GreaterOrEqual(ctx, two, three, 0, 0); ge {
		t.Fatal("2 >= 3 should be false")
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
