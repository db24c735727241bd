package recurrence

import (
	"testing"

	"github.com/Mortal/complexity/symbolic"
)

func TestRepeatedOverwrite(t *testing.T) {
	x := symbolic.NewSymbol("x")
	i := symbolic.NewSymbol("i")
	// x = i, run for i in 1..5: the loop just overwrites x with i's final
	// value.
	got, err := Repeated(x, i, i, symbolic.Int(1), symbolic.Int(5))
	if err != nil {
		t.Fatalf("Repeated error: %v", err)
	}
	if got.String() != "5" {
		t.Fatalf("overwrite recurrence = %s, want 5", got)
	}
}

func TestRepeatedArithmeticIndexDependent(t *testing.T) {
	s := symbolic.NewSymbol("s")
	i := symbolic.NewSymbol("i")
	// s += i, for i in 1..5: s accumulates sum_{i=1}^{5} i = 15.
	e := symbolic.Sum(s, i)
	got, err := Repeated(s, i, e, symbolic.Int(1), symbolic.Int(5))
	if err != nil {
		t.Fatalf("Repeated error: %v", err)
	}
	if got.String() != "15 + s" {
		t.Fatalf("arithmetic (index-dependent) recurrence = %s, want 15 + s", got)
	}
}

func TestRepeatedArithmeticConstant(t *testing.T) {
	s := symbolic.NewSymbol("s")
	i := symbolic.NewSymbol("i")
	// s += 1, for i in 0..9 (10 iterations): s grows by 10.
	e := symbolic.Sum(s, symbolic.Int(1))
	got, err := Repeated(s, i, e, symbolic.Int(0), symbolic.Int(9))
	if err != nil {
		t.Fatalf("Repeated error: %v", err)
	}
	if got.String() != "10 + s" {
		t.Fatalf("arithmetic (constant) recurrence = %s, want 10 + s", got)
	}
}

func TestRepeatedGeometric(t *testing.T) {
	x := symbolic.NewSymbol("x")
	i := symbolic.NewSymbol("i")
	// x *= 2, for i in 1..5 (5 iterations): x is multiplied by 2^5 = 32.
	e := symbolic.Prod(symbolic.Int(2), x)
	got, err := Repeated(x, i, e, symbolic.Int(1), symbolic.Int(5))
	if err != nil {
		t.Fatalf("Repeated error: %v", err)
	}
	if got.String() != "32*x" {
		t.Fatalf("geometric recurrence = %s, want 32*x", got)
	}
}

func TestRepeatedNonLinearIsAnError(t *testing.T) {
	s := symbolic.NewSymbol("s")
	i := symbolic.NewSymbol("i")
	// s *= s is not a linear recurrence in s; this tool has no closed
	// form for it.
	e := symbolic.Prod(s, s)
	_, err := Repeated(s, i, e, symbolic.Int(1), symbolic.Int(5))
	if err == nil {
		t.Fatalf("expected an error for a non-linear recurrence in s")
	}
}

// TestRepeatedAgreesWithUnrolling checks spec.md §8's unrolling property
// for each supported recurrence shape: for concrete integer bounds
// 0 <= a <= b <= 5, the closed form Repeated produces, evaluated at a
// concrete starting value, matches explicitly applying e once per index
// value from a to b inclusive.
func TestRepeatedAgreesWithUnrolling(t *testing.T) {
	n := symbolic.NewSymbol("n")
	i := symbolic.NewSymbol("i")
	x0 := symbolic.Int(3)

	shapes := []struct {
		name string
		e    symbolic.Expr
	}{
		{"overwrite (f(i))", i},
		{"arithmetic, index-dependent (n + t(i))", symbolic.Sum(n, i)},
		{"arithmetic, constant increment (n + c)", symbolic.Sum(n, symbolic.Int(2))},
		{"geometric (c*n)", symbolic.Prod(symbolic.Int(2), n)},
	}

	for _, sh := range shapes {
		for a := int64(0); a <= 5; a++ {
			for b := a; b <= 5; b++ {
				closed, err := Repeated(n, i, sh.e, symbolic.Int(a), symbolic.Int(b))
				if err != nil {
					t.Fatalf("%s: Repeated(a=%d,b=%d) error: %v", sh.name, a, b, err)
				}
				got := symbolic.Simplify(symbolic.Subs(closed, map[*symbolic.Symbol]symbolic.Expr{n: x0})).String()

				cur := x0
				for k := a; k <= b; k++ {
					cur = symbolic.Simplify(symbolic.Subs(sh.e, map[*symbolic.Symbol]symbolic.Expr{n: cur, i: symbolic.Int(k)}))
				}
				want := cur.String()

				if got != want {
					t.Fatalf("%s: Repeated(a=%d,b=%d) = %s, want %s (unrolled)", sh.name, a, b, got, want)
				}
			}
		}
	}
}

func TestRepeatedIndependentOfBoth(t *testing.T) {
	s := symbolic.NewSymbol("s")
	i := symbolic.NewSymbol("i")
	n := symbolic.NewSymbol("n")
	// s = n (neither the loop index nor s's own prior value): the effect
	// is just n itself, regardless of how many iterations ran.
	got, err := Repeated(s, i, n, symbolic.Int(0), symbolic.Int(9))
	if err != nil {
		t.Fatalf("Repeated error: %v", err)
	}
	if got.String() != "n" {
		t.Fatalf("independent recurrence = %s, want n", got)
	}
}
