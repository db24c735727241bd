package symbolic

import "testing"

func TestConstantFolding(t *testing.T) {
	got := Sum(Int(2), Int(3)).String()
	if got != "5" {
		t.Fatalf("Sum(2,3) = %s, want 5", got)
	}
	got = Prod(Int(2), Int(3)).String()
	if got != "6" {
		t.Fatalf("Prod(2,3) = %s, want 6", got)
	}
}

func TestCanonicalOrdering(t *testing.T) {
	x := NewSymbol("x")
	y := NewSymbol("y")
	a := Sum(x, y)
	b := Sum(y, x)
	if a.String() != b.String() {
		t.Fatalf("commutative sums should normalize identically: %s vs %s", a, b)
	}
}

func TestCombineLikeTerms(t *testing.T) {
	x := NewSymbol("x")
	got := Sum(x, x).String()
	if got != "2*x" {
		t.Fatalf("x+x = %s, want 2*x", got)
	}
	got = Sum(Prod(Int(2), x), Prod(Int(3), x)).String()
	if got != "5*x" {
		t.Fatalf("2x+3x = %s, want 5*x", got)
	}
}

func TestPowIdentities(t *testing.T) {
	x := NewSymbol("x")
	if Power(x, Int(0)).String() != "1" {
		t.Fatalf("x^0 should simplify to 1")
	}
	if Power(x, Int(1)).String() != "x" {
		t.Fatalf("x^1 should simplify to x")
	}
	if Power(Int(2), Int(3)).String() != "8" {
		t.Fatalf("2^3 should fold to 8")
	}
}

func TestSubsDistinctSymbolsSameName(t *testing.T) {
	// Two symbols sharing a human-readable name are still distinct
	// identities; substituting one must not affect the other.
	a := NewSymbol("x")
	b := NewSymbol("x")
	sum := Sum(a, b)
	got := Subs(sum, map[*Symbol]Expr{a: Int(5)})
	if !Contains(got, b) {
		t.Fatalf("substituting a should not remove b: %s", got)
	}
	if Contains(got, a) {
		t.Fatalf("substituting a should remove every occurrence of a: %s", got)
	}
}

func TestFreeSymbols(t *testing.T) {
	x := NewSymbol("x")
	y := NewSymbol("y")
	e := Sum(Prod(x, Int(2)), y)
	free := FreeSymbols(e)
	if len(free) != 2 || !free[x] || !free[y] {
		t.Fatalf("expected free symbols {x,y}, got %v", free)
	}
}

func TestSummationLinear(t *testing.T) {
	i := NewSymbol("i")
	// sum_{i=1}^{5} i = 15
	got, err := Summation(i, i, Int(1), Int(5))
	if err != nil {
		t.Fatalf("Summation error: %v", err)
	}
	if got.String() != "15" {
		t.Fatalf("sum_{i=1}^{5} i = %s, want 15", got)
	}
}

func TestSummationConstant(t *testing.T) {
	i := NewSymbol("i")
	n := NewSymbol("n")
	got, err := Summation(n, i, Int(0), Int(9))
	if err != nil {
		t.Fatalf("Summation error: %v", err)
	}
	if got.String() != "10*n" {
		t.Fatalf("sum of a constant 10 times = %s, want 10*n", got)
	}
}

func TestSolveLinear(t *testing.T) {
	x := NewSymbol("x")
	// x - 7 = 0  =>  x = 7
	got, err := Solve(Sub(x, Int(7)), x)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if got.String() != "7" {
		t.Fatalf("solve(x-7=0) = %s, want 7", got)
	}
}

func TestSolveExponential(t *testing.T) {
	k := NewSymbol("k")
	n := NewSymbol("n")
	// n - 2^k = 0  =>  k = log(n)/log(2)
	eq := Sub(n, Power(Int(2), k))
	got, err := Solve(eq, k)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	want := Div(Log{n}, Log{Int(2)}).String()
	if got.String() != want {
		t.Fatalf("solve(n-2^k=0) = %s, want %s", got, want)
	}
}

func TestBigOPolynomial(t *testing.T) {
	n := NewSymbol("n")
	e := Sum(Power(n, Int(2)), Prod(Int(3), n), Int(5))
	if BigO(e, n).String() != "n^2" {
		t.Fatalf("BigO(n^2+3n+5) = %s, want n^2", BigO(e, n))
	}
}

func TestBigOLog(t *testing.T) {
	n := NewSymbol("n")
	k := NewSymbol("k")
	eq := Sub(n, Power(Int(2), k))
	sol, err := Solve(eq, k)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if BigO(sol, n).String() != "log(n)" {
		t.Fatalf("BigO(log2(n)) = %s, want log(n)", BigO(sol, n))
	}
}

func TestBigOConstant(t *testing.T) {
	n := NewSymbol("n")
	if BigO(Int(42), n).String() != "1" {
		t.Fatalf("BigO of a constant should be 1, got %s", BigO(Int(42), n))
	}
}

func TestAsCoeffAdd(t *testing.T) {
	n := NewSymbol("n")
	k := NewSymbol("k")

	c, part := AsCoeffAdd(Sum(n, k, Int(3)), n)
	if c.String() != Sum(k, Int(3)).String() {
		t.Fatalf("coeff-free part = %s, want %s", c, Sum(k, Int(3)))
	}
	if part.String() != n.String() {
		t.Fatalf("sym part = %s, want %s", part, n)
	}

	c, part = AsCoeffAdd(k, n)
	if c.String() != k.String() || part.String() != Int(0).String() {
		t.Fatalf("AsCoeffAdd of an n-free expr should be (e, 0), got (%s, %s)", c, part)
	}

	c, part = AsCoeffAdd(Prod(Int(2), n), n)
	if c.String() != Int(0).String() || part.String() != Prod(Int(2), n).String() {
		t.Fatalf("AsCoeffAdd of 2*n = %s, %s, want (0, 2*n)", c, part)
	}
}
