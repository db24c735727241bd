package symbolic

import (
	"fmt"
	"math/big"
)

// linearIn decomposes e as coeff*x + rest, where rest does not contain x.
// It only recognizes expressions affine in x (degree 0 or 1); anything
// else (x^2, x appearing in a denominator, x inside a Log, ...) is
// reported as an error rather than approximated, since the recurrence
// closer and the while-loop solver both only have closed forms for the
// affine case.
func linearIn(e Expr, x *Symbol) (coeff, rest Expr, err error) {
	switch v := e.(type) {
	case *Symbol:
		if v == x {
			return Int(1), Int(0), nil
		}
		return Int(0), v, nil
	case Const:
		return Int(0), v, nil
	case Add:
		coeff, rest = Int(0), Int(0)
		for _, t := range v.Terms {
			c, r, terr := linearIn(t, x)
			if terr != nil {
				return nil, nil, terr
			}
			coeff = Sum(coeff, c)
			rest = Sum(rest, r)
		}
		return coeff, rest, nil
	case Mul:
		for k, f := range v.Factors {
			if add, ok := f.(Add); ok && Contains(add, x) {
				// Distribute the other factors over the sum, e.g. -1*(a + x).
				others := append(append([]Expr{}, v.Factors[:k]...), v.Factors[k+1:]...)
				terms := make([]Expr, len(add.Terms))
				for j, t := range add.Terms {
					terms[j] = Prod(append([]Expr{t}, others...)...)
				}
				return linearIn(Add{terms}, x)
			}
		}
		c := Expr(Int(1))
		idxCount := 0
		for _, f := range v.Factors {
			if s, ok := f.(*Symbol); ok && s == x {
				idxCount++
				continue
			}
			if Contains(f, x) {
				return nil, nil, fmt.Errorf("%s is not affine in %s", e, x)
			}
			c = Prod(c, f)
		}
		switch idxCount {
		case 0:
			return Int(0), v, nil
		case 1:
			return c, Int(0), nil
		default:
			return nil, nil, fmt.Errorf("%s is not affine in %s", e, x)
		}
	default:
		if !Contains(e, x) {
			return Int(0), e, nil
		}
		return nil, nil, fmt.Errorf("%s is not affine in %s", e, x)
	}
}

// maxSummationDegree bounds the index degree Summation can close in
// closed form: range bounds nested two loops deep (e.g. `range(1,
// i*i+1)`) produce a quadratic bound, so degree 2 covers every shape this
// language's grammar (no explicit powers beyond repeated multiplication)
// can actually construct in practice.
const maxSummationDegree = 2

// Summation evaluates the closed form of sum_{idx=lo}^{hi} term, where
// term is polynomial in idx up to [maxSummationDegree] (constant, linear,
// or quadratic in idx, with coefficients that may themselves be any
// idx-free expression). This is the shape of bounded sum the recurrence
// closer needs: a per-iteration increment to an accumulator, where the
// increment's own size may depend on an enclosing loop's index — linearly
// for a simple accumulation, quadratically when the accumulation's bound
// is itself the square of an outer index (the nested-loop case that
// produces a cubic total).
func Summation(term Expr, idx *Symbol, lo, hi Expr) (Expr, error) {
	term = Simplify(term)
	if !Contains(term, idx) {
		return Prod(term, countOf(lo, hi)), nil
	}
	coeffs, err := polyCoeffs(term, idx)
	if err != nil {
		return nil, fmt.Errorf("unsupported summation: %w", err)
	}
	total := Expr(Int(0))
	for deg, coeff := range coeffs {
		ps, err := powerSum(deg, lo, hi)
		if err != nil {
			return nil, fmt.Errorf("unsupported summation: %w", err)
		}
		total = Sum(total, Prod(coeff, ps))
	}
	return total, nil
}

func countOf(lo, hi Expr) Expr { return Sum(hi, Neg(lo), Int(1)) }

// polyCoeffs decomposes term as sum_k coeffs[k] * idx^k, for k up to
// [maxSummationDegree], where each coeffs[k] is an idx-free expression.
// It errors if term is not a polynomial in idx of a supported degree.
func polyCoeffs(e Expr, idx *Symbol) (map[int]Expr, error) {
	switch v := e.(type) {
	case *Symbol:
		if v == idx {
			return map[int]Expr{1: Int(1)}, nil
		}
		return map[int]Expr{0: v}, nil
	case Const:
		return map[int]Expr{0: v}, nil
	case Add:
		out := map[int]Expr{}
		for _, t := range v.Terms {
			tc, err := polyCoeffs(t, idx)
			if err != nil {
				return nil, err
			}
			for deg, c := range tc {
				if cur, ok := out[deg]; ok {
					out[deg] = Sum(cur, c)
				} else {
					out[deg] = c
				}
			}
		}
		return out, nil
	case Mul:
		deg := 0
		coeff := Expr(Int(1))
		for _, f := range v.Factors {
			if d, ok := idxDegree(f, idx); ok {
				deg += d
				continue
			}
			if Contains(f, idx) {
				return nil, fmt.Errorf("%s is not polynomial in %s", e, idx)
			}
			coeff = Prod(coeff, f)
		}
		if deg > maxSummationDegree {
			return nil, fmt.Errorf("%s has degree >%d in %s", e, maxSummationDegree, idx)
		}
		return map[int]Expr{deg: coeff}, nil
	case Pow:
		if d, ok := idxDegree(v, idx); ok {
			if d > maxSummationDegree {
				return nil, fmt.Errorf("%s has degree >%d in %s", e, maxSummationDegree, idx)
			}
			return map[int]Expr{d: Int(1)}, nil
		}
		if !Contains(e, idx) {
			return map[int]Expr{0: e}, nil
		}
		return nil, fmt.Errorf("%s is not polynomial in %s", e, idx)
	default:
		if !Contains(e, idx) {
			return map[int]Expr{0: e}, nil
		}
		return nil, fmt.Errorf("%s is not polynomial in %s", e, idx)
	}
}

// idxDegree reports the exponent of idx in f when f is exactly idx or
// idx^n for a non-negative integer n.
func idxDegree(f Expr, idx *Symbol) (int, bool) {
	if s, ok := f.(*Symbol); ok && s == idx {
		return 1, true
	}
	p, ok := f.(Pow)
	if !ok {
		return 0, false
	}
	s, ok := p.Base.(*Symbol)
	if !ok || s != idx {
		return 0, false
	}
	c, ok := asConst(p.Exp)
	if !ok || !c.V.IsInt() || c.V.Sign() < 0 {
		return 0, false
	}
	return int(c.V.Num().Int64()), true
}

// powerSum returns the closed form of sum_{idx=lo}^{hi} idx^deg, for deg
// up to [maxSummationDegree], via the standard polynomial identities
// (deg 1: the triangular-number formula; deg 2: the square-pyramidal
// formula), each evaluated as S(hi) - S(lo-1).
func powerSum(deg int, lo, hi Expr) (Expr, error) {
	switch deg {
	case 0:
		return countOf(lo, hi), nil
	case 1:
		tri := func(m Expr) Expr { return Div(Prod(m, Sum(m, Int(1))), Int(2)) }
		return Sub(tri(hi), tri(Sub(lo, Int(1)))), nil
	case 2:
		sq := func(m Expr) Expr {
			return Div(Prod(m, Sum(m, Int(1)), Sum(Prod(Int(2), m), Int(1))), Int(6))
		}
		return Sub(sq(hi), sq(Sub(lo, Int(1)))), nil
	default:
		return nil, fmt.Errorf("sum of idx^%d has no closed form this tool implements", deg)
	}
}

// Solve returns a root of the equation e = 0 for x. Two shapes are
// recognized: an equation affine in x (`coeff*x + rest = 0`, solved as
// `x = -rest/coeff`), and an equation exponential in x arising from a
// geometric recurrence (`coeff*base^x + rest = 0`, where x appears only
// as the full exponent of a single power term), solved by inverting the
// power with a logarithm: `x = log(-rest/coeff) / log(base)`. The second
// shape is what turns a doubling/halving while-loop's termination
// function into a `log` complexity.
func Solve(e Expr, x *Symbol) (Expr, error) {
	if coeff, rest, err := linearIn(e, x); err == nil {
		if c, ok := asConst(coeff); ok && c.isZero() {
			return nil, fmt.Errorf("equation %s does not depend on %s", e, x)
		}
		return Div(Neg(rest), coeff), nil
	}
	coeff, base, rest, err := expLinearIn(e, x)
	if err != nil {
		return nil, fmt.Errorf("cannot solve for %s in %s", x, e)
	}
	target := Div(Neg(rest), coeff)
	return Div(Log{target}, Log{base}), nil
}

// expLinearIn decomposes e as coeff*base^x + rest, where x appears only
// as the exponent of a single power term (the shape [Repeated] produces
// for a geometric per-iteration update such as `j *= 2`) and rest does
// not contain x. It fails if e contains more than one distinct
// exponential base, or if x occurs anywhere else.
func expLinearIn(e Expr, x *Symbol) (coeff, base, rest Expr, err error) {
	terms := []Expr{e}
	if add, ok := e.(Add); ok {
		terms = add.Terms
	}
	rest = Int(0)
	for _, t := range terms {
		c, b, ok := asExpTerm(t, x)
		if ok {
			if coeff != nil {
				if base.String() != b.String() {
					return nil, nil, nil, fmt.Errorf("%s has more than one exponential base in %s", e, x)
				}
				coeff = Sum(coeff, c)
				continue
			}
			coeff, base = c, b
			continue
		}
		if Contains(t, x) {
			return nil, nil, nil, fmt.Errorf("%s is not exponential in %s", t, x)
		}
		rest = Sum(rest, t)
	}
	if coeff == nil {
		return nil, nil, nil, fmt.Errorf("%s has no exponential term in %s", e, x)
	}
	return coeff, base, rest, nil
}

// asExpTerm reports whether e is exactly `coeff * base^x` for some
// x-free coeff and base, with x appearing as the whole exponent.
func asExpTerm(e Expr, x *Symbol) (coeff, base Expr, ok bool) {
	isPowOfX := func(f Expr) (Expr, bool) {
		p, isPow := f.(Pow)
		if !isPow {
			return nil, false
		}
		s, isSym := p.Exp.(*Symbol)
		if !isSym || s != x || Contains(p.Base, x) {
			return nil, false
		}
		return p.Base, true
	}

	if b, isPow := isPowOfX(e); isPow {
		return Int(1), b, true
	}
	m, isMul := e.(Mul)
	if !isMul {
		return nil, nil, false
	}
	coeff = Int(1)
	found := false
	for _, f := range m.Factors {
		if b, isPow := isPowOfX(f); isPow {
			if found {
				return nil, nil, false
			}
			found, base = true, b
			continue
		}
		if Contains(f, x) {
			return nil, nil, false
		}
		coeff = Prod(coeff, f)
	}
	if !found {
		return nil, nil, false
	}
	return coeff, base, true
}

// TerminationFunction returns the expression whose positive-to-negative
// zero crossing marks the iteration at which a while loop's test r stops
// holding: for `lhs <= rhs` this is `rhs - lhs`, for the strict forms it
// is offset by one. Solving TerminationFunction(r) = 0 for the loop's
// symbolic iteration count gives the number of times the body ran.
func TerminationFunction(r Rel) Expr {
	var gts, lts Expr
	var c int64
	switch r.Op {
	case Lte:
		gts, lts, c = r.Rhs, r.Lhs, 0
	case Lt:
		gts, lts, c = r.Rhs, r.Lhs, 1
	case Gte:
		gts, lts, c = r.Lhs, r.Rhs, 0
	default: // Gt
		gts, lts, c = r.Lhs, r.Rhs, 1
	}
	return Sub(Sub(gts, lts), Int(c))
}

// growth summarizes the asymptotic contribution of an expression with
// respect to a single variable, as the product of an (optional)
// exponential base raised to that variable, a polynomial degree, and a
// count of logarithmic factors — e.g. `n^2 * log(n)` is {polyDeg: 2,
// logPow: 1}, and `2^n` is {expBase: 2}.
type growth struct {
	expBase Expr
	polyDeg *big.Rat
	logPow  int
}

func constGrowth() growth { return growth{polyDeg: big.NewRat(0, 1)} }

// dominates reports whether a asymptotically dominates b.
func (a growth) dominates(b growth) bool {
	if (a.expBase != nil) != (b.expBase != nil) {
		return a.expBase != nil
	}
	if a.expBase != nil {
		return false // both exponential: treat as equal order, keep first seen
	}
	if cmp := a.polyDeg.Cmp(b.polyDeg); cmp != 0 {
		return cmp > 0
	}
	return a.logPow > b.logPow
}

func growthOf(e Expr, x *Symbol) growth {
	if !Contains(e, x) {
		return constGrowth()
	}
	switch v := e.(type) {
	case *Symbol:
		return growth{polyDeg: big.NewRat(1, 1)}
	case Pow:
		if Contains(v.Exp, x) && !Contains(v.Base, x) {
			return growth{expBase: v.Base}
		}
		base := growthOf(v.Base, x)
		if c, ok := asConst(v.Exp); ok && c.V.IsInt() {
			n := c.V.Num().Int64()
			deg := new(big.Rat).Mul(base.polyDeg, big.NewRat(n, 1))
			return growth{polyDeg: deg, logPow: base.logPow * int(n)}
		}
		return growth{polyDeg: big.NewRat(1, 1)}
	case Mul:
		acc := constGrowth()
		for _, f := range v.Factors {
			fg := growthOf(f, x)
			if fg.expBase != nil {
				acc.expBase = fg.expBase
			}
			acc.polyDeg.Add(acc.polyDeg, fg.polyDeg)
			acc.logPow += fg.logPow
		}
		return acc
	case Add:
		best := constGrowth()
		first := true
		for _, t := range v.Terms {
			tg := growthOf(t, x)
			if first || tg.dominates(best) {
				best, first = tg, false
			}
		}
		return best
	case Log:
		inner := growthOf(v.Arg, x)
		if inner.expBase != nil || inner.polyDeg.Sign() > 0 {
			return growth{polyDeg: big.NewRat(0, 1), logPow: 1}
		}
		return constGrowth()
	default:
		return growth{polyDeg: big.NewRat(1, 1)}
	}
}

// BigO returns the dominant (Big-O) term of e as x grows without bound,
// e.g. `3*n^2 + n` -> `n^2`, `2*n` -> `n`, a loop-free body -> `1`.
func BigO(e Expr, x *Symbol) Expr {
	g := growthOf(Simplify(e), x)
	if g.expBase != nil {
		return Power(g.expBase, x)
	}
	var poly Expr
	switch {
	case g.polyDeg.Sign() == 0:
		poly = nil
	case g.polyDeg.Cmp(big.NewRat(1, 1)) == 0:
		poly = x
	default:
		poly = Power(x, constOf(g.polyDeg))
	}
	var logTerm Expr
	if g.logPow == 1 {
		logTerm = Log{x}
	} else if g.logPow > 1 {
		logTerm = Power(Log{x}, Int(int64(g.logPow)))
	}
	switch {
	case poly != nil && logTerm != nil:
		return Prod(poly, logTerm)
	case poly != nil:
		return poly
	case logTerm != nil:
		return logTerm
	default:
		return Int(1)
	}
}
