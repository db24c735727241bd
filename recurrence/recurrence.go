// Package recurrence closes a bounded for-loop's per-iteration effect
// into a closed-form expression in the loop's trip count, the one piece
// of symbolic reasoning this tool needs beyond plain algebraic
// simplification: a loop body is never executed, its effect on each
// variable is solved for directly.
package recurrence

import (
	"fmt"

	"github.com/Mortal/complexity/symbolic"
)

// Repeated closes the recurrence "a_lo = n; a_{k+1} = e(n=a_k, i=k+1)"
// into a_hi, i.e. it returns the value of variable n after the loop index
// i has run from lo to hi inclusive, given that one iteration updates n's
// value to e (an expression possibly mentioning both n's old value and
// the current i).
//
// Five shapes are recognized, matching the cases the per-iteration
// effect of this language's restricted arithmetic can take:
//
//   - e depends on neither i nor n (e.g. `x = m` for some other m): every
//     iteration assigns the same value, so the result is e unchanged.
//   - e depends on i but not n (e.g. `x = i`): the loop just overwrites n
//     with e evaluated at the final index, i.e. e[i:=hi].
//   - e depends on both i and n, and e-n does not depend on n (e.g.
//     `s += i`, so e = s+i): arithmetic accumulation, closed via a
//     bounded sum of the increment over i.
//   - e depends on n but not i, and e-n does not depend on n (e.g.
//     `s += 1`, so e = s+1): arithmetic accumulation with a constant
//     increment, closed via multiplication by the iteration count.
//   - e depends on n but not i, and is a constant multiple of n (e.g.
//     `x *= 2`, so e = 2*x): geometric growth, closed via exponentiation.
//
// Anything else (e.g. a per-iteration update that mixes i and n
// non-linearly) is reported as an error.
func Repeated(n, i *symbolic.Symbol, e, lo, hi symbolic.Expr) (symbolic.Expr, error) {
	e = symbolic.Simplify(e)

	if symbolic.Contains(e, i) {
		if symbolic.Contains(e, n) {
			term := symbolic.Sub(e, n)
			if symbolic.Contains(term, n) {
				return nil, fmt.Errorf("recurrence for %s depends on %s and %s non-linearly", n, i, n)
			}
			sum, err := symbolic.Summation(term, i, lo, hi)
			if err != nil {
				return nil, err
			}
			return symbolic.Sum(n, sum), nil
		}
		return symbolic.Subs(e, map[*symbolic.Symbol]symbolic.Expr{i: hi}), nil
	}

	if symbolic.Contains(e, n) {
		term := symbolic.Sub(e, n)
		count := symbolic.Sum(hi, symbolic.Neg(lo), symbolic.Int(1))
		if !symbolic.Contains(term, n) {
			return symbolic.Sum(n, symbolic.Prod(term, count)), nil
		}
		// Geometric growth: e = coeff*n for some coeff not depending on n
		// (e.g. `x *= 2` gives e = 2*x). The multiplier is e/n directly,
		// not term/n — term already has n subtracted out.
		coeff := symbolic.Div(e, n)
		coeff = symbolic.Simplify(coeff)
		if symbolic.Contains(coeff, n) {
			return nil, fmt.Errorf("recurrence for %s is not linear in its own value", n)
		}
		return symbolic.Prod(n, symbolic.Power(coeff, count)), nil
	}

	return e, nil
}
