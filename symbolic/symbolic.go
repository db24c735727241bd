// Package symbolic implements a small exact-arithmetic expression kernel:
// rational constants, free symbols, sums, products, powers, logarithms and
// comparisons, together with substitution, rule-based simplification, and
// the handful of closed-form operations (bounded summation, linear
// equation solving, and leading-term/Big-O extraction) the rest of this
// tool needs to turn a recurrence into a reported complexity.
//
// It plays the same role here that a hand-rolled, single-file computer
// algebra kernel (rather than a full CAS) plays in the example this
// package is modeled on: deterministic, rule-based reduction over an
// immutable expression tree, not a general-purpose solver.
package symbolic

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Expr is a symbolic expression node. All Expr values are immutable; every
// operation returns a new, simplified Expr rather than mutating in place.
type Expr interface {
	String() string

	// subs applies sub to every free symbol this expression contains.
	subs(sub map[*Symbol]Expr) Expr

	// freeSymbols accumulates this expression's free symbols into out.
	freeSymbols(out map[*Symbol]bool)

	// contains reports whether sym occurs anywhere in this expression.
	contains(sym *Symbol) bool
}

// Subs substitutes every symbol in sub with its mapped expression.
func Subs(e Expr, sub map[*Symbol]Expr) Expr {
	if len(sub) == 0 {
		return e
	}
	return e.subs(sub)
}

// FreeSymbols returns the set of symbols e depends on.
func FreeSymbols(e Expr) map[*Symbol]bool {
	out := map[*Symbol]bool{}
	e.freeSymbols(out)
	return out
}

// Contains reports whether e depends on sym.
func Contains(e Expr, sym *Symbol) bool { return e.contains(sym) }

// AsCoeffAdd decomposes e as c + Σaᵢ, where c is the sym-free part of e
// and each aᵢ is a term of e that contains sym. This is the kernel
// primitive the recurrence closer's case table (spec §4.3) is stated
// in terms of; [recurrence.Repeated] instead exploits Sub's like-term
// combination to tell the arithmetic and geometric shapes apart (see
// its doc comment), so this is the literal decomposition, kept as part
// of the kernel's public surface rather than folded away.
func AsCoeffAdd(e Expr, sym *Symbol) (c, symPart Expr) {
	if !e.contains(sym) {
		return e, Int(0)
	}
	add, ok := e.(Add)
	if !ok {
		return Int(0), e
	}
	var free, withSym []Expr
	for _, t := range add.Terms {
		if Contains(t, sym) {
			withSym = append(withSym, t)
		} else {
			free = append(free, t)
		}
	}
	return Sum(free...), Sum(withSym...)
}

// Simplify re-applies this package's rewrite rules to e. Most
// constructors (Sum, Prod, Power, ...) already return a simplified
// result; Simplify is for re-normalizing an expression built some other
// way (e.g. after a raw struct literal or a Subs that produced nested
// Adds/Muls).
func Simplify(e Expr) Expr {
	switch v := e.(type) {
	case Add:
		return v.Simplify()
	case Mul:
		return v.Simplify()
	case Pow:
		return v.Simplify()
	default:
		return e
	}
}

// Const is an exact rational numeric literal.
type Const struct{ V *big.Rat }

// Int returns the integer constant n.
func Int(n int64) Expr { return Const{big.NewRat(n, 1)} }

// Frac returns the rational constant a/b.
func Frac(a, b int64) Expr { return Const{big.NewRat(a, b)} }

func constOf(r *big.Rat) Expr { return Const{r} }

func (c Const) String() string { return c.V.RatString() }
func (c Const) subs(map[*Symbol]Expr) Expr { return c }
func (c Const) freeSymbols(map[*Symbol]bool) {}
func (c Const) contains(*Symbol) bool { return false }

func (c Const) isZero() bool { return c.V.Sign() == 0 }
func (c Const) isOne() bool  { return c.V.Cmp(big.NewRat(1, 1)) == 0 }

// asConst reports whether e is a numeric literal.
func asConst(e Expr) (Const, bool) {
	c, ok := e.(Const)
	return c, ok
}

// Symbol is a free variable. Symbols have pointer identity: two symbols
// with the same Name are still distinct unless they are the same *Symbol,
// mirroring sympy's Dummy (a symbol guaranteed unique even when printed
// with a human-readable name).
type Symbol struct {
	Name        string
	Integer     bool
	NonNegative bool
}

// NewSymbol creates a fresh integer, non-negative symbol named name. Every
// variable this tool reasons about (function parameters, loop counters,
// the step counter) is such a symbol: loop trip counts and sizes are never
// negative and never fractional.
func NewSymbol(name string) *Symbol {
	return &Symbol{Name: name, Integer: true, NonNegative: true}
}

func (s *Symbol) String() string { return s.Name }
func (s *Symbol) subs(sub map[*Symbol]Expr) Expr {
	if e, ok := sub[s]; ok {
		return e
	}
	return s
}
func (s *Symbol) freeSymbols(out map[*Symbol]bool) { out[s] = true }
func (s *Symbol) contains(sym *Symbol) bool        { return s == sym }

// Add represents a sum of terms.
type Add struct{ Terms []Expr }

// Sum constructs and simplifies a sum of terms.
func Sum(terms ...Expr) Expr { return simplifyAdd(terms) }

func simplifyAdd(terms []Expr) Expr {
	var flat []Expr
	total := big.NewRat(0, 1)
	// See the matching worklist in Mul.Simplify: flattening a nested Add
	// must re-classify its terms, not just splice them in, or a Const
	// buried inside one (e.g. from a folded Sub) never reaches total.
	work := append([]Expr(nil), terms...)
	for len(work) > 0 {
		t := work[0]
		work = work[1:]
		switch v := t.(type) {
		case Add:
			work = append(append([]Expr(nil), v.Terms...), work...)
		case Const:
			total.Add(total, v.V)
		default:
			flat = append(flat, t)
		}
	}
	flat = combineLikeTerms(flat)
	if total.Sign() != 0 {
		flat = append(flat, constOf(new(big.Rat).Set(total)))
	}
	if len(flat) == 0 {
		return Int(0)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })
	return Add{flat}
}

// combineLikeTerms merges terms that are identical up to a leading
// constant coefficient, e.g. `i + i` -> `2*i`, `2*i + 3*i` -> `5*i`.
func combineLikeTerms(terms []Expr) []Expr {
	type bucket struct {
		base  Expr
		coeff *big.Rat
	}
	var buckets []*bucket
	for _, t := range terms {
		coeff, base := splitCoeff(t)
		found := false
		for _, b := range buckets {
			if b.base.String() == base.String() {
				b.coeff.Add(b.coeff, coeff)
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, &bucket{base: base, coeff: new(big.Rat).Set(coeff)})
		}
	}
	var out []Expr
	for _, b := range buckets {
		if b.coeff.Sign() == 0 {
			continue
		}
		if b.coeff.Cmp(big.NewRat(1, 1)) == 0 {
			out = append(out, b.base)
		} else {
			out = append(out, Mul{[]Expr{constOf(b.coeff), b.base}}.Simplify())
		}
	}
	return out
}

// splitCoeff splits a term into a leading rational coefficient and the
// remaining (non-constant) factor, treating a bare constant as `c * 1`.
func splitCoeff(e Expr) (*big.Rat, Expr) {
	m, ok := e.(Mul)
	if !ok {
		if c, ok := asConst(e); ok {
			return new(big.Rat).Set(c.V), Int(1)
		}
		return big.NewRat(1, 1), e
	}
	coeff := big.NewRat(1, 1)
	var rest []Expr
	for _, f := range m.Factors {
		if c, ok := asConst(f); ok {
			coeff.Mul(coeff, c.V)
			continue
		}
		rest = append(rest, f)
	}
	if len(rest) == 0 {
		return coeff, Int(1)
	}
	if len(rest) == 1 {
		return coeff, rest[0]
	}
	return coeff, Mul{rest}
}

func (a Add) String() string {
	parts := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

// Simplify re-flattens and re-combines an Add's terms.
func (a Add) Simplify() Expr { return simplifyAdd(a.Terms) }

func (a Add) subs(sub map[*Symbol]Expr) Expr {
	out := make([]Expr, len(a.Terms))
	for i, t := range a.Terms {
		out[i] = Subs(t, sub)
	}
	return simplifyAdd(out)
}

func (a Add) freeSymbols(out map[*Symbol]bool) {
	for _, t := range a.Terms {
		t.freeSymbols(out)
	}
}

func (a Add) contains(sym *Symbol) bool {
	for _, t := range a.Terms {
		if Contains(t, sym) {
			return true
		}
	}
	return false
}

// Neg returns -e.
func Neg(e Expr) Expr { return Mul{[]Expr{Int(-1), e}}.Simplify() }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Sum(a, Neg(b)) }

// Mul represents a product of factors.
type Mul struct{ Factors []Expr }

// Prod constructs and simplifies a product of factors.
func Prod(factors ...Expr) Expr { return Mul{factors}.Simplify() }

// baseExp pairs a factor's base with its accumulated exponent while
// Mul.Simplify combines repeated bases (x * x^-1 -> x^0 -> dropped, x * x
// -> x^2).
type baseExp struct {
	base Expr
	exp  Expr
}

// Simplify flattens nested products, combines numeric factors, sorts the
// remaining factors into a canonical order, and combines repeated factors
// of the same base by summing their exponents — the product analogue of
// Add's like-term combination, and the rule `Div` relies on to cancel a
// value against its own inverse (`n * n^-1` -> `1`).
func (m Mul) Simplify() Expr {
	coeff := big.NewRat(1, 1)
	var bases []*baseExp
	// worklist holds factors still to be classified; flattening a nested
	// Mul pushes its factors back onto the worklist rather than copying
	// them straight into bases, so a Const buried inside a nested product
	// (e.g. the -1 in a Neg) still gets folded into coeff.
	work := append([]Expr(nil), m.Factors...)
	for len(work) > 0 {
		f := work[0]
		work = work[1:]
		switch v := f.(type) {
		case Mul:
			work = append(append([]Expr(nil), v.Factors...), work...)
		case Const:
			coeff.Mul(coeff, v.V)
		default:
			base, exp := f, Expr(Int(1))
			if p, ok := f.(Pow); ok {
				base, exp = p.Base, p.Exp
			}
			found := false
			for _, be := range bases {
				if be.base.String() == base.String() {
					be.exp = Sum(be.exp, exp)
					found = true
					break
				}
			}
			if !found {
				bases = append(bases, &baseExp{base: base, exp: exp})
			}
		}
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}
	var flat []Expr
	for _, be := range bases {
		if ec, ok := asConst(be.exp); ok && ec.isZero() {
			continue
		}
		flat = append(flat, Pow{be.base, be.exp}.Simplify())
	}
	if coeff.Cmp(big.NewRat(1, 1)) != 0 {
		flat = append(flat, constOf(coeff))
	}
	if len(flat) == 0 {
		return constOf(coeff)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })
	return Mul{flat}
}

func (m Mul) String() string {
	parts := make([]string, len(m.Factors))
	for i, f := range m.Factors {
		s := f.String()
		if _, ok := f.(Add); ok {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, "*")
}

func (m Mul) subs(sub map[*Symbol]Expr) Expr {
	out := make([]Expr, len(m.Factors))
	for i, f := range m.Factors {
		out[i] = Subs(f, sub)
	}
	return Mul{out}.Simplify()
}

func (m Mul) freeSymbols(out map[*Symbol]bool) {
	for _, f := range m.Factors {
		f.freeSymbols(out)
	}
}

func (m Mul) contains(sym *Symbol) bool {
	for _, f := range m.Factors {
		if Contains(f, sym) {
			return true
		}
	}
	return false
}

// Div returns a / b.
func Div(a, b Expr) Expr { return Prod(a, Pow{b, Int(-1)}.Simplify()) }

// Pow represents exponentiation Base^Exp.
type Pow struct{ Base, Exp Expr }

// Power constructs and simplifies Base^Exp.
func Power(base, exp Expr) Expr { return Pow{base, exp}.Simplify() }

// Simplify applies the handful of exponent identities this tool needs:
// x^0 = 1, x^1 = x, and constant folding when both operands are numeric.
func (p Pow) Simplify() Expr {
	if en, ok := asConst(p.Exp); ok {
		if en.isZero() {
			return Int(1)
		}
		if en.isOne() {
			return p.Base
		}
		if bn, ok := asConst(p.Base); ok && en.V.IsInt() && !bn.isZero() {
			n := en.V.Num().Int64()
			neg := n < 0
			if neg {
				n = -n
			}
			r := big.NewRat(1, 1)
			for i := int64(0); i < n; i++ {
				r.Mul(r, bn.V)
			}
			if neg {
				r.Inv(r)
			}
			return constOf(r)
		}
	}
	return Pow{p.Base, p.Exp}
}

func (p Pow) String() string {
	base := p.Base.String()
	switch p.Base.(type) {
	case *Symbol, Const:
		// no parens needed
	default:
		base = "(" + base + ")"
	}
	return fmt.Sprintf("%s^%s", base, p.Exp.String())
}

func (p Pow) subs(sub map[*Symbol]Expr) Expr {
	return Pow{Subs(p.Base, sub), Subs(p.Exp, sub)}.Simplify()
}

func (p Pow) freeSymbols(out map[*Symbol]bool) {
	p.Base.freeSymbols(out)
	p.Exp.freeSymbols(out)
}

func (p Pow) contains(sym *Symbol) bool { return Contains(p.Base, sym) || Contains(p.Exp, sym) }

// Log represents a natural logarithm, produced by [Solve] when it inverts
// a geometric recurrence and recognized by Big-O extraction (logarithmic
// loop bodies print as O(log n)).
type Log struct{ Arg Expr }

func (l Log) String() string { return fmt.Sprintf("log(%s)", l.Arg) }
func (l Log) subs(sub map[*Symbol]Expr) Expr { return Log{Subs(l.Arg, sub)} }
func (l Log) freeSymbols(out map[*Symbol]bool) { l.Arg.freeSymbols(out) }
func (l Log) contains(sym *Symbol) bool { return Contains(l.Arg, sym) }

// RelOp enumerates the relational operators a loop test can use.
type RelOp int

// Relational operator kinds, matching the four comparisons this
// language's grammar accepts.
const (
	Lt RelOp = iota
	Lte
	Gt
	Gte
)

func (op RelOp) String() string {
	switch op {
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	default:
		return ">="
	}
}

// Rel represents a relational comparison `Lhs op Rhs`.
type Rel struct {
	Lhs, Rhs Expr
	Op       RelOp
}

func (r Rel) String() string { return fmt.Sprintf("%s %s %s", r.Lhs, r.Op, r.Rhs) }
func (r Rel) subs(sub map[*Symbol]Expr) Expr {
	return Rel{Subs(r.Lhs, sub), Subs(r.Rhs, sub), r.Op}
}
func (r Rel) freeSymbols(out map[*Symbol]bool) {
	r.Lhs.freeSymbols(out)
	r.Rhs.freeSymbols(out)
}
func (r Rel) contains(sym *Symbol) bool { return Contains(r.Lhs, sym) || Contains(r.Rhs, sym) }

// And represents the conjunction of a chained comparison, e.g. `a < b < c`
// desugars to `And{Rel(a<b), Rel(b<c)}`.
type And struct{ Terms []Expr }

func (a And) String() string {
	parts := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " and ")
}
func (a And) subs(sub map[*Symbol]Expr) Expr {
	out := make([]Expr, len(a.Terms))
	for i, t := range a.Terms {
		out[i] = Subs(t, sub)
	}
	return And{out}
}
func (a And) freeSymbols(out map[*Symbol]bool) {
	for _, t := range a.Terms {
		t.freeSymbols(out)
	}
}
func (a And) contains(sym *Symbol) bool {
	for _, t := range a.Terms {
		if Contains(t, sym) {
			return true
		}
	}
	return false
}
