// Package scope implements the lexically nested variable/effect store the
// interpreter threads through a function body: each block (function call,
// for-loop body, while-loop body) opens a child [Scope] binding its own
// parameters, records every assignment as a substitution-ready "effect"
// expression, and tracks a running symbolic step count.
//
// This mirrors the original implementation's `Scope` class closely,
// including its slightly unusual step-accounting trick: creating a scope
// immediately records, in that scope's own effects, a +1 to every
// enclosing scope's step counter too, so that closing a loop and folding
// its effects back into the parent (via [Scope.AddEffect]) automatically
// propagates the loop's trip count into the parent's own step total.
package scope

import "github.com/Mortal/complexity/symbolic"

// Scope is one lexical level of variable bindings and recorded effects.
type Scope struct {
	parent *Scope
	locals map[string]*symbolic.Symbol

	// Steps is this scope's step counter: a fresh symbol whose recorded
	// effect tracks how many abstract "steps" have executed so far in
	// this scope.
	Steps *symbolic.Symbol

	effects map[*symbolic.Symbol]symbolic.Expr
	order   []*symbolic.Symbol

	output    symbolic.Expr
	hasOutput bool
}

// New opens a child scope of parent (nil for a function's top-level
// scope) binding each name in params to a fresh symbol.
func New(parent *Scope, params []string) *Scope {
	s := &Scope{
		parent:  parent,
		locals:  make(map[string]*symbolic.Symbol, len(params)),
		effects: make(map[*symbolic.Symbol]symbolic.Expr),
	}
	for _, p := range params {
		s.locals[p] = symbolic.NewSymbol(p)
	}
	s.Steps = symbolic.NewSymbol("steps")
	s.AddEffect(s.Steps, symbolic.Int(0))
	s.AddOneStep()
	return s
}

// AddOneStep records, in this scope, that executing it costs one more
// step — charged to this scope's own counter and to every enclosing
// scope's counter, so the cost is visible however far up the chain the
// effect is eventually merged.
func (s *Scope) AddOneStep() {
	for anc := s; anc != nil; anc = anc.parent {
		s.AddEffect(anc.Steps, symbolic.Sum(anc.Steps, symbolic.Int(1)))
	}
}

// Lookup resolves name to the symbol bound to it, searching outward
// through enclosing scopes.
func (s *Scope) Lookup(name string) (*symbolic.Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.locals[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Resolve returns the symbol bound to name, declaring a fresh local in
// this (innermost) scope if name is not yet bound anywhere in the chain —
// the same "first write declares it" behavior a dynamically scoped
// assignment has.
func (s *Scope) Resolve(name string) *symbolic.Symbol {
	if sym, ok := s.Lookup(name); ok {
		return sym
	}
	sym := symbolic.NewSymbol(name)
	s.locals[name] = sym
	return sym
}

// Affect substitutes this scope's recorded effects into e, turning a
// reference to a variable's symbol into its current closed-form value.
func (s *Scope) Affect(e symbolic.Expr) symbolic.Expr {
	if len(s.effects) == 0 {
		return e
	}
	return symbolic.Subs(e, s.effects)
}

// AddEffect records that target now evaluates to expr, normalizing expr
// against the effects already recorded in this scope so repeated calls
// compose left to right (as in `s += 1; s += 1`).
func (s *Scope) AddEffect(target *symbolic.Symbol, expr symbolic.Expr) {
	if _, exists := s.effects[target]; !exists {
		s.order = append(s.order, target)
	}
	s.effects[target] = s.Affect(expr)
}

// AddEffectByName resolves name (declaring it if new) and records expr as
// its effect, returning the resolved symbol.
func (s *Scope) AddEffectByName(name string, expr symbolic.Expr) *symbolic.Symbol {
	sym := s.Resolve(name)
	s.AddEffect(sym, expr)
	return sym
}

// Effect is one (symbol, current closed-form expression) pair, returned
// by [Scope.Effects] in the order the symbol was first assigned.
type Effect struct {
	Symbol *symbolic.Symbol
	Expr   symbolic.Expr
}

// Effects returns every effect recorded directly in this scope, in
// first-assigned order.
func (s *Scope) Effects() []Effect {
	out := make([]Effect, len(s.order))
	for i, sym := range s.order {
		out[i] = Effect{Symbol: sym, Expr: s.effects[sym]}
	}
	return out
}

// ChangedVars returns the set of symbols this scope recorded an effect
// for — the variables a loop body actually touches.
func (s *Scope) ChangedVars() map[*symbolic.Symbol]bool {
	out := make(map[*symbolic.Symbol]bool, len(s.order))
	for _, sym := range s.order {
		out[sym] = true
	}
	return out
}

// SetOutput records e as this scope's return value. A second call
// reports an error: this language permits at most one return per
// function, matching the MultipleReturns diagnostic.
func (s *Scope) SetOutput(e symbolic.Expr) error {
	if s.hasOutput {
		return errMultipleReturns
	}
	s.output = e
	s.hasOutput = true
	return nil
}

// Output returns the recorded return value, if any.
func (s *Scope) Output() (symbolic.Expr, bool) { return s.output, s.hasOutput }

var errMultipleReturns = multipleReturnsError{}

type multipleReturnsError struct{}

func (multipleReturnsError) Error() string { return "function has more than one return statement" }

// IsMultipleReturns reports whether err is the error SetOutput returns on
// a second call.
func IsMultipleReturns(err error) bool {
	_, ok := err.(multipleReturnsError)
	return ok
}
