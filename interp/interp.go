// Package interp is the statement interpreter: it walks a function's
// [ast.FunctionDef] body and, instead of executing it, symbolically
// derives each variable's closed-form value and the function's total
// step count, by recursively compiling expressions into [symbolic.Expr]
// and folding assignments, for-loops, and while-loops into the
// [scope.Scope] they run in.
//
// The traversal follows the same recursive switch-on-node-type shape the
// teacher's bytecode compiler uses for its own AST walk, except each case
// here returns a symbolic effect instead of emitting an instruction.
package interp

import (
	"fmt"

	"github.com/Mortal/complexity/ast"
	"github.com/Mortal/complexity/diag"
	"github.com/Mortal/complexity/recurrence"
	"github.com/Mortal/complexity/scope"
	"github.com/Mortal/complexity/symbolic"
)

// FunctionResult is what analyzing one function produces: its
// complexity against its first parameter, its closed-form return value
// (if it has one), and the supplemental per-line trace.
type FunctionResult struct {
	Name       string
	Param      *symbolic.Symbol
	BigO       symbolic.Expr
	Output     symbolic.Expr
	HasOutput  bool
	Annotations map[int][]string
}

// Interpreter analyzes function definitions one at a time.
type Interpreter struct {
	// annotations accumulates this function's per-line trace, keyed by
	// 0-based source line, reset at the start of each AnalyzeFunction
	// call.
	annotations map[int][]string

	// unhandled accumulates every AST node kind this interpreter had no
	// case for while analyzing the current function, so a single
	// diagnostic can name all of them instead of aborting on the first.
	unhandled map[string]bool
}

// New creates an Interpreter.
func New() *Interpreter {
	return &Interpreter{}
}

// log records s as a trace line for the given 0-based source line.
func (in *Interpreter) log(line int, format string, args ...any) {
	in.annotations[line] = append(in.annotations[line], fmt.Sprintf(format, args...))
}

// AnalyzeFunction derives fn's complexity and closed-form result.
func (in *Interpreter) AnalyzeFunction(fn *ast.FunctionDef) (*FunctionResult, error) {
	if len(fn.Params) == 0 {
		return nil, diag.New(diag.UnsupportedSyntax, fn.Line, fn.Col,
			"function %s has no parameters to report complexity against", fn.Name)
	}

	in.annotations = map[int][]string{}
	in.unhandled = map[string]bool{}

	sc := scope.New(nil, fn.Params)
	param, _ := sc.Lookup(fn.Params[0])

	if err := in.execBlock(sc, fn.Body); err != nil {
		if d, ok := err.(*diag.Diagnostic); ok {
			return nil, d.InFunc(fn.Name)
		}
		return nil, err
	}

	if len(in.unhandled) > 0 {
		kinds := make([]string, 0, len(in.unhandled))
		for k := range in.unhandled {
			kinds = append(kinds, k)
		}
		return nil, diag.New(diag.UnsupportedSyntax, fn.Line, fn.Col,
			"unsupported node kinds: %v", kinds).InFunc(fn.Name)
	}

	bigO := symbolic.BigO(sc.Affect(sc.Steps), param)
	in.log(fn.Line-1, "Function %s: O(%s)", fn.Name, bigO)

	result := &FunctionResult{
		Name:        fn.Name,
		Param:       param,
		BigO:        bigO,
		Annotations: in.annotations,
	}
	if out, ok := sc.Output(); ok {
		result.Output = sc.Affect(out)
		result.HasOutput = true
		in.log(fn.Line-1, "Result: %s", result.Output)
	}
	return result, nil
}

func lookup(sc *scope.Scope, name string, line, col int) (*symbolic.Symbol, error) {
	if sym, ok := sc.Lookup(name); ok {
		return sym, nil
	}
	return nil, diag.New(diag.UnknownName, line, col, "%q is not assigned before use", name)
}

// execBlock runs each statement in order, recording its effect in sc.
func (in *Interpreter) execBlock(sc *scope.Scope, stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := in.execStmt(sc, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execStmt(sc *scope.Scope, stmt ast.Stmt) error {
	switch node := stmt.(type) {
	case *ast.Assign:
		val, err := in.evalExpr(sc, node.Value)
		if err != nil {
			return err
		}
		sym := sc.AddEffectByName(node.Target, val)
		in.log(node.Line-1, "%s = %s", node.Target, sc.Affect(sym))
		return nil

	case *ast.AugAssign:
		cur, err := lookup(sc, node.Target, node.Line, node.Col)
		if err != nil {
			return err
		}
		val, err := in.evalExpr(sc, node.Value)
		if err != nil {
			return err
		}
		combined := applyBinOp(augToBinOp(node.Op), cur, val)
		sc.AddEffect(cur, combined)
		in.log(node.Line-1, "%s = %s", node.Target, sc.Affect(cur))
		return nil

	case *ast.Return:
		val, err := in.evalExpr(sc, node.Value)
		if err != nil {
			return err
		}
		if err := sc.SetOutput(val); err != nil {
			return diag.New(diag.MultipleReturns, node.Line, node.Col, "function has more than one return statement")
		}
		in.log(node.Line-1, "Result: %s", sc.Affect(val))
		return nil

	case *ast.For:
		return in.execFor(sc, node)

	case *ast.While:
		return in.execWhile(sc, node)

	default:
		in.unhandled[fmt.Sprintf("%T", stmt)] = true
		return nil
	}
}

func (in *Interpreter) execFor(sc *scope.Scope, node *ast.For) error {
	var lo, hi symbolic.Expr
	switch len(node.RangeArgs) {
	case 1:
		b, err := in.evalExpr(sc, node.RangeArgs[0])
		if err != nil {
			return err
		}
		lo, hi = symbolic.Int(0), b
	case 2:
		a, err := in.evalExpr(sc, node.RangeArgs[0])
		if err != nil {
			return err
		}
		b, err := in.evalExpr(sc, node.RangeArgs[1])
		if err != nil {
			return err
		}
		lo, hi = a, b
	default:
		return diag.New(diag.UnsupportedSyntax, node.Line, node.Col,
			"range() accepts 1 or 2 arguments, got %d", len(node.RangeArgs))
	}
	// The loop runs for index values lo, lo+1, ..., hi-1; Repeated closes
	// over an inclusive upper bound, so the last index it sees is hi-1.
	upper := symbolic.Sub(hi, symbolic.Int(1))

	inner := scope.New(sc, []string{node.Target})
	iterVar, _ := inner.Lookup(node.Target)

	if err := in.execBlock(inner, node.Body); err != nil {
		return err
	}

	for _, eff := range inner.Effects() {
		closed, err := recurrence.Repeated(eff.Symbol, iterVar, eff.Expr, lo, upper)
		if err != nil {
			return diag.New(diag.UnsupportedRecurrence, node.Line, node.Col, "%s", err)
		}
		sc.AddEffect(eff.Symbol, closed)
	}
	in.log(node.Line-1, "%s iterations", symbolic.Sub(hi, lo))
	return nil
}

func (in *Interpreter) execWhile(sc *scope.Scope, node *ast.While) error {
	test, err := in.evalExpr(sc, node.Test)
	if err != nil {
		return err
	}
	rel, ok := asSingleRel(test)
	if !ok {
		return diag.New(diag.UnsupportedSyntax, node.Line, node.Col,
			"while loop test must be a single comparison, not a conjunction")
	}
	testVars := symbolic.FreeSymbols(test)

	inner := scope.New(sc, nil)
	if err := in.execBlock(inner, node.Body); err != nil {
		return err
	}

	changed := inner.ChangedVars()
	progressed := false
	for v := range testVars {
		if changed[v] {
			progressed = true
			break
		}
	}
	if !progressed {
		return diag.New(diag.NoProgress, node.Line, node.Col,
			"no variable in the loop test is changed by the loop body")
	}

	iterVar := symbolic.NewSymbol("k")
	iterations := symbolic.NewSymbol("K")

	closed := make(map[*symbolic.Symbol]symbolic.Expr, len(inner.Effects()))
	for _, eff := range inner.Effects() {
		c, err := recurrence.Repeated(eff.Symbol, iterVar, eff.Expr, symbolic.Int(1), iterations)
		if err != nil {
			return diag.New(diag.UnsupportedRecurrence, node.Line, node.Col, "%s", err)
		}
		closed[eff.Symbol] = sc.Affect(c)
	}

	terminationExpr := symbolic.TerminationFunction(rel)
	terminationExpr = symbolic.Subs(terminationExpr, closed)
	its, err := symbolic.Solve(terminationExpr, iterations)
	if err != nil {
		return diag.New(diag.UnsolvableTermination, node.Line, node.Col, "%s", err)
	}

	for sym, expr := range closed {
		final := symbolic.Subs(expr, map[*symbolic.Symbol]symbolic.Expr{iterations: its})
		sc.AddEffect(sym, final)
	}
	in.log(node.Line-1, "%s iterations", its)
	return nil
}

// asSingleRel reports whether test is exactly one comparison (a chained
// comparison like `a < b < c` desugars to a conjunction of two, which a
// while-test does not support: the termination function is only defined
// for a single relation).
func asSingleRel(e symbolic.Expr) (symbolic.Rel, bool) {
	rel, ok := e.(symbolic.Rel)
	return rel, ok
}

func (in *Interpreter) evalExpr(sc *scope.Scope, expr ast.Expr) (symbolic.Expr, error) {
	switch node := expr.(type) {
	case *ast.Num:
		return symbolic.Int(node.N), nil

	case *ast.Name:
		sym, err := lookup(sc, node.Id, node.Line, node.Col)
		if err != nil {
			return nil, err
		}
		return sym, nil

	case *ast.BinOp:
		left, err := in.evalExpr(sc, node.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.evalExpr(sc, node.Right)
		if err != nil {
			return nil, err
		}
		return applyBinOp(node.Op, left, right), nil

	case *ast.Compare:
		left, err := in.evalExpr(sc, node.Left)
		if err != nil {
			return nil, err
		}
		var terms []symbolic.Expr
		prev := left
		for idx, op := range node.Ops {
			right, err := in.evalExpr(sc, node.Comparators[idx])
			if err != nil {
				return nil, err
			}
			terms = append(terms, symbolic.Rel{Lhs: prev, Rhs: right, Op: compareOp(op)})
			prev = right
		}
		if len(terms) == 1 {
			return terms[0], nil
		}
		return symbolic.And{Terms: terms}, nil

	case *ast.Call:
		return nil, diag.New(diag.UnsupportedSyntax, node.Line, node.Col,
			"calls are only supported as a for-loop's range(...) iterator")

	default:
		line, col := expr.Pos()
		return nil, diag.New(diag.UnsupportedSyntax, line, col, "unsupported expression node %T", expr)
	}
}

func applyBinOp(op ast.BinOpKind, left, right symbolic.Expr) symbolic.Expr {
	switch op {
	case ast.OpAdd:
		return symbolic.Sum(left, right)
	case ast.OpSub:
		return symbolic.Sub(left, right)
	case ast.OpMul:
		return symbolic.Prod(left, right)
	case ast.OpDiv:
		return symbolic.Div(left, right)
	default: // ast.OpAnd
		return symbolic.And{Terms: []symbolic.Expr{left, right}}
	}
}

func augToBinOp(op ast.AugOp) ast.BinOpKind {
	switch op {
	case ast.AugAdd:
		return ast.OpAdd
	case ast.AugSub:
		return ast.OpSub
	case ast.AugMul:
		return ast.OpMul
	default:
		return ast.OpDiv
	}
}

func compareOp(op ast.CompareOp) symbolic.RelOp {
	switch op {
	case ast.CmpLt:
		return symbolic.Lt
	case ast.CmpLte:
		return symbolic.Lte
	case ast.CmpGt:
		return symbolic.Gt
	default:
		return symbolic.Gte
	}
}
