// Package parser implements the syntactic analyzer for the restricted
// imperative language analyzed by this tool.
//
// The parser takes a token stream from the lexer and constructs the AST
// described by the specification's parser contract: a Module of
// FunctionDefs, each with a body of statements (Assign, AugAssign, Return,
// For, While) built from expressions (BinOp, Compare, Call, Name, Num). It
// is a recursive-descent parser with Pratt parsing (precedence climbing)
// for expressions, following the same shape as a typical hand-written
// interpreter front end.
//
// Anything outside the supported grammar subset (conditionals, multiple
// assignment targets, calls other than range, 3-argument range, and so on)
// is rejected with a positioned error rather than silently accepted; the
// interpreter relies on the parser to have already ruled these out for most
// node kinds, and only needs to re-check the shape of For's iterator.
package parser

import (
	"fmt"
	"strconv"

	"github.com/Mortal/complexity/ast"
	"github.com/Mortal/complexity/lexer"
	"github.com/Mortal/complexity/token"
)

// ParseError is a single positioned syntax error.
type ParseError struct {
	Msg  string
	Line int
	Col  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

const (
	_ int = iota

	// Lowest is the lowest expression precedence.
	Lowest
	// AndPrec is the precedence of the `and` operator.
	AndPrec
	// Compares is the precedence of comparison operators.
	Compares
	// Sum is the precedence of `+`/`-`.
	Sum
	// Product is the precedence of `*`/`/`.
	Product
)

var precedences = map[token.Type]int{
	token.AND:      AndPrec,
	token.LT:       Compares,
	token.LTE:      Compares,
	token.GT:       Compares,
	token.GTE:      Compares,
	token.PLUS:     Sum,
	token.MINUS:    Sum,
	token.ASTERISK: Product,
	token.SLASH:    Product,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser is a recursive-descent/Pratt parser over a token stream.
type Parser struct {
	l      *lexer.Lexer
	errors []ParseError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a new [Parser] reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT: p.parseIdentOrCall,
		token.INT:   p.parseNum,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinOp,
		token.MINUS:    p.parseBinOp,
		token.ASTERISK: p.parseBinOp,
		token.SLASH:    p.parseBinOp,
		token.AND:      p.parseBinOp,
		token.LT:       p.parseCompare,
		token.LTE:      p.parseCompare,
		token.GT:       p.parseCompare,
		token.GTE:      p.parseCompare,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the syntax errors accumulated while parsing.
func (p *Parser) Errors() []ParseError { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) errorf(line, col int, format string, args ...any) {
	p.errors = append(p.errors, ParseError{Msg: fmt.Sprintf(format, args...), Line: line, Col: col})
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Line, p.peekToken.Col, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return Lowest
}

// skipNewlines consumes any run of NEWLINE tokens (blank lines between
// statements).
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.nextToken()
	}
}

// ParseModule parses an entire source file into a [ast.Module].
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{}
	p.skipNewlines()
	for !p.curIs(token.EOF) {
		if p.curIs(token.DEF) {
			if fn := p.parseFunctionDef(); fn != nil {
				mod.Functions = append(mod.Functions, fn)
			}
		} else {
			p.errorf(p.curToken.Line, p.curToken.Col, "expected a function definition, got %s", p.curToken.Type)
			p.nextToken()
		}
		p.skipNewlines()
	}
	return mod
}

func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	line, col := p.curToken.Line, p.curToken.Col
	if !p.expect(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expect(token.LPAREN) {
		return nil
	}
	var params []string
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		params = append(params, p.curToken.Literal)
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			params = append(params, p.curToken.Literal)
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.COLON) {
		return nil
	}
	body := p.parseBlock()
	return &ast.FunctionDef{Position: ast.Position{Line: line, Col: col}, Name: name, Params: params, Body: body}
}

// parseBlock parses a block of statements, accepting either an indented
// block (after a NEWLINE and INDENT) or an inline statement sequence
// following the colon on the same line (e.g. `def f(n): s = 0; return s`).
// Within either form, ';' separates sibling statements on the same line.
func (p *Parser) parseBlock() []ast.Stmt {
	if p.peekIs(token.NEWLINE) {
		p.nextToken()
		p.skipNewlines()
		if !p.curIs(token.INDENT) {
			p.errorf(p.curToken.Line, p.curToken.Col, "expected an indented block, got %s", p.curToken.Type)
			return nil
		}
		p.nextToken()
		var stmts []ast.Stmt
		for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
			if p.curIs(token.NEWLINE) {
				p.nextToken()
				continue
			}
			stmts = append(stmts, p.parseStmtLine()...)
		}
		if p.curIs(token.DEDENT) {
			// Consume the DEDENT that closes this block; an enclosing block's
			// own DEDENT (if any) is a separate token further down the
			// stream, queued by the lexer one per indentation level.
			p.nextToken()
		}
		return stmts
	}

	p.nextToken()
	return p.parseStmtLine()
}

// parseStmtLine parses one or more ';'-separated statements written on a
// single logical line. Each call to parseStmt leaves curToken already
// positioned on whatever follows that statement, so this only needs to
// swallow a ';' separator and continue.
func (p *Parser) parseStmtLine() []ast.Stmt {
	var stmts []ast.Stmt
	for {
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
		if !p.curIs(token.SEMICOLON) {
			break
		}
		p.nextToken()
		if p.curIs(token.NEWLINE) || p.curIs(token.DEDENT) || p.curIs(token.EOF) {
			break
		}
	}
	return stmts
}

// parseStmt parses a single statement and, for statement forms that end in
// an expression rather than a nested block (Return, Assign, AugAssign),
// advances curToken past the expression's last token so that every
// statement form uniformly leaves curToken positioned on whatever follows
// it (a ';', NEWLINE, DEDENT, or EOF) — the same position a nested-block
// statement (For, While) already leaves curToken in after consuming its
// body.
func (p *Parser) parseStmt() ast.Stmt {
	switch p.curToken.Type {
	case token.RETURN:
		s := p.parseReturn()
		p.nextToken()
		return s
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.IDENT:
		s := p.parseAssignLike()
		p.nextToken()
		return s
	default:
		p.errorf(p.curToken.Line, p.curToken.Col, "unsupported statement starting with %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseReturn() ast.Stmt {
	line, col := p.curToken.Line, p.curToken.Col
	p.nextToken()
	val := p.parseExpr(Lowest)
	return &ast.Return{Position: ast.Position{Line: line, Col: col}, Value: val}
}

func (p *Parser) parseAssignLike() ast.Stmt {
	line, col := p.curToken.Line, p.curToken.Col
	target := p.curToken.Literal

	switch p.peekToken.Type {
	case token.ASSIGN:
		p.nextToken()
		p.nextToken()
		val := p.parseExpr(Lowest)
		return &ast.Assign{Position: ast.Position{Line: line, Col: col}, Target: target, Value: val}
	case token.PLUS_EQ, token.MINUS_EQ, token.ASTERISK_EQ, token.SLASH_EQ:
		op := augOpFor(p.peekToken.Type)
		p.nextToken()
		p.nextToken()
		val := p.parseExpr(Lowest)
		return &ast.AugAssign{Position: ast.Position{Line: line, Col: col}, Target: target, Op: op, Value: val}
	default:
		p.errorf(p.peekToken.Line, p.peekToken.Col, "expected assignment operator, got %s", p.peekToken.Type)
		return nil
	}
}

func augOpFor(t token.Type) ast.AugOp {
	switch t {
	case token.PLUS_EQ:
		return ast.AugAdd
	case token.MINUS_EQ:
		return ast.AugSub
	case token.ASTERISK_EQ:
		return ast.AugMul
	default:
		return ast.AugDiv
	}
}

func (p *Parser) parseFor() ast.Stmt {
	line, col := p.curToken.Line, p.curToken.Col
	if !p.expect(token.IDENT) {
		return nil
	}
	target := p.curToken.Literal
	if !p.expect(token.IN) {
		return nil
	}
	if !p.expect(token.RANGE) {
		return nil
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()
	var args []ast.Expr
	args = append(args, p.parseExpr(Lowest))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpr(Lowest))
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if len(args) > 2 {
		p.errorf(line, col, "range() accepts at most 2 arguments, got %d", len(args))
	}
	if !p.expect(token.COLON) {
		return nil
	}
	body := p.parseBlock()
	return &ast.For{Position: ast.Position{Line: line, Col: col}, Target: target, RangeArgs: args, Body: body}
}

func (p *Parser) parseWhile() ast.Stmt {
	line, col := p.curToken.Line, p.curToken.Col
	p.nextToken()
	test := p.parseExpr(Lowest)
	if !p.expect(token.COLON) {
		return nil
	}
	body := p.parseBlock()
	return &ast.While{Position: ast.Position{Line: line, Col: col}, Test: test, Body: body}
}

func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken.Line, p.curToken.Col, "unexpected token %s in expression", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.NEWLINE) && !p.peekIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNum() ast.Expr {
	line, col := p.curToken.Line, p.curToken.Col
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(line, col, "invalid integer literal %q", p.curToken.Literal)
		return nil
	}
	return &ast.Num{Position: ast.Position{Line: line, Col: col}, N: v}
}

func (p *Parser) parseIdentOrCall() ast.Expr {
	line, col := p.curToken.Line, p.curToken.Col
	name := p.curToken.Literal
	if !p.peekIs(token.LPAREN) {
		return &ast.Name{Position: ast.Position{Line: line, Col: col}, Id: name}
	}
	p.nextToken()
	p.nextToken()
	var args []ast.Expr
	if !p.curIs(token.RPAREN) {
		args = append(args, p.parseExpr(Lowest))
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			args = append(args, p.parseExpr(Lowest))
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
	}
	if name != string(token.RANGE) && name != "range" {
		p.errorf(line, col, "unsupported call to %q: only range() is callable in this language", name)
	}
	return &ast.Call{Position: ast.Position{Line: line, Col: col}, Func: name, Args: args}
}

func (p *Parser) parseBinOp(left ast.Expr) ast.Expr {
	line, col := p.curToken.Line, p.curToken.Col
	op := binOpFor(p.curToken.Type)
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(precedence)
	return &ast.BinOp{Position: ast.Position{Line: line, Col: col}, Left: left, Op: op, Right: right}
}

func binOpFor(t token.Type) ast.BinOpKind {
	switch t {
	case token.PLUS:
		return ast.OpAdd
	case token.MINUS:
		return ast.OpSub
	case token.ASTERISK:
		return ast.OpMul
	case token.SLASH:
		return ast.OpDiv
	default:
		return ast.OpAnd
	}
}

// parseCompare parses a (possibly chained) comparison. Each subsequent
// comparison operator seen at the same precedence extends the same
// [ast.Compare] node, matching the chained-compare semantics of
// `a < b < c`.
func (p *Parser) parseCompare(left ast.Expr) ast.Expr {
	line, col := p.curToken.Line, p.curToken.Col
	cmp, ok := left.(*ast.Compare)
	if !ok {
		cmp = &ast.Compare{Position: ast.Position{Line: line, Col: col}, Left: left}
	}
	op := compareOpFor(p.curToken.Type)
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(precedence)
	cmp.Ops = append(cmp.Ops, op)
	cmp.Comparators = append(cmp.Comparators, right)
	return cmp
}

func compareOpFor(t token.Type) ast.CompareOp {
	switch t {
	case token.LT:
		return ast.CmpLt
	case token.LTE:
		return ast.CmpLte
	case token.GT:
		return ast.CmpGt
	default:
		return ast.CmpGte
	}
}
