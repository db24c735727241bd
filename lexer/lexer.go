// Package lexer implements the lexical analyzer for the restricted
// imperative language analyzed by this tool.
//
// The lexer turns source text into a flat token stream. Blocks are
// delimited by indentation (as in the worked examples of the
// specification), so on top of ordinary tokenization the lexer tracks a
// stack of indentation widths and synthesizes INDENT, DEDENT, and NEWLINE
// tokens the way a Python-style tokenizer would; the parser never has to
// reason about whitespace itself.
//
// The main entry point is [New], which creates a [Lexer] over an input
// string, and [Lexer.NextToken], which returns tokens one at a time.
package lexer

import (
	"github.com/Mortal/complexity/token"
)

// Lexer scans source text into a stream of tokens.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	col          int

	// indents is the stack of currently open indentation widths; indents[0]
	// is always 0 (column of the outermost block).
	indents []int

	// atLineStart is true when the next token to be produced should first
	// resolve indentation (i.e. we are positioned just after a newline).
	atLineStart bool

	// pending holds synthesized tokens (INDENT/DEDENT/NEWLINE) waiting to be
	// returned before scanning resumes.
	pending []token.Token

	// parenDepth tracks how many '(' are currently open; inside parentheses,
	// newlines are insignificant (not needed by this grammar's call forms,
	// but keeps `range(a, b)` safe to write across Indent-sensitive edits).
	parenDepth int
}

// New creates a new [Lexer] over input.
func New(input string) *Lexer {
	l := &Lexer{
		input:       input,
		line:        1,
		col:         -1,
		indents:     []int{0},
		atLineStart: true,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token in the input stream.
func (l *Lexer) NextToken() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	if l.atLineStart && l.parenDepth == 0 {
		if tok, ok := l.resolveIndentation(); ok {
			return tok
		}
	}

	l.skipInlineWhitespaceAndComments()

	line, col := l.line, l.col

	if l.ch == '\n' {
		l.readChar()
		l.atLineStart = true
		if l.parenDepth > 0 {
			return l.NextToken()
		}
		return token.Token{Type: token.NEWLINE, Literal: "\n", Line: line, Col: col}
	}

	if l.ch == 0 {
		if len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			return token.Token{Type: token.DEDENT, Literal: "", Line: line, Col: col}
		}
		return token.Token{Type: token.EOF, Literal: "", Line: line, Col: col}
	}

	switch l.ch {
	case '+':
		return l.twoCharOr(token.PLUS_EQ, token.PLUS, '=', line, col)
	case '-':
		return l.twoCharOr(token.MINUS_EQ, token.MINUS, '=', line, col)
	case '*':
		return l.twoCharOr(token.ASTERISK_EQ, token.ASTERISK, '=', line, col)
	case '/':
		return l.twoCharOr(token.SLASH_EQ, token.SLASH, '=', line, col)
	case '=':
		l.readChar()
		return token.Token{Type: token.ASSIGN, Literal: "=", Line: line, Col: col}
	case '<':
		return l.twoCharOr(token.LTE, token.LT, '=', line, col)
	case '>':
		return l.twoCharOr(token.GTE, token.GT, '=', line, col)
	case ',':
		l.readChar()
		return token.Token{Type: token.COMMA, Literal: ",", Line: line, Col: col}
	case ':':
		l.readChar()
		return token.Token{Type: token.COLON, Literal: ":", Line: line, Col: col}
	case ';':
		l.readChar()
		return token.Token{Type: token.SEMICOLON, Literal: ";", Line: line, Col: col}
	case '(':
		l.parenDepth++
		l.readChar()
		return token.Token{Type: token.LPAREN, Literal: "(", Line: line, Col: col}
	case ')':
		if l.parenDepth > 0 {
			l.parenDepth--
		}
		l.readChar()
		return token.Token{Type: token.RPAREN, Literal: ")", Line: line, Col: col}
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(ident), Literal: ident, Line: line, Col: col}
	}
	if isDigit(l.ch) {
		num := l.readNumber()
		return token.Token{Type: token.INT, Literal: num, Line: line, Col: col}
	}

	ch := l.ch
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Literal: string(ch), Line: line, Col: col}
}

// resolveIndentation consumes leading whitespace on a fresh line and
// synthesizes INDENT/DEDENT tokens by comparing against the indent stack. It
// reports ok=false when the line is blank or a comment and scanning should
// continue without producing a structural token.
func (l *Lexer) resolveIndentation() (token.Token, bool) {
	line := l.line
	width := 0
	for l.ch == ' ' || l.ch == '\t' {
		width++
		l.readChar()
	}
	if l.ch == '\n' || l.ch == '#' || l.ch == 0 {
		// Blank or comment-only line: no structural token, let NextToken
		// consume the newline/comment/EOF normally. Leave atLineStart set so
		// indentation is re-evaluated on the next non-blank line.
		return token.Token{}, false
	}

	l.atLineStart = false
	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		return token.Token{Type: token.INDENT, Literal: "", Line: line, Col: width}, true
	case width < top:
		var toks []token.Token
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			toks = append(toks, token.Token{Type: token.DEDENT, Literal: "", Line: line, Col: width})
		}
		l.pending = append(l.pending, toks[1:]...)
		return toks[0], true
	default:
		return token.Token{}, false
	}
}

func (l *Lexer) twoCharOr(twoType, oneType token.Type, second byte, line, col int) token.Token {
	lit := string(l.ch)
	if l.peekChar() == second {
		l.readChar()
		lit += string(l.ch)
		l.readChar()
		return token.Token{Type: twoType, Literal: lit, Line: line, Col: col}
	}
	l.readChar()
	return token.Token{Type: oneType, Literal: lit, Line: line, Col: col}
}

// skipInlineWhitespaceAndComments advances past spaces/tabs and `#`
// line-comments, but never past a newline (NEWLINE is a significant token
// produced by the caller).
func (l *Lexer) skipInlineWhitespaceAndComments() {
	for {
		if l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
			continue
		}
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}
