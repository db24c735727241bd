package lexer

import (
	"testing"

	"github.com/Mortal/complexity/token"
)

// TestNextToken exercises the flat-token cases (operators, delimiters,
// keywords) that don't involve indentation tracking.
func TestNextToken(t *testing.T) {
	input := "x = 5; y += x * 2 - 1 / 3\n"

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "y"},
		{token.PLUS_EQ, "+="},
		{token.IDENT, "x"},
		{token.ASTERISK, "*"},
		{token.INT, "2"},
		{token.MINUS, "-"},
		{token.INT, "1"},
		{token.SLASH, "/"},
		{token.INT, "3"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong type. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

// TestKeywords checks that every reserved word in the grammar lexes to
// its own token type rather than IDENT.
func TestKeywords(t *testing.T) {
	input := "def return for in while and range\n"
	want := []token.Type{
		token.DEF, token.RETURN, token.FOR, token.IN, token.WHILE, token.AND, token.RANGE,
	}
	l := New(input)
	for i, want := range want {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("word[%d]: expected %q, got %q", i, want, tok.Type)
		}
	}
}

// TestIndentation checks that an indented block produces a matching
// INDENT/DEDENT pair around its statements, as the parser's block rule
// requires.
func TestIndentation(t *testing.T) {
	input := "def f(n):\n    s = 0\n    return s\n"

	var types []token.Type
	l := New(input)
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}

	want := []token.Type{
		token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.RETURN, token.IDENT, token.NEWLINE,
		token.DEDENT,
		token.EOF,
	}
	if len(types) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token[%d]: got %q, want %q (full: %v)", i, types[i], want[i], types)
		}
	}
}

// TestNestedDedent checks that closing two levels of indentation at
// once (a common case at the end of a nested loop body) emits one
// DEDENT per level, not a single DEDENT.
func TestNestedDedent(t *testing.T) {
	input := "def f(n):\n    for i in range(n):\n        s += 1\n    return s\n"

	var types []token.Type
	l := New(input)
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}

	dedents := 0
	indents := 0
	for _, ty := range types {
		if ty == token.DEDENT {
			dedents++
		}
		if ty == token.INDENT {
			indents++
		}
	}
	if indents != 2 || dedents != 2 {
		t.Fatalf("expected 2 INDENT and 2 DEDENT, got %d/%d (tokens: %v)", indents, dedents, types)
	}
}

// TestCommentsAndBlankLines checks that comment-only and blank lines
// don't disturb indentation tracking.
func TestCommentsAndBlankLines(t *testing.T) {
	input := "def f(n):\n    # a comment\n\n    return n\n"
	l := New(input)
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	// Exactly one INDENT/DEDENT pair, despite the intervening blank and
	// comment lines.
	indents, dedents := 0, 0
	for _, ty := range types {
		if ty == token.INDENT {
			indents++
		}
		if ty == token.DEDENT {
			dedents++
		}
	}
	if indents != 1 || dedents != 1 {
		t.Fatalf("expected 1 INDENT and 1 DEDENT, got %d/%d (tokens: %v)", indents, dedents, types)
	}
}
