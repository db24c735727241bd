package interp

import (
	"testing"

	"github.com/Mortal/complexity/lexer"
	"github.com/Mortal/complexity/parser"
)

func analyze(t *testing.T, src string) *FunctionResult {
	t.Helper()
	p := parser.New(lexer.New(src))
	mod := p.ParseModule()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	if len(mod.Functions) != 1 {
		t.Fatalf("expected exactly one function, got %d", len(mod.Functions))
	}
	res, err := New().AnalyzeFunction(mod.Functions[0])
	if err != nil {
		t.Fatalf("AnalyzeFunction(%q) error: %v", src, err)
	}
	return res
}

func TestNestedForLoopsQuadratic(t *testing.T) {
	src := "def f(n):\n" +
		"    s = 0\n" +
		"    for i in range(1, n+1):\n" +
		"        for j in range(1, i+1):\n" +
		"            s += 1\n" +
		"    return s\n"
	res := analyze(t, src)
	if res.BigO.String() != "n^2" {
		t.Fatalf("BigO = %s, want n^2", res.BigO)
	}
}

func TestNestedForLoopsCubic(t *testing.T) {
	src := "def f(n):\n" +
		"    s = 0\n" +
		"    for i in range(1, n+1):\n" +
		"        for j in range(1, i*i+1):\n" +
		"            s += 1\n" +
		"    return s\n"
	res := analyze(t, src)
	if res.BigO.String() != "n^3" {
		t.Fatalf("BigO = %s, want n^3", res.BigO)
	}
}

func TestTwoPointerWhileLinear(t *testing.T) {
	src := "def f(n):\n" +
		"    i = 0\n" +
		"    j = n\n" +
		"    while i <= j:\n" +
		"        i += 1\n" +
		"        j -= 1\n" +
		"    return i\n"
	res := analyze(t, src)
	if res.BigO.String() != "n" {
		t.Fatalf("BigO = %s, want n", res.BigO)
	}
}

func TestDoublingWhileIsLogarithmic(t *testing.T) {
	src := "def f(n):\n" +
		"    j = 1\n" +
		"    while j < n:\n" +
		"        j += j\n" +
		"    return j\n"
	res := analyze(t, src)
	if res.BigO.String() != "log(n)" {
		t.Fatalf("BigO = %s, want log(n)", res.BigO)
	}
}

func TestForLoopWrappingDoublingWhileIsLinearithmic(t *testing.T) {
	src := "def f(n):\n" +
		"    acc = 0\n" +
		"    for i in range(n):\n" +
		"        j = 1\n" +
		"        while j < n:\n" +
		"            j += j\n" +
		"            acc += 1\n" +
		"    return acc\n"
	res := analyze(t, src)
	// Canonical factor ordering sorts "log(n)" before "n" (lexically, 'l'
	// < 'n'), so the dominant term prints as "log(n)*n".
	if res.BigO.String() != "log(n)*n" {
		t.Fatalf("BigO = %s, want log(n)*n", res.BigO)
	}
}

func TestAffineBoundedWhileIsLinear(t *testing.T) {
	src := "def f(n):\n" +
		"    i = 37 * n\n" +
		"    s = 0\n" +
		"    while i < 53 * n:\n" +
		"        s += i\n" +
		"        i += 1\n" +
		"    return s\n"
	res := analyze(t, src)
	if res.BigO.String() != "n" {
		t.Fatalf("BigO = %s, want n", res.BigO)
	}
}

func TestFunctionWithoutReturnHasNoOutput(t *testing.T) {
	src := "def f(n):\n" +
		"    s = 0\n" +
		"    for i in range(n):\n" +
		"        s += 1\n"
	res := analyze(t, src)
	if res.HasOutput {
		t.Fatalf("expected no output for a function without a return statement")
	}
	if res.BigO.String() != "n" {
		t.Fatalf("BigO = %s, want n", res.BigO)
	}
}

func TestConstantComplexityForLoopFreeBody(t *testing.T) {
	src := "def f(n):\n" +
		"    return n + 1\n"
	res := analyze(t, src)
	if res.BigO.String() != "1" {
		t.Fatalf("BigO = %s, want 1", res.BigO)
	}
}

func TestNoParametersIsADiagnostic(t *testing.T) {
	p := parser.New(lexer.New("def f():\n    return 1\n"))
	mod := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	_, err := New().AnalyzeFunction(mod.Functions[0])
	if err == nil {
		t.Fatalf("expected an error analyzing a function with no parameters")
	}
}

func TestWhileTestNotChangedByBodyIsNoProgress(t *testing.T) {
	p := parser.New(lexer.New("def f(n):\n    s = 0\n    while s < n:\n        t = s\n    return s\n"))
	mod := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	_, err := New().AnalyzeFunction(mod.Functions[0])
	if err == nil {
		t.Fatalf("expected a NoProgress diagnostic when the body never changes the test's variables")
	}
}

func TestMultipleReturnsIsADiagnostic(t *testing.T) {
	p := parser.New(lexer.New("def f(n):\n    return n\n    return n\n"))
	mod := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	_, err := New().AnalyzeFunction(mod.Functions[0])
	if err == nil {
		t.Fatalf("expected an error for a function with two return statements")
	}
}
