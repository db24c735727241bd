package report

import (
	"strings"
	"testing"

	"github.com/Mortal/complexity/interp"
	"github.com/Mortal/complexity/symbolic"
)

func TestFormatWithOutput(t *testing.T) {
	n := symbolic.NewSymbol("n")
	results := []*interp.FunctionResult{
		{Name: "f", Param: n, BigO: symbolic.Power(n, symbolic.Int(2)), Output: n, HasOutput: true},
	}
	got := Format(results)
	want := "Function f: O(n^2)\nResult: n\n"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestFormatWithoutOutput(t *testing.T) {
	n := symbolic.NewSymbol("n")
	results := []*interp.FunctionResult{
		{Name: "f", Param: n, BigO: n, HasOutput: false},
	}
	got := Format(results)
	if strings.Contains(got, "Result:") {
		t.Fatalf("expected no Result line for a function without a return, got %q", got)
	}
}

func TestFormatSeparatesMultipleFunctions(t *testing.T) {
	n := symbolic.NewSymbol("n")
	results := []*interp.FunctionResult{
		{Name: "f", Param: n, BigO: symbolic.Int(1), HasOutput: false},
		{Name: "g", Param: n, BigO: n, HasOutput: false},
	}
	got := Format(results)
	if !strings.Contains(got, "Function f: O(1)\n\nFunction g: O(n)\n") {
		t.Fatalf("expected a blank line between function blocks, got %q", got)
	}
}
