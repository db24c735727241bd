// Package diag implements the structured diagnostics this tool reports
// for source it cannot analyze: each [Diagnostic] carries a [Kind], a
// message, and a source position, and can render itself as a source
// excerpt with a caret pointing at the offending column, in the spirit of
// [Consensys-go-corset]'s SyntaxError but specialized to this tool's
// fixed set of error kinds.
//
// [Consensys-go-corset]: github.com/Consensys/go-corset
package diag

import (
	"fmt"
	"strings"
)

// Kind enumerates the error conditions this tool can report. Every
// failure to fully analyze a function falls into exactly one of these.
type Kind int

const (
	// UnsupportedSyntax marks source using a construct outside the
	// restricted grammar (a conditional, multiple assignment targets, a
	// call to anything but range, a 3-argument range, ...).
	UnsupportedSyntax Kind = iota
	// UnsupportedRecurrence marks a loop body whose per-iteration
	// effect on some variable has no closed form this tool recognizes.
	UnsupportedRecurrence
	// NoProgress marks a while loop whose test does not mention any
	// variable the loop body actually changes, so no iteration count can
	// be derived.
	NoProgress
	// UnsolvableTermination marks a while loop whose termination
	// function could not be solved for the iteration count.
	UnsolvableTermination
	// MultipleReturns marks a function with more than one return
	// statement.
	MultipleReturns
	// UnknownName marks a reference to a variable that was never
	// assigned or bound as a parameter.
	UnknownName
)

func (k Kind) String() string {
	switch k {
	case UnsupportedSyntax:
		return "unsupported syntax"
	case UnsupportedRecurrence:
		return "unsupported recurrence"
	case NoProgress:
		return "no progress"
	case UnsolvableTermination:
		return "unsolvable termination"
	case MultipleReturns:
		return "multiple returns"
	case UnknownName:
		return "unknown name"
	default:
		return "unknown diagnostic"
	}
}

// Diagnostic is a single positioned error.
type Diagnostic struct {
	Kind    Kind
	Msg     string
	Line    int
	Col     int
	Func    string
}

// New constructs a Diagnostic at the given position.
func New(kind Kind, line, col int, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

// InFunc returns a copy of d attributed to the enclosing function name,
// for diagnostics that should say which function they aborted.
func (d *Diagnostic) InFunc(name string) *Diagnostic {
	cp := *d
	cp.Func = name
	return &cp
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Func != "" {
		return fmt.Sprintf("%d:%d: in %s: %s: %s", d.Line, d.Col, d.Func, d.Kind, d.Msg)
	}
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, d.Kind, d.Msg)
}

// Render formats d as a source excerpt with a caret under the offending
// column, followed by the message — the "%s\n%s^\n%d:%d: %s: %s" shape a
// terminal error report takes.
func (d *Diagnostic) Render(source string) string {
	lines := strings.Split(source, "\n")
	var b strings.Builder
	if d.Line >= 1 && d.Line <= len(lines) {
		line := lines[d.Line-1]
		b.WriteString(line)
		b.WriteByte('\n')
		col := d.Col
		if col < 0 {
			col = 0
		}
		b.WriteString(strings.Repeat(" ", col))
		b.WriteString("^\n")
	}
	b.WriteString(d.Error())
	return b.String()
}
