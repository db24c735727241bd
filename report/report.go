// Package report formats analyzed functions into the tool's stable
// output format: one block per function, naming its Big-O complexity
// against its first parameter and, if it returns a value, the value's
// closed form.
package report

import (
	"fmt"
	"strings"

	"github.com/Mortal/complexity/interp"
)

// Format renders results as the stable report block form:
//
//	Function <name>: O(<expr>)
//	Result: <expr>
//
// with a blank line between functions. The Result line is omitted for a
// function that has no return statement.
func Format(results []*interp.FunctionResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Function %s: O(%s)\n", r.Name, r.BigO)
		if r.HasOutput {
			fmt.Fprintf(&b, "Result: %s\n", r.Output)
		}
	}
	return b.String()
}
