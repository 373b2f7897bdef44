package insight

import (
	"fmt"
	"strings"
)

// Dynamic collection markers in Noir sources.
var (
	dynArrayCtors = []string{"Vec::new", "BoundedVec::new"}
	pushMethods   = []string{".push(", ".push_back(", ".append(", ".extend_from_array("}
)

// arrayRule flags dynamic collections. Fixed-size arrays compile to cheaper
// circuits than growable vectors.
type arrayRule struct{}

func (arrayRule) ID() string { return "array" }

func (arrayRule) Run(ctx *Context) []Suggestion {
	var out []Suggestion
	for i, src := range ctx.Lines {
		code := stripComment(src)
		line := i + 1

		if containsAny(code, dynArrayCtors) {
			out = append(out, Suggestion{
				ID:       fmt.Sprintf("array-dyn-%d", line),
				Line:     line,
				Severity: SeverityMedium,
				Category: "array",
				Title:    "Dynamic array construction",
				Description: "Growable vectors carry bookkeeping constraints for every access. A fixed-size " +
					"array with a known length compiles to a smaller circuit.",
				Impact:      Impact{EstimatedSavings: 30, SavingsPercent: 0.5},
				CodeSnippet: strings.TrimSpace(src),
			})
		}
		if containsAny(code, pushMethods) {
			out = append(out, Suggestion{
				ID:       fmt.Sprintf("array-push-%d", line),
				Line:     line,
				Severity: SeverityLow,
				Category: "array",
				Title:    "Append to dynamic array",
				Description: "Each append re-constrains the collection length. Preallocating a fixed-size array " +
					"and writing by index avoids that overhead.",
				Impact:      Impact{EstimatedSavings: 10, SavingsPercent: 0.2},
				CodeSnippet: strings.TrimSpace(src),
			})
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
