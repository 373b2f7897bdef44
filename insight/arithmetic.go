package insight

import (
	"fmt"
	"strings"
)

// arithmeticRule flags field divisions. Division constrains an inverse
// computation and is far more expensive than multiplication.
type arithmeticRule struct{}

func (arithmeticRule) ID() string { return "arithmetic" }

func (arithmeticRule) Run(ctx *Context) []Suggestion {
	var out []Suggestion
	for i, src := range ctx.Lines {
		code := stripComment(src)
		if !strings.Contains(code, "/") {
			continue
		}
		line := i + 1
		gates := 0
		if lm := ctx.LineCost(line); lm != nil {
			gates = lm.GateCount
		}
		savings := scaled(ctx.Config.DivisionFactor, gates, ctx.Config.DivisionFallback)
		out = append(out, Suggestion{
			ID:       fmt.Sprintf("arith-div-%d", line),
			Line:     line,
			Severity: SeverityMedium,
			Category: "arithmetic",
			Title:    "Division in constrained code",
			Description: "Field division is constrained as a multiplication by a witness inverse. If the divisor " +
				"is a constant, multiply by its precomputed inverse instead.",
			Impact:      Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
			CodeSnippet: strings.TrimSpace(src),
		})
	}
	return out
}

// stripComment drops a trailing // comment so a slash inside it does not count
// as a division.
func stripComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	return s
}
