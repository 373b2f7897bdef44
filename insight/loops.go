package insight

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Noir loop declaration, e.g. `for i in 0..SIZE {`.
var (
	loopDeclRe     = regexp.MustCompile(`\bfor\s+[A-Za-z_][A-Za-z0-9_]*\s+in\s+(\S+)`)
	literalBoundRe = regexp.MustCompile(`^(\d+)\s*\.\.=?\s*(\d+)$`)
)

// loopRule flags large literal loops, loops with dynamic bounds and loops nested
// within a short lookback window of another loop.
type loopRule struct{}

func (loopRule) ID() string { return "loop" }

func (loopRule) Run(ctx *Context) []Suggestion {
	var out []Suggestion
	for i, src := range ctx.Lines {
		m := loopDeclRe.FindStringSubmatch(src)
		if m == nil {
			continue
		}
		line := i + 1
		gates := 0
		if lm := ctx.LineCost(line); lm != nil {
			gates = lm.GateCount
		}
		snippet := strings.TrimSpace(src)

		if b := literalBoundRe.FindStringSubmatch(m[1]); b != nil {
			start, _ := strconv.Atoi(b[1])
			end, _ := strconv.Atoi(b[2])
			if end-start > ctx.Config.LoopIterationLimit {
				savings := scaled(ctx.Config.LargeLoopFactor, gates, ctx.Config.LargeLoopFallback)
				out = append(out, Suggestion{
					ID:       fmt.Sprintf("loop-large-%d", line),
					Line:     line,
					Severity: SeverityHigh,
					Category: "loop",
					Title:    fmt.Sprintf("Large loop with %d iterations", end-start),
					Description: "Every iteration is unrolled into the circuit. Reducing the bound, batching " +
						"work per iteration or moving the loop into an unconstrained function shrinks the circuit.",
					Impact:       Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
					CodeSnippet:  snippet,
					LearnMoreURL: "https://noir-lang.org/docs/noir/concepts/unconstrained",
				})
			}
		} else {
			savings := scaled(ctx.Config.DynamicLoopFactor, gates, ctx.Config.DynamicLoopFallback)
			out = append(out, Suggestion{
				ID:       fmt.Sprintf("loop-dynamic-%d", line),
				Line:     line,
				Severity: SeverityMedium,
				Category: "loop",
				Title:    "Loop bound is not a literal",
				Description: "The compiler must assume the maximum bound when unrolling. Prefer a literal or " +
					"comptime bound so unused iterations are not constrained.",
				Impact:      Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
				CodeSnippet: snippet,
			})
		}

		if ctx.LoopWithin(line, ctx.Config.LoopLookback) {
			savings := scaled(ctx.Config.NestedLoopFactor, gates, ctx.Config.NestedLoopFallback)
			out = append(out, Suggestion{
				ID:       fmt.Sprintf("loop-nested-%d", line),
				Line:     line,
				Severity: SeverityHigh,
				Category: "loop",
				Title:    "Nested loop multiplies circuit size",
				Description: "A loop declared within another loop multiplies the number of unrolled iterations. " +
					"Consider flattening or hoisting invariant work out of the inner loop.",
				Impact:      Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
				CodeSnippet: snippet,
			})
		}
	}
	return out
}
