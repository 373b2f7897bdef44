package insight

import (
	"fmt"
	"strings"

	"github.com/noirscope/noirscope/metrics"
)

// bestPracticeRule emits circuit-wide findings from the aggregate totals.
type bestPracticeRule struct{}

func (bestPracticeRule) ID() string { return "best-practice" }

func (bestPracticeRule) Run(ctx *Context) []Suggestion {
	var out []Suggestion
	report := ctx.Report
	cfg := ctx.Config

	if report.GateCount > cfg.LargeCircuitThreshold {
		savings := scaled(cfg.LargeCircuitFactor, report.GateCount, 0)
		out = append(out, Suggestion{
			ID:       "bp-large-circuit",
			Severity: SeverityHigh,
			Category: "best-practice",
			Title:    fmt.Sprintf("Circuit exceeds %d gates", cfg.LargeCircuitThreshold),
			Description: "Proving time and memory grow with gate count. Split the circuit into smaller pieces " +
				"or move witness-only computation into unconstrained functions.",
			Impact: Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
		})
	}

	if report.GateCount > cfg.RecursionThreshold && !strings.Contains(ctx.Source, cfg.RecursionMarker) {
		savings := scaled(cfg.RecursionFactor, report.GateCount, 0)
		out = append(out, Suggestion{
			ID:       "bp-recursion",
			Severity: SeverityMedium,
			Category: "best-practice",
			Title:    "Consider recursive proof composition",
			Description: "The circuit is large enough that verifying sub-proofs recursively may be cheaper than " +
				"proving everything in one circuit.",
			Impact:       Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
			LearnMoreURL: "https://noir-lang.org/docs/explainers/explainer-recursion",
		})
	}

	for _, fn := range allFunctions(report) {
		if fn.Name == cfg.EntryPoint {
			continue
		}
		if percentOfTotal(fn.TotalCost, report.TotalCost) > cfg.DominantFunctionShare {
			savings := scaled(cfg.DominantFunctionFactor, fn.TotalCost, 0)
			out = append(out, Suggestion{
				ID:       "bp-dominant-" + fn.Name,
				Line:     fn.StartLine,
				Severity: SeverityMedium,
				Category: "best-practice",
				Title:    fmt.Sprintf("Function %q dominates circuit cost", fn.Name),
				Description: fmt.Sprintf("%q accounts for more than half of the total cost. Splitting it up or "+
					"reducing its constrained work has the largest single payoff.", fn.Name),
				Impact: Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
			})
		}
	}

	if report.ACIROps > cfg.ACIRThreshold {
		savings := scaled(cfg.ACIRFactor, report.ACIROps, 0)
		out = append(out, Suggestion{
			ID:       "bp-acir-count",
			Severity: SeverityMedium,
			Category: "best-practice",
			Title:    fmt.Sprintf("High constrained opcode count (%d)", report.ACIROps),
			Description: "A large ACIR opcode count drives proof size. Audit range checks and equality " +
				"assertions; redundant constraints are a common cause.",
			Impact: Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
		})
	}

	return out
}

func percentOfTotal(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}

func allFunctions(r *metrics.ComplexityReport) []metrics.FunctionMetric {
	var out []metrics.FunctionMetric
	for i := range r.Files {
		out = append(out, r.Files[i].Functions...)
	}
	return out
}
