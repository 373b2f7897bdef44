package insight

import (
	"fmt"
	"strings"
)

// hotspotRule emits one suggestion per hotspot line with a non-zero gate cost.
type hotspotRule struct{}

func (hotspotRule) ID() string { return "hotspot" }

func (hotspotRule) Run(ctx *Context) []Suggestion {
	var out []Suggestion
	for _, lm := range ctx.Report.Hotspots {
		if lm.GateCount == 0 {
			continue
		}
		severity := SeverityMedium
		switch {
		case lm.PercentOfCircuit >= ctx.Config.HotspotHighPercent:
			severity = SeverityHigh
		case lm.PercentOfCircuit < ctx.Config.HotspotLowPercent:
			severity = SeverityLow
		}
		savings := scaled(ctx.Config.HotspotFactor, lm.GateCount, 0)

		s := Suggestion{
			ID:       fmt.Sprintf("hotspot-line-%d", lm.Line),
			Line:     lm.Line,
			Severity: severity,
			Category: "hotspot",
			Title:    fmt.Sprintf("Line %d accounts for %.1f%% of circuit cost", lm.Line, lm.PercentOfCircuit),
			Description: fmt.Sprintf(
				"This line contributes %d gates. Restructuring the expression or moving work out of the constrained context may reduce proving cost.",
				lm.GateCount),
			Impact: Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
		}
		if lm.Line-1 >= 0 && lm.Line-1 < len(ctx.Lines) {
			s.CodeSnippet = strings.TrimSpace(ctx.Lines[lm.Line-1])
		}
		out = append(out, s)
	}
	return out
}
