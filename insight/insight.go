// Package insight derives ranked optimization suggestions from a complexity
// report and the circuit source.
//
// Detection is deliberately lexical: function and loop positions come from
// declaration regexes and fixed-size lookback windows, not from an AST. The
// rules are a heuristic layer; exact semantics would require real parsing, which
// is out of scope.
package insight

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/noirscope/noirscope/logger"
	"github.com/noirscope/noirscope/metrics"
)

// Severity grades a suggestion. High sorts before medium, medium before low.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Impact estimates what a suggestion could save if applied.
type Impact struct {
	EstimatedSavings int     `json:"estimatedSavings"`
	SavingsPercent   float64 `json:"savingsPercent"`
}

// Suggestion is one actionable finding. Line 0 means circuit-wide.
type Suggestion struct {
	ID           string   `json:"id"`
	Line         int      `json:"line"`
	Severity     Severity `json:"severity"`
	Category     string   `json:"category"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Impact       Impact   `json:"impact"`
	CodeSnippet  string   `json:"codeSnippet,omitempty"`
	SuggestedFix string   `json:"suggestedFix,omitempty"`
	LearnMoreURL string   `json:"learnMoreUrl,omitempty"`
}

// InsightReport is the ordered result of an analysis pass.
type InsightReport struct {
	Suggestions                  []Suggestion `json:"suggestions"`
	TotalPotentialSavings        int          `json:"totalPotentialSavings"`
	TotalPotentialSavingsPercent float64      `json:"totalPotentialSavingsPercent"` // clamped to 100
	ComplexityClass              string       `json:"complexityClass"`              // low, medium, high
	ACIROps                      int          `json:"acirOps"`
	BrilligOps                   int          `json:"brilligOps"`
	GateCount                    int          `json:"gateCount"`
	AnalyzedAt                   time.Time    `json:"analyzedAt"`
}

// Rule is one independent suggestion module.
type Rule interface {
	// ID names the rule; Config.Disabled entries refer to it.
	ID() string
	Run(ctx *Context) []Suggestion
}

// Context is the shared input of all rules for one analysis pass.
type Context struct {
	Report *metrics.ComplexityReport
	Source string
	// Lines is Source split on newlines; Lines[i] is source line i+1.
	Lines []string
	// LoopLines marks 1-based line numbers holding a loop declaration, for the
	// lookback-window checks.
	LoopLines *bitset.BitSet
	Config    Config

	costByLine map[int]*metrics.LineMetric
}

// LineCost returns the metric of a 1-based source line, or nil if the line has
// no recorded cost.
func (ctx *Context) LineCost(line int) *metrics.LineMetric {
	return ctx.costByLine[line]
}

// Percent expresses savings as a share of the circuit-wide total cost.
func (ctx *Context) Percent(savings int) float64 {
	if ctx.Report.TotalCost == 0 {
		return 0
	}
	return 100 * float64(savings) / float64(ctx.Report.TotalCost)
}

// LoopWithin reports whether any of the window lines preceding line (exclusive)
// declares a loop.
func (ctx *Context) LoopWithin(line, window int) bool {
	for l := line - window; l < line; l++ {
		if l > 0 && ctx.LoopLines.Test(uint(l)) {
			return true
		}
	}
	return false
}

// Rules returns the full battery in its fixed order.
func Rules() []Rule {
	return []Rule{
		hotspotRule{},
		loopRule{},
		arithmeticRule{},
		arrayRule{},
		hashRule{},
		bestPracticeRule{},
	}
}

// Analyze runs every enabled rule over (report, source) and returns the merged,
// severity-then-savings ordered suggestion list.
func Analyze(report *metrics.ComplexityReport, source string, cfg Config) *InsightReport {
	ctx := newContext(report, source, cfg)

	var suggestions []Suggestion
	for _, rule := range Rules() {
		if cfg.disabled(rule.ID()) {
			continue
		}
		suggestions = append(suggestions, rule.Run(ctx)...)
	}
	sortSuggestions(suggestions)

	out := &InsightReport{
		Suggestions:     suggestions,
		ComplexityClass: complexityClass(report, cfg),
		ACIROps:         report.ACIROps,
		BrilligOps:      report.BrilligOps,
		GateCount:       report.GateCount,
		AnalyzedAt:      time.Now(),
	}
	for _, s := range suggestions {
		out.TotalPotentialSavings += s.Impact.EstimatedSavings
		out.TotalPotentialSavingsPercent += s.Impact.SavingsPercent
	}
	out.TotalPotentialSavingsPercent = math.Min(out.TotalPotentialSavingsPercent, 100)

	log := logger.Logger()
	log.Debug().
		Int("suggestions", len(suggestions)).
		Str("class", out.ComplexityClass).
		Msg("circuit analysis complete")

	return out
}

func newContext(report *metrics.ComplexityReport, source string, cfg Config) *Context {
	lines := strings.Split(source, "\n")

	costs := make(map[int]*metrics.LineMetric)
	for fi := range report.Files {
		fm := &report.Files[fi]
		// line costs of the file the source belongs to; the primary file is the
		// one function detection ran on
		if len(report.Files) > 1 && len(fm.Functions) == 0 {
			continue
		}
		for li := range fm.Lines {
			costs[fm.Lines[li].Line] = &fm.Lines[li]
		}
	}

	loops := bitset.New(uint(len(lines) + 1))
	for i, s := range lines {
		if loopDeclRe.MatchString(s) {
			loops.Set(uint(i + 1))
		}
	}

	return &Context{
		Report:     report,
		Source:     source,
		Lines:      lines,
		LoopLines:  loops,
		Config:     cfg,
		costByLine: costs,
	}
}

func sortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Severity.rank() != s[j].Severity.rank() {
			return s[i].Severity.rank() < s[j].Severity.rank()
		}
		return s[i].Impact.EstimatedSavings > s[j].Impact.EstimatedSavings
	})
}

func complexityClass(report *metrics.ComplexityReport, cfg Config) string {
	switch {
	case report.GateCount >= cfg.LargeCircuitThreshold:
		return "high"
	case report.GateCount >= cfg.RecursionThreshold:
		return "medium"
	default:
		return "low"
	}
}

// scaled applies a savings multiplier to an observed cost, falling back to a
// fixed estimate when the line carries no metric.
func scaled(factor float64, cost, fallback int) int {
	if cost <= 0 {
		return fallback
	}
	return int(math.Floor(factor * float64(cost)))
}
