package insight

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noirscope/noirscope/costrecord"
	"github.com/noirscope/noirscope/metrics"
)

func reportFor(t *testing.T, source string, gates map[int]int) *metrics.ComplexityReport {
	t.Helper()
	in := metrics.Input{Source: source, FileName: "main.nr"}
	var records []costrecord.Record
	for line, cost := range gates {
		records = append(records, costrecord.Record{File: "main.nr", Line: line, Column: 1, Expression: "e", Cost: cost})
	}
	in.SetDomain(costrecord.Gates, records)
	report, err := metrics.Aggregate(in, metrics.DefaultConfig())
	require.NoError(t, err)
	return report
}

func byCategory(s []Suggestion, category string) []Suggestion {
	var out []Suggestion
	for _, sg := range s {
		if sg.Category == category {
			out = append(out, sg)
		}
	}
	return out
}

func TestLoopRuleLargeLiteral(t *testing.T) {
	assert := require.New(t)

	source := `fn main() {
    for i in 0..20 {
        total = total + i;
    }
}`
	out := Analyze(reportFor(t, source, map[int]int{2: 100}), source, DefaultConfig())

	loops := byCategory(out.Suggestions, "loop")
	assert.Len(loops, 1)
	assert.Equal(SeverityHigh, loops[0].Severity)
	assert.Equal(2, loops[0].Line)
	assert.Equal(40, loops[0].Impact.EstimatedSavings) // floor(0.4 * 100)
}

func TestLoopRuleSmallLiteral(t *testing.T) {
	source := `fn main() {
    for i in 0..5 {
        total = total + i;
    }
}`
	out := Analyze(reportFor(t, source, map[int]int{2: 100}), source, DefaultConfig())
	require.Empty(t, byCategory(out.Suggestions, "loop"))
}

func TestLoopRuleDynamicBound(t *testing.T) {
	assert := require.New(t)

	source := `fn main(n: u32) {
    for i in 0..n {
        total = total + i;
    }
}`
	out := Analyze(reportFor(t, source, map[int]int{2: 100}), source, DefaultConfig())

	loops := byCategory(out.Suggestions, "loop")
	assert.Len(loops, 1)
	assert.Equal(SeverityMedium, loops[0].Severity)
	assert.Equal(30, loops[0].Impact.EstimatedSavings) // floor(0.3 * 100)
}

func TestLoopRuleNested(t *testing.T) {
	assert := require.New(t)

	source := `fn main() {
    for i in 0..20 {
        for j in 0..20 {
            total = total + i * j;
        }
    }
}`
	out := Analyze(reportFor(t, source, nil), source, DefaultConfig())

	var nested []Suggestion
	for _, s := range byCategory(out.Suggestions, "loop") {
		if s.Title == "Nested loop multiplies circuit size" {
			nested = append(nested, s)
		}
	}
	assert.Len(nested, 1)
	assert.Equal(3, nested[0].Line)
	assert.Equal(SeverityHigh, nested[0].Severity)
}

func TestArithmeticRule(t *testing.T) {
	assert := require.New(t)

	source := `fn main(x: Field) {
    let y = x / 3;
    // a comment with / inside
    let z = y + 1;
}`
	out := Analyze(reportFor(t, source, nil), source, DefaultConfig())

	divs := byCategory(out.Suggestions, "arithmetic")
	assert.Len(divs, 1)
	assert.Equal(2, divs[0].Line)
	assert.Equal(SeverityMedium, divs[0].Severity)
	assert.Equal(20, divs[0].Impact.EstimatedSavings) // fallback, no gate metric on the line
}

func TestArrayRule(t *testing.T) {
	assert := require.New(t)

	source := `fn main() {
    let mut v = Vec::new();
    v.push(1);
}`
	out := Analyze(reportFor(t, source, nil), source, DefaultConfig())

	arrays := byCategory(out.Suggestions, "array")
	assert.Len(arrays, 2)
	assert.Equal(SeverityMedium, arrays[0].Severity)
	assert.Equal(30, arrays[0].Impact.EstimatedSavings)
	assert.Equal(SeverityLow, arrays[1].Severity)
	assert.Equal(10, arrays[1].Impact.EstimatedSavings)
}

func TestHashInLoopRule(t *testing.T) {
	assert := require.New(t)

	source := `fn main(xs: [Field; 16]) {
    for x in xs {
        acc = pedersen_hash([acc, x]);
    }
}`
	out := Analyze(reportFor(t, source, map[int]int{3: 500}), source, DefaultConfig())

	hashes := byCategory(out.Suggestions, "hashing")
	assert.Len(hashes, 1)
	assert.Equal(SeverityHigh, hashes[0].Severity)
	assert.Equal(250, hashes[0].Impact.EstimatedSavings) // floor(0.5 * 500)
}

func TestHashOutsideLoopIgnored(t *testing.T) {
	source := `fn main(x: Field) {
    let h = pedersen_hash([x]);
}`
	out := Analyze(reportFor(t, source, nil), source, DefaultConfig())
	require.Empty(t, byCategory(out.Suggestions, "hashing"))
}

func TestHotspotRuleSeverities(t *testing.T) {
	assert := require.New(t)

	source := "fn main() {\n    a\n    b\n    c\n}"
	// 75% / 18% / 7% shares
	out := Analyze(reportFor(t, source, map[int]int{2: 750, 3: 180, 4: 70}), source, DefaultConfig())

	hotspots := byCategory(out.Suggestions, "hotspot")
	assert.Len(hotspots, 3)
	bySev := map[Severity]int{}
	for _, h := range hotspots {
		bySev[h.Severity]++
	}
	assert.Equal(1, bySev[SeverityHigh])
	assert.Equal(1, bySev[SeverityMedium])
	assert.Equal(1, bySev[SeverityLow])
}

func TestBestPracticeLargeCircuit(t *testing.T) {
	assert := require.New(t)

	source := "fn main() {\n    x\n}"
	out := Analyze(reportFor(t, source, map[int]int{2: 150000}), source, DefaultConfig())

	bps := byCategory(out.Suggestions, "best-practice")
	var ids []string
	for _, s := range bps {
		ids = append(ids, s.ID)
	}
	assert.Contains(ids, "bp-large-circuit")
	assert.Contains(ids, "bp-recursion") // no verify_proof marker in source
	assert.Equal("high", out.ComplexityClass)
}

func TestBestPracticeRecursionMarkerSuppresses(t *testing.T) {
	source := "fn main() {\n    std::verify_proof(proof);\n}"
	out := Analyze(reportFor(t, source, map[int]int{2: 60000}), source, DefaultConfig())

	for _, s := range out.Suggestions {
		require.NotEqual(t, "bp-recursion", s.ID)
	}
	require.Equal(t, "medium", out.ComplexityClass)
}

func TestSeverityOrdering(t *testing.T) {
	assert := require.New(t)

	source := `fn main(n: u32) {
    for i in 0..20 {
        acc = poseidon([acc]);
        let q = acc / 2;
        v.push(q);
    }
}`
	out := Analyze(reportFor(t, source, map[int]int{2: 400, 3: 300, 4: 200, 5: 100}), source, DefaultConfig())
	assert.NotEmpty(out.Suggestions)

	for i := 1; i < len(out.Suggestions); i++ {
		prev, cur := out.Suggestions[i-1], out.Suggestions[i]
		assert.LessOrEqual(prev.Severity.rank(), cur.Severity.rank())
		if prev.Severity == cur.Severity {
			assert.GreaterOrEqual(prev.Impact.EstimatedSavings, cur.Impact.EstimatedSavings)
		}
	}
}

func TestDisabledRules(t *testing.T) {
	source := `fn main() {
    let y = x / 3;
}`
	cfg := DefaultConfig()
	cfg.Disabled = []string{"arithmetic"}
	out := Analyze(reportFor(t, source, nil), source, cfg)
	require.Empty(t, byCategory(out.Suggestions, "arithmetic"))
}

func TestSavingsPercentClamped(t *testing.T) {
	assert := require.New(t)

	// tiny circuit, fallback savings dwarf the total
	source := `fn main(n: u32) {
    for i in 0..n {
        acc = poseidon([acc]);
        let q = acc / 2;
    }
}`
	out := Analyze(reportFor(t, source, map[int]int{2: 1}), source, DefaultConfig())
	assert.LessOrEqual(out.TotalPotentialSavingsPercent, 100.0)
}
