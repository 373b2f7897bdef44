package reportcache

import (
	"github.com/noirscope/noirscope/metrics"
)

// Metric selects which value of the cost triple a delta comparison inspects.
type Metric uint8

const (
	MetricACIROps Metric = iota
	MetricBrilligOps
	MetricGateCount
	MetricTotalCost
)

// String implements fmt.Stringer.
func (m Metric) String() string {
	switch m {
	case MetricACIROps:
		return "acir"
	case MetricBrilligOps:
		return "brillig"
	case MetricGateCount:
		return "gates"
	default:
		return "total"
	}
}

// MetricFromString returns the Metric matching s, or (0, false) if none does.
func MetricFromString(s string) (Metric, bool) {
	for m := MetricACIROps; m <= MetricTotalCost; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

func (m Metric) lineValue(lm *metrics.LineMetric) int {
	switch m {
	case MetricACIROps:
		return lm.ACIROps
	case MetricBrilligOps:
		return lm.BrilligOps
	case MetricGateCount:
		return lm.GateCount
	default:
		return lm.TotalCost
	}
}

func (m Metric) reportValue(r *metrics.ComplexityReport) int {
	switch m {
	case MetricACIROps:
		return r.ACIROps
	case MetricBrilligOps:
		return r.BrilligOps
	case MetricGateCount:
		return r.GateCount
	default:
		return r.TotalCost
	}
}

// LineDelta is the change of one line's metric between two runs.
type LineDelta struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
	Delta    int    `json:"delta"`
}

// Comparison is the result of comparing a report against the immediately
// preceding retained report.
type Comparison struct {
	Metric               Metric      `json:"metric"`
	Deltas               []LineDelta `json:"deltas"`
	OverallChange        int         `json:"overallChange"`
	OverallChangePercent float64     `json:"overallChangePercent"`
	IsImprovement        bool        `json:"isImprovement"`
}

// CompareWithPrevious compares current against the most recent retained report
// that precedes it. Lines present in both reports with a non-zero delta are
// listed; the overall change compares circuit-wide totals. Returns nil when
// fewer than two reports have been retained.
func (c *Cache) CompareWithPrevious(current *metrics.ComplexityReport, m Metric) *Comparison {
	c.mu.Lock()
	var previous *metrics.ComplexityReport
	if len(c.history) >= 2 {
		previous = c.history[len(c.history)-1]
		if previous.ID == current.ID {
			previous = c.history[len(c.history)-2]
		}
	}
	c.mu.Unlock()
	if previous == nil {
		return nil
	}
	return Compare(previous, current, m)
}

// Compare diffs two reports on the chosen metric.
func Compare(previous, current *metrics.ComplexityReport, m Metric) *Comparison {
	type key struct {
		file string
		line int
	}
	prev := make(map[key]int)
	for _, lm := range previous.Lines() {
		prev[key{lm.File, lm.Line}] = m.lineValue(&lm)
	}

	cmp := &Comparison{Metric: m}
	for _, lm := range current.Lines() {
		before, ok := prev[key{lm.File, lm.Line}]
		if !ok {
			continue
		}
		after := m.lineValue(&lm)
		if after == before {
			continue
		}
		cmp.Deltas = append(cmp.Deltas, LineDelta{
			File:     lm.File,
			Line:     lm.Line,
			Previous: before,
			Current:  after,
			Delta:    after - before,
		})
	}

	cmp.OverallChange = m.reportValue(current) - m.reportValue(previous)
	if base := m.reportValue(previous); base != 0 {
		cmp.OverallChangePercent = 100 * float64(cmp.OverallChange) / float64(base)
	}
	cmp.IsImprovement = cmp.OverallChange < 0
	return cmp
}
