package metrics

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noirscope/noirscope/costrecord"
	"github.com/noirscope/noirscope/debug"
	"github.com/noirscope/noirscope/logger"
)

// ErrNoInput is returned when a caller passes neither source code nor any
// domain records. A zero-cost report is a legitimate result; no input at all is
// a contract violation.
var ErrNoInput = errors.New("metrics: no source code and no cost records")

// Input carries up to three per-domain record sets (one per profiler run) plus
// the source being profiled. Absent domains contribute zero to every line.
type Input struct {
	Domains  [costrecord.NbDomains][]costrecord.Record
	Source   string
	FileName string
}

// SetDomain stores records for one cost domain.
func (in *Input) SetDomain(d costrecord.Domain, records []costrecord.Record) {
	in.Domains[d] = records
}

func (in *Input) empty() bool {
	if in.Source != "" {
		return false
	}
	for _, records := range in.Domains {
		if len(records) > 0 {
			return false
		}
	}
	return true
}

// Aggregate merges the per-domain record streams into a ComplexityReport:
// per-line cost triples, circuit-wide normalization, lexical function rollups
// and the bounded hotspot list.
func Aggregate(in Input, cfg Config) (*ComplexityReport, error) {
	if in.empty() {
		return nil, ErrNoInput
	}

	type lineKey struct {
		file string
		line int
	}

	lines := make(map[lineKey]*LineMetric)
	var order []lineKey // first-touch order, keeps ties deterministic

	// One generic fold over the closed domain set; a record accumulates into
	// exactly one slot of the cost triple.
	for d := costrecord.Domain(0); d < costrecord.NbDomains; d++ {
		for _, rec := range in.Domains[d] {
			k := lineKey{rec.File, rec.Line}
			lm, ok := lines[k]
			if !ok {
				lm = &LineMetric{Line: rec.Line, File: rec.File}
				lines[k] = lm
				order = append(order, k)
			}
			addCost(lm, d, rec.Cost)
			mergeExpression(lm, d, rec)
		}
	}

	// Circuit-wide bases: M = max line cost, T = total cost.
	var maxLine, total int
	for _, k := range order {
		lm := lines[k]
		lm.TotalCost = lm.ACIROps + lm.BrilligOps + lm.GateCount
		debug.Assert(lm.TotalCost >= 0, "line cost overflow")
		if lm.TotalCost > maxLine {
			maxLine = lm.TotalCost
		}
		total += lm.TotalCost
	}
	for _, lm := range lines {
		if maxLine > 0 {
			lm.Heat = float64(lm.TotalCost) / float64(maxLine)
		}
		if total > 0 {
			lm.PercentOfCircuit = 100 * float64(lm.TotalCost) / float64(total)
		}
	}

	// Group per file, lines sorted by number.
	byFile := make(map[string][]LineMetric)
	for _, k := range order {
		byFile[k.file] = append(byFile[k.file], *lines[k])
	}
	fileNames := make([]string, 0, len(byFile))
	for name := range byFile {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	report := &ComplexityReport{
		ID:          uuid.New(),
		GeneratedAt: time.Now(),
	}
	if len(fileNames) == 0 && in.FileName != "" {
		// source-only input: an empty file entry so function detection still runs
		fileNames = append(fileNames, in.FileName)
	}
	for _, name := range fileNames {
		fm := FileMetric{Name: name, Lines: byFile[name]}
		sort.SliceStable(fm.Lines, func(i, j int) bool { return fm.Lines[i].Line < fm.Lines[j].Line })
		for _, lm := range fm.Lines {
			fm.ACIROps += lm.ACIROps
			fm.BrilligOps += lm.BrilligOps
			fm.GateCount += lm.GateCount
			fm.TotalCost += lm.TotalCost
		}
		if name == in.FileName && in.Source != "" {
			fm.Functions = detectFunctions(in.Source, fm.Lines)
		}
		report.ACIROps += fm.ACIROps
		report.BrilligOps += fm.BrilligOps
		report.GateCount += fm.GateCount
		report.TotalCost += fm.TotalCost
		report.Files = append(report.Files, fm)
	}

	report.Hotspots = SelectHotspots(report.Lines(), cfg)
	report.TopFunctions = TopFunctions(allFunctions(report), cfg.MaxTopFunctions)

	log := logger.Logger()
	log.Debug().
		Int("lines", len(order)).
		Int("files", len(report.Files)).
		Int("totalCost", report.TotalCost).
		Msg("aggregated complexity report")

	return report, nil
}

func addCost(lm *LineMetric, d costrecord.Domain, cost int) {
	switch d {
	case costrecord.ACIR:
		lm.ACIROps += cost
	case costrecord.Brillig:
		lm.BrilligOps += cost
	case costrecord.Gates:
		lm.GateCount += cost
	}
}

// mergeExpression folds a record into the line's expression list, merging
// additively when the same (column, expression) site was seen in another domain.
func mergeExpression(lm *LineMetric, d costrecord.Domain, rec costrecord.Record) {
	for i := range lm.Expressions {
		e := &lm.Expressions[i]
		if e.Column == rec.Column && e.Expression == rec.Expression {
			switch d {
			case costrecord.ACIR:
				e.ACIROps += rec.Cost
			case costrecord.Brillig:
				e.BrilligOps += rec.Cost
			case costrecord.Gates:
				e.GateCount += rec.Cost
			}
			return
		}
	}
	e := ExpressionMetric{Expression: rec.Expression, Column: rec.Column}
	switch d {
	case costrecord.ACIR:
		e.ACIROps = rec.Cost
	case costrecord.Brillig:
		e.BrilligOps = rec.Cost
	case costrecord.Gates:
		e.GateCount = rec.Cost
	}
	lm.Expressions = append(lm.Expressions, e)
}

// fnDeclRe matches a Noir function declaration at the start of a line. This is a
// deliberate lexical heuristic: a function runs from its declaration line to the
// line preceding the next declaration, or end of file for the last one.
var fnDeclRe = regexp.MustCompile(`^\s*(?:pub\s+)?(?:unconstrained\s+)?fn\s+([A-Za-z_][A-Za-z0-9_]*)`)

func detectFunctions(source string, lines []LineMetric) []FunctionMetric {
	srcLines := strings.Split(source, "\n")

	var fns []FunctionMetric
	for i, s := range srcLines {
		if m := fnDeclRe.FindStringSubmatch(s); m != nil {
			if n := len(fns); n > 0 {
				fns[n-1].EndLine = i + 1
			}
			fns = append(fns, FunctionMetric{Name: m[1], StartLine: i + 1})
		}
	}
	if n := len(fns); n > 0 {
		fns[n-1].EndLine = len(srcLines) + 1
	}

	for fi := range fns {
		fn := &fns[fi]
		for _, lm := range lines {
			if lm.Line >= fn.StartLine && lm.Line < fn.EndLine {
				fn.ACIROps += lm.ACIROps
				fn.BrilligOps += lm.BrilligOps
				fn.GateCount += lm.GateCount
				fn.TotalCost += lm.TotalCost
			}
		}
	}

	// normalize against the maximum and total among functions only
	var maxFn, totalFn int
	for i := range fns {
		if fns[i].TotalCost > maxFn {
			maxFn = fns[i].TotalCost
		}
		totalFn += fns[i].TotalCost
	}
	for i := range fns {
		if maxFn > 0 {
			fns[i].Heat = float64(fns[i].TotalCost) / float64(maxFn)
		}
		if totalFn > 0 {
			fns[i].PercentOfCircuit = 100 * float64(fns[i].TotalCost) / float64(totalFn)
		}
	}
	return fns
}

func allFunctions(r *ComplexityReport) []FunctionMetric {
	var out []FunctionMetric
	for i := range r.Files {
		out = append(out, r.Files[i].Functions...)
	}
	return out
}
