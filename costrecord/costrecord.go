// Package costrecord parses the per-line cost annotations emitted by the Noir
// profiler and exposes them as flat, queryable cost records.
//
// The profiler renders flamegraph SVGs whose <title> elements carry annotations of
// the form
//
//	main.nr:3:12::x != 0 (2 opcodes, 4.35%)
//
// One profiler run covers exactly one cost domain (ACIR opcodes, Brillig opcodes
// or backend gates); the metrics package merges records from up to three runs.
package costrecord

import (
	"sort"
)

// Domain identifies the cost domain a profiler run was measured in.
type Domain uint8

const (
	// ACIR counts constrained opcodes in the arithmetic-constraint representation.
	ACIR Domain = iota
	// Brillig counts unconstrained opcodes (witness computation helper code).
	Brillig
	// Gates counts units of cost in the proving backend arithmetization.
	Gates

	// NbDomains is the number of cost domains.
	NbDomains = 3
)

// String implements fmt.Stringer.
func (d Domain) String() string {
	switch d {
	case ACIR:
		return "acir"
	case Brillig:
		return "brillig"
	case Gates:
		return "gates"
	default:
		return "unknown"
	}
}

// DomainFromString returns the Domain matching s, or (0, false) if none does.
func DomainFromString(s string) (Domain, bool) {
	switch s {
	case "acir":
		return ACIR, true
	case "brillig":
		return Brillig, true
	case "gates":
		return Gates, true
	default:
		return 0, false
	}
}

// Record is one parsed cost annotation. Several records may share a line
// (distinct expressions or sub-costs on the same source line).
type Record struct {
	File         string  `json:"file"`
	Line         int     `json:"line"` // 1-based
	Column       int     `json:"column"`
	Expression   string  `json:"expression"` // entity-decoded, markup stripped
	Cost         int     `json:"cost"`
	SharePercent float64 `json:"sharePercent"` // producer-reported, informational only
}

type lineKey struct {
	file string
	line int
}

// ParseResult indexes parsed records for lookup by line and by file without
// re-parsing the raw text.
type ParseResult struct {
	records []Record
	byFile  map[string][]Record
	byLine  map[lineKey][]Record
}

// Records returns all records sorted by (line, column) ascending.
func (r *ParseResult) Records() []Record {
	return r.records
}

// File returns the records attributed to the given source file, in (line, column)
// order.
func (r *ParseResult) File(name string) []Record {
	return r.byFile[name]
}

// Line returns the records attributed to one line of one source file.
func (r *ParseResult) Line(file string, line int) []Record {
	return r.byLine[lineKey{file, line}]
}

// Files returns the distinct source file names seen in the raw text, sorted.
func (r *ParseResult) Files() []string {
	names := make([]string, 0, len(r.byFile))
	for name := range r.byFile {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newParseResult(records []Record) *ParseResult {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Line != records[j].Line {
			return records[i].Line < records[j].Line
		}
		return records[i].Column < records[j].Column
	})

	r := &ParseResult{
		records: records,
		byFile:  make(map[string][]Record),
		byLine:  make(map[lineKey][]Record),
	}
	for _, rec := range records {
		r.byFile[rec.File] = append(r.byFile[rec.File], rec)
		k := lineKey{rec.File, rec.Line}
		r.byLine[k] = append(r.byLine[k], rec)
	}
	return r
}
