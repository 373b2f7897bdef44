// Package metrics folds parsed cost records into per-line, per-function and
// per-file rollups and selects the hotspots of a circuit.
package metrics

import (
	"time"

	"github.com/google/uuid"
)

// ExpressionMetric is the merged cost of one (line, column, expression) site.
// Each profiler run contributes to exactly one slot of the cost triple; when the
// same site appears in several runs the slots are merged additively.
type ExpressionMetric struct {
	Expression string `json:"expression"`
	Column     int    `json:"column"`
	ACIROps    int    `json:"acirOps"`
	BrilligOps int    `json:"brilligOps"`
	GateCount  int    `json:"gateCount"`
}

// LineMetric aggregates all expression costs attributed to one source line.
type LineMetric struct {
	Line        int                `json:"line"`
	File        string             `json:"file"`
	Expressions []ExpressionMetric `json:"expressions"`
	ACIROps     int                `json:"acirOps"`
	BrilligOps  int                `json:"brilligOps"`
	GateCount   int                `json:"gateCount"`
	TotalCost   int                `json:"totalCost"`
	// Heat is TotalCost normalized to [0,1] against the most expensive line of
	// the circuit; 0 when the circuit has zero total cost.
	Heat float64 `json:"heat"`
	// PercentOfCircuit is this line's share of the circuit-wide total, in [0,100].
	PercentOfCircuit float64 `json:"percentOfCircuit"`
}

// FunctionMetric aggregates the lines of one lexically-detected function.
// The range [StartLine, EndLine) is half-open; Heat and PercentOfCircuit are
// normalized against the maximum and total among functions, independent of the
// line-level normalization base.
type FunctionMetric struct {
	Name             string  `json:"name"`
	StartLine        int     `json:"startLine"`
	EndLine          int     `json:"endLine"`
	ACIROps          int     `json:"acirOps"`
	BrilligOps       int     `json:"brilligOps"`
	GateCount        int     `json:"gateCount"`
	TotalCost        int     `json:"totalCost"`
	Heat             float64 `json:"heat"`
	PercentOfCircuit float64 `json:"percentOfCircuit"`
}

// FileMetric groups the metrics of one source file.
type FileMetric struct {
	Name       string           `json:"name"`
	Lines      []LineMetric     `json:"lines"` // sorted by line number
	Functions  []FunctionMetric `json:"functions"`
	ACIROps    int              `json:"acirOps"`
	BrilligOps int              `json:"brilligOps"`
	GateCount  int              `json:"gateCount"`
	TotalCost  int              `json:"totalCost"`
}

// ComplexityReport is the full complexity model of one profiling run.
type ComplexityReport struct {
	ID           uuid.UUID        `json:"id"`
	Files        []FileMetric     `json:"files"`
	ACIROps      int              `json:"acirOps"`
	BrilligOps   int              `json:"brilligOps"`
	GateCount    int              `json:"gateCount"`
	TotalCost    int              `json:"totalCost"`
	Hotspots     []LineMetric     `json:"hotspots"`
	TopFunctions []FunctionMetric `json:"topFunctions"`
	GeneratedAt  time.Time        `json:"generatedAt"`
}

// Lines returns all line metrics of the report, file by file.
func (r *ComplexityReport) Lines() []LineMetric {
	var out []LineMetric
	for i := range r.Files {
		out = append(out, r.Files[i].Lines...)
	}
	return out
}

// Function returns the metric of the named function, or nil.
func (r *ComplexityReport) Function(name string) *FunctionMetric {
	for i := range r.Files {
		for j := range r.Files[i].Functions {
			if r.Files[i].Functions[j].Name == name {
				return &r.Files[i].Functions[j]
			}
		}
	}
	return nil
}
