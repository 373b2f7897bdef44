// Package noirscope reconstructs a queryable complexity model of a Noir circuit
// program from the textual output of the Noir profiler.
//
// The profiler annotates source positions with per-line cost in three independent
// domains: ACIR (constrained) opcodes, Brillig (unconstrained) opcodes and proving
// backend gates. noirscope parses those annotations, merges the three cost streams
// into per-line, per-function and per-file rollups, selects hotspots, derives
// heuristic optimization suggestions and memoizes reports in a content-addressed
// TTL cache.
//
// The entry point is the Engine:
//
//	eng := noirscope.New()
//	report, err := eng.GenerateComplexityReport(ctx, noirscope.Request{
//		GatesText: gatesSVG,
//		Source:    source,
//		FileName:  "main.nr",
//	})
package noirscope

import (
	"github.com/blang/semver/v4"
)

// Version of the noirscope library. Serialized reports embed it; see the encoding
// package.
var Version = semver.MustParse("0.3.0")
