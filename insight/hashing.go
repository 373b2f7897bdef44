package insight

import (
	"fmt"
	"strings"
)

// Hash primitives from the Noir standard library, matched as substrings.
var hashNames = []string{
	"pedersen_hash",
	"pedersen_commitment",
	"poseidon2",
	"poseidon",
	"sha256",
	"blake2s",
	"blake3",
	"keccak256",
	"mimc",
	"hash_to_field",
}

// hashRule flags hash invocations inside (or just after) a loop: a hash per
// iteration is usually the single most expensive pattern in a circuit.
type hashRule struct{}

func (hashRule) ID() string { return "hash-in-loop" }

func (hashRule) Run(ctx *Context) []Suggestion {
	var out []Suggestion
	for i, src := range ctx.Lines {
		code := stripComment(src)
		name := ""
		for _, h := range hashNames {
			if strings.Contains(code, h) {
				name = h
				break
			}
		}
		if name == "" {
			continue
		}
		line := i + 1
		if !ctx.LoopWithin(line, ctx.Config.HashLookback) && !ctx.LoopLines.Test(uint(line)) {
			continue
		}
		gates := 0
		if lm := ctx.LineCost(line); lm != nil {
			gates = lm.GateCount
		}
		savings := scaled(ctx.Config.HashInLoopFactor, gates, ctx.Config.HashInLoopFallback)
		out = append(out, Suggestion{
			ID:       fmt.Sprintf("hash-loop-%d", line),
			Line:     line,
			Severity: SeverityHigh,
			Category: "hashing",
			Title:    fmt.Sprintf("%s called inside a loop", name),
			Description: "Hashing per iteration duplicates the full hash circuit for every unrolled step. " +
				"Accumulate inputs and hash once outside the loop, or use a sponge-style API.",
			Impact:      Impact{EstimatedSavings: savings, SavingsPercent: ctx.Percent(savings)},
			CodeSnippet: strings.TrimSpace(src),
		})
	}
	return out
}
