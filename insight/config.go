package insight

// Config holds the rule toggles and the savings policy.
//
// The multipliers are policy constants inherited from the original heuristics,
// not empirically derived; they are kept configurable so product owners can tune
// them without a code change.
type Config struct {
	// Disabled lists rule IDs to skip.
	Disabled []string

	// Hotspot rule.
	HotspotHighPercent float64 // severity high at or above this share
	HotspotLowPercent  float64 // severity low below this share
	HotspotFactor      float64

	// Loop rule.
	LoopIterationLimit  int // literal ranges above this are "large"
	LoopLookback        int // lines scanned back for a surrounding loop
	LargeLoopFactor     float64
	LargeLoopFallback   int
	DynamicLoopFactor   float64
	DynamicLoopFallback int
	NestedLoopFactor    float64
	NestedLoopFallback  int

	// Arithmetic rule.
	DivisionFactor   float64
	DivisionFallback int

	// Hash-in-loop rule.
	HashLookback       int
	HashInLoopFactor   float64
	HashInLoopFallback int

	// Best-practice rule.
	LargeCircuitThreshold  int
	LargeCircuitFactor     float64
	RecursionThreshold     int
	RecursionFactor        float64
	RecursionMarker        string
	DominantFunctionShare  float64 // percent of total cost
	DominantFunctionFactor float64
	ACIRThreshold          int
	ACIRFactor             float64
	EntryPoint             string // excluded from the dominant-function check
}

// DefaultConfig returns the default rule policy.
func DefaultConfig() Config {
	return Config{
		HotspotHighPercent: 20,
		HotspotLowPercent:  10,
		HotspotFactor:      0.3,

		LoopIterationLimit:  10,
		LoopLookback:        5,
		LargeLoopFactor:     0.4,
		LargeLoopFallback:   50,
		DynamicLoopFactor:   0.3,
		DynamicLoopFallback: 30,
		NestedLoopFactor:    0.5,
		NestedLoopFallback:  80,

		DivisionFactor:   0.4,
		DivisionFallback: 20,

		HashLookback:       10,
		HashInLoopFactor:   0.5,
		HashInLoopFallback: 100,

		LargeCircuitThreshold:  100000,
		LargeCircuitFactor:     0.2,
		RecursionThreshold:     50000,
		RecursionFactor:        0.15,
		RecursionMarker:        "verify_proof",
		DominantFunctionShare:  50,
		DominantFunctionFactor: 0.25,
		ACIRThreshold:          10000,
		ACIRFactor:             0.15,
		EntryPoint:             "main",
	}
}

func (c *Config) disabled(id string) bool {
	for _, d := range c.Disabled {
		if d == id {
			return true
		}
	}
	return false
}
