package metrics

import (
	"sort"
)

// SortKey selects the value hotspots are ordered by.
type SortKey uint8

const (
	ByPercent SortKey = iota
	ByTotalCost
	ByACIROps
	ByBrilligOps
	ByGateCount
)

// String implements fmt.Stringer.
func (k SortKey) String() string {
	switch k {
	case ByPercent:
		return "percent"
	case ByTotalCost:
		return "total"
	case ByACIROps:
		return "acir"
	case ByBrilligOps:
		return "brillig"
	case ByGateCount:
		return "gates"
	default:
		return "unknown"
	}
}

// SortKeyFromString returns the SortKey matching s, or (0, false) if none does.
func SortKeyFromString(s string) (SortKey, bool) {
	for k := ByPercent; k <= ByGateCount; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Config bounds hotspot and top-function selection.
type Config struct {
	// MinHotspotPercent is the minimum PercentOfCircuit for a line to qualify as
	// a hotspot.
	MinHotspotPercent float64
	// MaxHotspots bounds the hotspot list.
	MaxHotspots int
	// HotspotSort orders the hotspot list, descending.
	HotspotSort SortKey
	// MaxTopFunctions bounds the top-function list.
	MaxTopFunctions int
}

// DefaultConfig returns the default selection bounds.
func DefaultConfig() Config {
	return Config{
		MinHotspotPercent: 5,
		MaxHotspots:       10,
		HotspotSort:       ByPercent,
		MaxTopFunctions:   5,
	}
}

func (k SortKey) lineValue(lm *LineMetric) float64 {
	switch k {
	case ByTotalCost:
		return float64(lm.TotalCost)
	case ByACIROps:
		return float64(lm.ACIROps)
	case ByBrilligOps:
		return float64(lm.BrilligOps)
	case ByGateCount:
		return float64(lm.GateCount)
	default:
		return lm.PercentOfCircuit
	}
}

// SelectHotspots filters lines below the configured percentage threshold, sorts
// the remainder descending by the configured key and truncates to MaxHotspots.
// It is kept separate from the aggregation fold so alternative selection criteria
// can be swapped without touching it.
func SelectHotspots(lines []LineMetric, cfg Config) []LineMetric {
	hotspots := make([]LineMetric, 0, len(lines))
	for _, lm := range lines {
		if lm.PercentOfCircuit >= cfg.MinHotspotPercent {
			hotspots = append(hotspots, lm)
		}
	}
	sort.SliceStable(hotspots, func(i, j int) bool {
		return cfg.HotspotSort.lineValue(&hotspots[i]) > cfg.HotspotSort.lineValue(&hotspots[j])
	})
	if cfg.MaxHotspots > 0 && len(hotspots) > cfg.MaxHotspots {
		hotspots = hotspots[:cfg.MaxHotspots]
	}
	return hotspots
}

// TopFunctions sorts functions by total cost descending and truncates to max.
// Zero-cost functions are dropped.
func TopFunctions(fns []FunctionMetric, max int) []FunctionMetric {
	top := make([]FunctionMetric, 0, len(fns))
	for _, fn := range fns {
		if fn.TotalCost > 0 {
			top = append(top, fn)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].TotalCost > top[j].TotalCost })
	if max > 0 && len(top) > max {
		top = top[:max]
	}
	return top
}
