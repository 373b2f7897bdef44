package noirscope

import (
	"time"

	"github.com/noirscope/noirscope/insight"
	"github.com/noirscope/noirscope/metrics"
)

// Option configures an Engine at construction.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithCacheTTL sets the report cache time-to-live.
//
// Defaults to 5 minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) { c.CacheTTL = ttl }
}

// WithCacheHistoryDepth bounds the report history retained for delta
// comparison.
//
// Defaults to 10.
func WithCacheHistoryDepth(depth int) Option {
	return func(c *Config) { c.CacheHistoryDepth = depth }
}

// WithHotspotThreshold sets the minimum percent-of-circuit for a line to
// qualify as a hotspot.
//
// Defaults to 5.
func WithHotspotThreshold(percent float64) Option {
	return func(c *Config) { c.Metrics.MinHotspotPercent = percent }
}

// WithMaxHotspots bounds the hotspot list.
//
// Defaults to 10.
func WithMaxHotspots(n int) Option {
	return func(c *Config) { c.Metrics.MaxHotspots = n }
}

// WithHotspotSort orders the hotspot list by the given key.
//
// Defaults to metrics.ByPercent.
func WithHotspotSort(key metrics.SortKey) Option {
	return func(c *Config) { c.Metrics.HotspotSort = key }
}

// WithDisabledRules skips the named analyzer rules.
func WithDisabledRules(ids ...string) Option {
	return func(c *Config) { c.Insight.Disabled = append(c.Insight.Disabled, ids...) }
}

// WithInsightConfig replaces the analyzer policy.
func WithInsightConfig(cfg insight.Config) Option {
	return func(c *Config) { c.Insight = cfg }
}
