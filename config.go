package noirscope

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/noirscope/noirscope/costrecord"
	"github.com/noirscope/noirscope/insight"
	"github.com/noirscope/noirscope/metrics"
)

// Config is the full engine configuration.
type Config struct {
	// Metrics bounds hotspot and top-function selection.
	Metrics metrics.Config
	// Insight holds the rule toggles and savings policy.
	Insight insight.Config
	// CacheTTL is the report cache time-to-live.
	CacheTTL time.Duration
	// CacheHistoryDepth bounds the retained report history for delta comparison.
	CacheHistoryDepth int
	// SourceExtension is the source file extension annotations must reference.
	SourceExtension string
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Metrics:           metrics.DefaultConfig(),
		Insight:           insight.DefaultConfig(),
		CacheTTL:          5 * time.Minute,
		CacheHistoryDepth: 10,
		SourceExtension:   costrecord.DefaultExtension,
	}
}

// fileConfig is the TOML surface of Config, used by the CLI. Only the commonly
// tuned knobs are exposed; zero values keep the defaults.
type fileConfig struct {
	HotspotMinPercent float64  `toml:"hotspot_min_percent"`
	HotspotMaxResults int      `toml:"hotspot_max_results"`
	HotspotSort       string   `toml:"hotspot_sort"`
	MaxTopFunctions   int      `toml:"max_top_functions"`
	CacheTTLSeconds   int      `toml:"cache_ttl_seconds"`
	CacheHistoryDepth int      `toml:"cache_history_depth"`
	SourceExtension   string   `toml:"source_extension"`
	DisabledRules     []string `toml:"disabled_rules"`
}

// LoadConfig reads a TOML configuration file and merges it over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return cfg, fmt.Errorf("noirscope: loading config %s: %w", path, err)
	}

	if fc.HotspotMinPercent > 0 {
		cfg.Metrics.MinHotspotPercent = fc.HotspotMinPercent
	}
	if fc.HotspotMaxResults > 0 {
		cfg.Metrics.MaxHotspots = fc.HotspotMaxResults
	}
	if fc.HotspotSort != "" {
		key, ok := metrics.SortKeyFromString(fc.HotspotSort)
		if !ok {
			return cfg, fmt.Errorf("noirscope: unknown hotspot_sort %q", fc.HotspotSort)
		}
		cfg.Metrics.HotspotSort = key
	}
	if fc.MaxTopFunctions > 0 {
		cfg.Metrics.MaxTopFunctions = fc.MaxTopFunctions
	}
	if fc.CacheTTLSeconds > 0 {
		cfg.CacheTTL = time.Duration(fc.CacheTTLSeconds) * time.Second
	}
	if fc.CacheHistoryDepth > 0 {
		cfg.CacheHistoryDepth = fc.CacheHistoryDepth
	}
	if fc.SourceExtension != "" {
		cfg.SourceExtension = fc.SourceExtension
	}
	cfg.Insight.Disabled = append(cfg.Insight.Disabled, fc.DisabledRules...)

	return cfg, nil
}
