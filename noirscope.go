package noirscope

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/noirscope/noirscope/costrecord"
	"github.com/noirscope/noirscope/insight"
	"github.com/noirscope/noirscope/logger"
	"github.com/noirscope/noirscope/metrics"
	"github.com/noirscope/noirscope/reportcache"
)

// ErrEmptyRequest is returned when a request carries neither source code nor
// any profiler text. A zero-cost report is a legitimate result; an empty
// request is a contract violation.
var ErrEmptyRequest = errors.New("noirscope: request carries no source code and no profiler text")

// Request is the input of one profiling call: up to three profiler outputs (one
// per cost domain, each optional) plus the profiled source.
type Request struct {
	ACIRText    string
	BrilligText string
	GatesText   string
	Source      string
	FileName    string
}

func (r *Request) empty() bool {
	return r.Source == "" && r.ACIRText == "" && r.BrilligText == "" && r.GatesText == ""
}

// Engine ties the parser, aggregator, analyzer and report cache together. Its
// methods are stateless and safe for concurrent use; the injected cache is the
// only mutable state.
type Engine struct {
	mu    sync.RWMutex
	cfg   Config
	cache *reportcache.Cache
}

// New creates an Engine with an empty report cache.
func New(opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		cfg: cfg,
		cache: reportcache.New(
			reportcache.WithTTL(cfg.CacheTTL),
			reportcache.WithHistoryDepth(cfg.CacheHistoryDepth),
		),
	}
}

// ParseCostRecords parses one raw profiler text into flat cost records.
func (e *Engine) ParseCostRecords(raw string) []costrecord.Record {
	return costrecord.ParseTextExt(raw, e.Configuration().SourceExtension).Records()
}

// GenerateComplexityReport parses the domain texts of the request, aggregates
// them into a complexity report and memoizes the result keyed by a content hash
// of the source. A cached report within the TTL window is returned as-is;
// concurrent calls for the same source share one computation.
func (e *Engine) GenerateComplexityReport(ctx context.Context, req Request) (*metrics.ComplexityReport, error) {
	if req.empty() {
		return nil, ErrEmptyRequest
	}
	cfg := e.Configuration()
	key := reportcache.HashSource(req.Source)

	return e.cache.GetOrCompute(key, func() (*metrics.ComplexityReport, error) {
		in := metrics.Input{Source: req.Source, FileName: req.FileName}
		texts := [costrecord.NbDomains]string{
			costrecord.ACIR:    req.ACIRText,
			costrecord.Brillig: req.BrilligText,
			costrecord.Gates:   req.GatesText,
		}

		g, gctx := errgroup.WithContext(ctx)
		for d := costrecord.Domain(0); d < costrecord.NbDomains; d++ {
			if texts[d] == "" {
				continue
			}
			d := d
			g.Go(func() error {
				in.Domains[d] = costrecord.ParseTextExt(texts[d], cfg.SourceExtension).Records()
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		report, err := metrics.Aggregate(in, cfg.Metrics)
		if err != nil {
			return nil, err
		}
		log := logger.Logger()
		log.Info().
			Str("file", req.FileName).
			Int("gates", report.GateCount).
			Int("hotspots", len(report.Hotspots)).
			Msg("complexity report generated")
		return report, nil
	})
}

// GetComplexityReport returns the cached report for the given source, or nil if
// none is cached (or the entry expired). It never computes.
func (e *Engine) GetComplexityReport(source string) *metrics.ComplexityReport {
	report, ok := e.cache.Get(reportcache.HashSource(source))
	if !ok {
		return nil
	}
	return report
}

// CompareWithPrevious diffs current against the immediately preceding retained
// report on the chosen metric. Returns nil when fewer than two reports have
// been retained.
func (e *Engine) CompareWithPrevious(current *metrics.ComplexityReport, m reportcache.Metric) *reportcache.Comparison {
	return e.cache.CompareWithPrevious(current, m)
}

// AnalyzeCircuit runs the optimization rule battery over a report and its
// source.
func (e *Engine) AnalyzeCircuit(report *metrics.ComplexityReport, source string) *insight.InsightReport {
	return insight.Analyze(report, source, e.Configuration().Insight)
}

// ClearCache purges all cached reports and the delta history.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Close releases the engine's cache. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.cache.Close()
}

// CacheStats returns report cache counters.
func (e *Engine) CacheStats() reportcache.Stats {
	return e.cache.Stats()
}

// UpdateConfiguration applies a partial configuration change. The mutation runs
// under the engine's lock; the cache TTL is kept in sync.
func (e *Engine) UpdateConfiguration(mutate func(*Config)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mutate(&e.cfg)
	e.cache.SetTTL(e.cfg.CacheTTL)
}

// Configuration returns a copy of the current configuration.
func (e *Engine) Configuration() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}
