// Package reportcache memoizes complexity reports keyed by a content hash of the
// profiled source, with TTL-based expiry and a bounded history of prior reports
// retained for run-over-run delta comparison.
//
// The cache is explicitly constructed and injected into its owner; there is no
// package-level instance.
package reportcache

import (
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/noirscope/noirscope/logger"
	"github.com/noirscope/noirscope/metrics"
)

// Key is the content hash of a profiled source text.
type Key [32]byte

// HashSource digests source text into a cache key. blake2b is used for speed;
// collision resistance beyond content addressing is not needed here.
func HashSource(source string) Key {
	return blake2b.Sum256([]byte(source))
}

type entry struct {
	report   *metrics.ComplexityReport
	cachedAt time.Time
}

// Cache is a TTL-bounded memo of complexity reports. All methods are safe for
// concurrent use; a recompute for a key already being computed waits for the
// first computation instead of duplicating it.
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	inflight map[Key]chan struct{}
	history  []*metrics.ComplexityReport // oldest first, bounded by depth
	ttl      time.Duration
	depth    int

	hits, misses, evictions int64

	now func() time.Time // test hook
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the time-to-live of cached reports. Defaults to 5 minutes.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithHistoryDepth bounds the retained report history used for delta
// comparison. Defaults to 10; oldest entries are evicted first.
func WithHistoryDepth(depth int) Option {
	return func(c *Cache) { c.depth = depth }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[Key]*entry),
		inflight: make(map[Key]chan struct{}),
		ttl:      5 * time.Minute,
		depth:    10,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTTL changes the time-to-live applied to subsequent lookups.
func (c *Cache) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
}

// Get returns the cached report for key if present and not expired. An expired
// entry is treated as a miss and dropped.
func (c *Cache) Get(key Key) (*metrics.ComplexityReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key)
}

// lookup must be called with c.mu held.
func (c *Cache) lookup(key Key) (*metrics.ComplexityReport, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.cachedAt) > c.ttl {
		delete(c.entries, key)
		c.evictions++
		c.misses++
		return nil, false
	}
	c.hits++
	return e.report, true
}

// Put stores a report and appends it to the delta history.
func (c *Cache) Put(key Key, report *metrics.ComplexityReport) {
	c.mu.Lock()
	c.store(key, report)
	c.mu.Unlock()
}

// store must be called with c.mu held.
func (c *Cache) store(key Key, report *metrics.ComplexityReport) {
	c.entries[key] = &entry{report: report, cachedAt: c.now()}
	c.history = append(c.history, report)
	if c.depth > 0 && len(c.history) > c.depth {
		c.history = c.history[len(c.history)-c.depth:]
	}
}

// GetOrCompute returns the cached report for key, or runs compute and caches its
// result. Concurrent callers for the same key share a single computation; the
// losing callers re-check the cache once the winner finishes.
func (c *Cache) GetOrCompute(key Key, compute func() (*metrics.ComplexityReport, error)) (*metrics.ComplexityReport, error) {
	for {
		c.mu.Lock()
		if report, ok := c.lookup(key); ok {
			c.mu.Unlock()
			return report, nil
		}
		ch, pending := c.inflight[key]
		if !pending {
			ch = make(chan struct{})
			c.inflight[key] = ch
		}
		c.mu.Unlock()

		if pending {
			<-ch
			continue
		}

		report, err := compute()

		c.mu.Lock()
		delete(c.inflight, key)
		close(ch)
		if err == nil {
			c.store(key, report)
		}
		c.mu.Unlock()

		if err != nil {
			log := logger.Logger()
			log.Debug().Err(err).Msg("report computation failed")
			return nil, err
		}
		return report, nil
	}
}

// Clear purges all entries and the delta history.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Key]*entry)
	c.history = nil
	c.mu.Unlock()
}

// Close releases the cache. The cache must not be used afterwards.
func (c *Cache) Close() {
	c.Clear()
}

// Stats are point-in-time cache counters.
type Stats struct {
	Size      int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Stats returns cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
