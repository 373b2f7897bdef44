package reportcache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noirscope/noirscope/metrics"
)

func testReport(line, gates int) *metrics.ComplexityReport {
	lm := metrics.LineMetric{Line: line, File: "main.nr", GateCount: gates, TotalCost: gates}
	return &metrics.ComplexityReport{
		ID:        uuid.New(),
		Files:     []metrics.FileMetric{{Name: "main.nr", Lines: []metrics.LineMetric{lm}, GateCount: gates, TotalCost: gates}},
		GateCount: gates,
		TotalCost: gates,
	}
}

func TestCacheHitMiss(t *testing.T) {
	assert := require.New(t)

	c := New()
	key := HashSource("fn main() {}")

	_, ok := c.Get(key)
	assert.False(ok)

	want := testReport(3, 10)
	c.Put(key, want)

	got, ok := c.Get(key)
	assert.True(ok)
	assert.Same(want, got)

	stats := c.Stats()
	assert.Equal(1, stats.Size)
	assert.Equal(int64(1), stats.Hits)
	assert.Equal(int64(1), stats.Misses)
}

func TestCacheTTLExpiry(t *testing.T) {
	assert := require.New(t)

	c := New(WithTTL(time.Minute))
	now := time.Now()
	c.now = func() time.Time { return now }

	key := HashSource("fn main() {}")
	c.Put(key, testReport(3, 10))

	_, ok := c.Get(key)
	assert.True(ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(key)
	assert.False(ok)
	assert.Equal(int64(1), c.Stats().Evictions)
}

func TestGetOrComputeIdempotent(t *testing.T) {
	assert := require.New(t)

	c := New()
	key := HashSource("fn main() {}")

	var calls int
	compute := func() (*metrics.ComplexityReport, error) {
		calls++
		return testReport(3, 10), nil
	}

	first, err := c.GetOrCompute(key, compute)
	assert.NoError(err)
	second, err := c.GetOrCompute(key, compute)
	assert.NoError(err)

	assert.Equal(1, calls)
	assert.Same(first, second)
	assert.Empty(cmp.Diff(first, second))

	c.Clear()
	third, err := c.GetOrCompute(key, compute)
	assert.NoError(err)
	assert.Equal(2, calls)
	assert.NotSame(first, third)
}

func TestGetOrComputeSharesInflight(t *testing.T) {
	assert := require.New(t)

	c := New()
	key := HashSource("fn main() {}")

	var calls int32
	release := make(chan struct{})
	compute := func() (*metrics.ComplexityReport, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return testReport(3, 10), nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]*metrics.ComplexityReport, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := c.GetOrCompute(key, compute)
			assert.NoError(err)
			results[i] = r
		}(i)
	}

	// let the goroutines pile up on the in-flight computation
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(int32(1), atomic.LoadInt32(&calls))
	for i := 1; i < n; i++ {
		assert.Same(results[0], results[i])
	}
}

func TestHistoryBounded(t *testing.T) {
	assert := require.New(t)

	c := New(WithHistoryDepth(3))
	for i := 0; i < 5; i++ {
		c.Put(HashSource(string(rune('a'+i))), testReport(i+1, 10*(i+1)))
	}
	assert.Len(c.history, 3)
}

func TestCompareWithPrevious(t *testing.T) {
	assert := require.New(t)

	c := New()
	before := testReport(3, 100)
	after := testReport(3, 60)

	c.Put(HashSource("v1"), before)
	c.Put(HashSource("v2"), after)

	comparison := c.CompareWithPrevious(after, MetricGateCount)
	assert.NotNil(comparison)
	assert.Len(comparison.Deltas, 1)
	assert.Equal(-40, comparison.Deltas[0].Delta)
	assert.Equal(-40, comparison.OverallChange)
	assert.InDelta(-40.0, comparison.OverallChangePercent, 1e-9)
	assert.True(comparison.IsImprovement)
}

func TestCompareIdenticalRuns(t *testing.T) {
	assert := require.New(t)

	c := New()
	first := testReport(3, 100)
	second := testReport(3, 100)

	c.Put(HashSource("v1"), first)
	c.Put(HashSource("v2"), second)

	comparison := c.CompareWithPrevious(second, MetricGateCount)
	assert.NotNil(comparison)
	assert.Empty(comparison.Deltas)
	assert.Zero(comparison.OverallChange)
	assert.False(comparison.IsImprovement)
}

func TestCompareNeedsTwoReports(t *testing.T) {
	assert := require.New(t)

	c := New()
	only := testReport(3, 100)
	c.Put(HashSource("v1"), only)

	assert.Nil(c.CompareWithPrevious(only, MetricGateCount))
}
