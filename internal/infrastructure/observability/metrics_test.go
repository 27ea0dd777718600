package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ObserveRequest_IncrementsCounterPerLabelSet(t *testing.T) {
	r := NewRegistry()

	r.ObserveRequest("GET", "/health", 200, 10*time.Millisecond)
	r.ObserveRequest("GET", "/health", 200, 20*time.Millisecond)
	r.ObserveRequest("GET", "/error", 500, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requestsTotal.WithLabelValues("GET", "/error", "500")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.requestDuration, RequestDurationName))
}

func TestRegistry_HistogramBucketsAreCumulative(t *testing.T) {
	r := NewRegistry()

	for _, d := range []time.Duration{
		50 * time.Millisecond,
		300 * time.Millisecond,
		700 * time.Millisecond,
		2 * time.Second,
		4 * time.Second,
		6 * time.Second,
		20 * time.Second,
	} {
		r.ObserveRequest("GET", "/heavy-task", 200, d)
	}

	h := findHistogram(t, r, RequestDurationName)
	require.Len(t, h.GetBucket(), len(DurationBuckets))

	var prev uint64
	for i, b := range h.GetBucket() {
		assert.Equal(t, DurationBuckets[i], b.GetUpperBound())
		assert.GreaterOrEqual(t, b.GetCumulativeCount(), prev, "bucket %v decreased", b.GetUpperBound())
		prev = b.GetCumulativeCount()
	}

	assert.Equal(t, uint64(7), h.GetSampleCount())
	assert.Equal(t, uint64(6), h.GetBucket()[len(DurationBuckets)-1].GetCumulativeCount())
	assert.InDelta(t, 33.05, h.GetSampleSum(), 1e-9)
}

func TestRegistry_IncludesRuntimeMetrics(t *testing.T) {
	r := NewRegistry()
	r.ObserveRequest("GET", "/health", 200, time.Millisecond)

	mfs, err := r.Gatherer().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["go_memstats_alloc_bytes"])
	assert.True(t, names[RequestsTotalName])
	assert.True(t, names[RequestDurationName])
}

func TestNoop_SatisfiesRecorder(t *testing.T) {
	var rec RequestRecorder = Noop{}
	assert.NotPanics(t, func() {
		rec.ObserveRequest("GET", "/", 200, time.Second)
	})
}

func findHistogram(t *testing.T, r *Registry, name string) *dto.Histogram {
	t.Helper()
	mfs, err := r.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetHistogram()
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}
