package palettize

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordQuantize is called after each quantize operation.
	// k is the number of clusters produced, duration is the total time
	// taken, err is nil if successful.
	RecordQuantize(k int, duration time.Duration, err error)

	// RecordLloyd is called after each full-dataset Lloyd run that the
	// quantizer drives directly.
	RecordLloyd(iterations int, converged bool, duration time.Duration)

	// RecordSplitTrials is called once per adaptive run with the number
	// of split trials executed and the number accepted.
	RecordSplitTrials(tried, accepted int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuantize(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLloyd(int, bool, time.Duration)     {}
func (NoopMetricsCollector) RecordSplitTrials(int, int)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QuantizeCount      atomic.Int64
	QuantizeErrors     atomic.Int64
	QuantizeTotalNanos atomic.Int64
	LloydRuns          atomic.Int64
	LloydIterations    atomic.Int64
	LloydConverged     atomic.Int64
	SplitsTried        atomic.Int64
	SplitsAccepted     atomic.Int64
}

// RecordQuantize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuantize(k int, duration time.Duration, err error) {
	b.QuantizeCount.Add(1)
	b.QuantizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QuantizeErrors.Add(1)
	}
}

// RecordLloyd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLloyd(iterations int, converged bool, duration time.Duration) {
	b.LloydRuns.Add(1)
	b.LloydIterations.Add(int64(iterations))
	if converged {
		b.LloydConverged.Add(1)
	}
}

// RecordSplitTrials implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplitTrials(tried, accepted int) {
	b.SplitsTried.Add(int64(tried))
	b.SplitsAccepted.Add(int64(accepted))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QuantizeCount:    b.QuantizeCount.Load(),
		QuantizeErrors:   b.QuantizeErrors.Load(),
		QuantizeAvgNanos: b.getAvgQuantizeNanos(),
		LloydRuns:        b.LloydRuns.Load(),
		LloydIterations:  b.LloydIterations.Load(),
		LloydConverged:   b.LloydConverged.Load(),
		SplitsTried:      b.SplitsTried.Load(),
		SplitsAccepted:   b.SplitsAccepted.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQuantizeNanos() int64 {
	count := b.QuantizeCount.Load()
	if count == 0 {
		return 0
	}
	return b.QuantizeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QuantizeCount    int64
	QuantizeErrors   int64
	QuantizeAvgNanos int64
	LloydRuns        int64
	LloydIterations  int64
	LloydConverged   int64
	SplitsTried      int64
	SplitsAccepted   int64
}
