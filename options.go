package palettize

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	parallelism      int
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		parallelism:      1,
	}
}

// Option configures Quantizer behavior.
type Option func(*options)

// WithLogger configures structured logging. If nil is passed, logging
// stays disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsCollector configures operational metrics collection.
// If nil is passed, metrics stay disabled.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(o *options) {
		if collector != nil {
			o.metricsCollector = collector
		}
	}
}

// WithParallelism shards the Lloyd assignment pass across n goroutines.
// Results are bit-identical for a fixed n. Values below 2 keep the
// engine single-threaded (the default).
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}
