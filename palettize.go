package palettize

import (
	"context"
	"time"

	"github.com/palettize/palettize/adaptive"
	"github.com/palettize/palettize/kmeans"
	"github.com/palettize/palettize/model"
	"github.com/palettize/palettize/seeding"
)

// Quantizer reduces flat stride-4 sample arrays to a small palette of
// cluster centroids. It is stateless apart from its options and safe
// for concurrent use.
type Quantizer struct {
	opts options
}

// New creates a Quantizer.
func New(opts ...Option) *Quantizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Quantizer{opts: o}
}

// Quantize clusters the samples according to settings. Samples are a
// flat stride-4 array in the settings' feature space (see
// EncodeSamples). Zero samples yield an empty result without error;
// invalid enum values in settings return an error.
func (q *Quantizer) Quantize(ctx context.Context, samples []float32, settings model.Settings) (*model.Result, error) {
	start := time.Now()
	result, err := q.quantize(ctx, samples, settings)

	k := 0
	if result != nil {
		k = result.K()
	}
	q.opts.logger.LogQuantize(ctx, settings.Method.String(), k, time.Since(start), err)
	q.opts.metricsCollector.RecordQuantize(k, time.Since(start), err)
	return result, err
}

func (q *Quantizer) quantize(ctx context.Context, samples []float32, settings model.Settings) (*model.Result, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	sampleCount := model.SampleCount(samples)
	if sampleCount == 0 {
		return model.EmptyResult(), nil
	}
	settings = settings.Normalized(sampleCount)

	switch settings.Method {
	case model.XMeans, model.GMeans:
		return q.quantizeAdaptive(ctx, samples, settings)
	default:
		return q.quantizeKMeans(ctx, samples, settings)
	}
}

func (q *Quantizer) quantizeKMeans(ctx context.Context, samples []float32, settings model.Settings) (*model.Result, error) {
	initial := seeding.Build(samples, settings, settings.Clusters)

	start := time.Now()
	result, stats, err := kmeans.Run(ctx, samples, initial, kmeans.Options{
		Space:         settings.Space,
		MaxIterations: settings.MaxIterations,
		Seed:          settings.Seed,
		Parallelism:   q.opts.parallelism,
	})
	if err != nil {
		return nil, err
	}

	q.opts.logger.LogLloyd(ctx, stats.Iterations, stats.Converged, stats.MaxMovement)
	q.opts.metricsCollector.RecordLloyd(stats.Iterations, stats.Converged, time.Since(start))
	return result, nil
}

func (q *Quantizer) quantizeAdaptive(ctx context.Context, samples []float32, settings model.Settings) (*model.Result, error) {
	opts := adaptive.Options{
		Parallelism: q.opts.parallelism,
		Logger:      q.opts.logger.Logger,
	}

	var (
		result *model.Result
		grow   adaptive.Stats
		err    error
	)
	if settings.Method == model.GMeans {
		result, grow, err = adaptive.GMeans(ctx, samples, settings, opts)
	} else {
		result, grow, err = adaptive.XMeans(ctx, samples, settings, opts)
	}
	if err != nil {
		return nil, err
	}

	q.opts.logger.LogGrowth(ctx, grow.Rounds, grow.SplitsTried, grow.SplitsAccepted, result.K())
	q.opts.metricsCollector.RecordSplitTrials(grow.SplitsTried, grow.SplitsAccepted)
	return result, nil
}

// Quantize is a convenience wrapper around New(opts...).Quantize.
func Quantize(ctx context.Context, samples []float32, settings model.Settings, opts ...Option) (*model.Result, error) {
	return New(opts...).Quantize(ctx, samples, settings)
}
