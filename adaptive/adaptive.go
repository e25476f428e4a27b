package adaptive

import (
	"context"
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/palettize/palettize/internal/stats"
	"github.com/palettize/palettize/kmeans"
	"github.com/palettize/palettize/model"
	"github.com/palettize/palettize/seeding"
)

// bicImprovementMargin is how much the two-child BIC must beat the
// parent BIC before a split is accepted.
const bicImprovementMargin = 0.5

// featureDims is the number of clustered channels (alpha is carried,
// not clustered).
const featureDims = 3

// Options configures an adaptive run.
type Options struct {
	// Parallelism is forwarded to the full-dataset Lloyd passes.
	Parallelism int
	// Logger receives per-round progress at debug level. Nil disables.
	Logger *slog.Logger
}

// Stats reports how the clustering grew.
type Stats struct {
	// Rounds is the number of grow rounds executed, final pass included.
	Rounds int
	// SplitsTried counts split trials run across all rounds.
	SplitsTried int
	// SplitsAccepted counts trials whose children replaced the parent.
	SplitsAccepted int
}

// policy captures what differs between the two drivers.
type policy struct {
	name           string
	minClusterSize int
	roundStep      uint32
	clusterSeedMul uint32
	seedConverged  uint32
	seedCeiling    uint32
	accept         func(ctx context.Context, samples []float32, set *roaring.Bitmap, parent [4]float32, parentSSE float64, settings model.Settings, seed uint32) ([4]float32, [4]float32, bool, error)
}

// XMeans grows the clustering from a small seed count, accepting a
// cluster split whenever the two-child model scores a better Bayesian
// Information Criterion than the parent.
func XMeans(ctx context.Context, samples []float32, settings model.Settings, opts Options) (*model.Result, Stats, error) {
	return run(ctx, samples, settings, opts, policy{
		name:           "xmeans",
		minClusterSize: 8,
		roundStep:      17,
		clusterSeedMul: 97,
		seedConverged:  0xA55A_5AA5,
		seedCeiling:    0x11CC_22DD,
		accept:         acceptBIC,
	})
}

// GMeans grows the clustering from a small seed count, accepting a
// cluster split whenever the members fail a Jarque-Bera normality
// test along the candidate split axis.
func GMeans(ctx context.Context, samples []float32, settings model.Settings, opts Options) (*model.Result, Stats, error) {
	return run(ctx, samples, settings, opts, policy{
		name:           "gmeans",
		minClusterSize: 10,
		roundStep:      31,
		clusterSeedMul: 131,
		seedConverged:  0x77DD_33BB,
		seedCeiling:    0x5A5A_22EE,
		accept:         acceptGaussian,
	})
}

func run(ctx context.Context, samples []float32, settings model.Settings, opts Options, pol policy) (*model.Result, Stats, error) {
	var grow Stats

	sampleCount := model.SampleCount(samples)
	if sampleCount == 0 {
		return model.EmptyResult(), grow, nil
	}

	maxClusters := settings.AutoMaxClusters
	if maxClusters > sampleCount {
		maxClusters = sampleCount
	}
	if maxClusters < 1 {
		maxClusters = 1
	}

	startK := 1
	if settings.Init == model.InitSelectedColors && len(settings.SelectedColors) > 0 {
		startK = len(settings.SelectedColors)
	}
	if startK > maxClusters {
		startK = maxClusters
	}

	centroids := seeding.Build(samples, settings, startK)
	if len(centroids) == 0 {
		centroids = [][4]float32{model.FeatureAt(samples, 0)}
	}

	var round uint32
	for {
		result, _, err := kmeans.Run(ctx, samples, centroids, kmeans.Options{
			Space:         settings.Space,
			MaxIterations: settings.MaxIterations,
			Seed:          settings.Seed + round,
			Parallelism:   opts.Parallelism,
		})
		if err != nil {
			return nil, grow, err
		}
		round += pol.roundStep
		grow.Rounds++
		if result.K() == 0 {
			return result, grow, nil
		}

		sets := membership(result.Labels, result.K())
		next := make([][4]float32, 0, maxClusters)
		splits := 0

		for clusterIdx, set := range sets {
			parent := result.Centroids[clusterIdx]
			if int(set.GetCardinality()) < pol.minClusterSize || len(next)+1 > maxClusters {
				next = append(next, parent)
				continue
			}

			seed := settings.Seed + uint32(clusterIdx)*pol.clusterSeedMul + round
			grow.SplitsTried++
			a, b, ok, err := pol.accept(ctx, samples, set, parent, result.SSEPerCluster[clusterIdx], settings, seed)
			if err != nil {
				return nil, grow, err
			}
			if ok && len(next)+2 <= maxClusters {
				next = append(next, a, b)
				splits++
				grow.SplitsAccepted++
				continue
			}
			next = append(next, parent)
		}

		if opts.Logger != nil {
			opts.Logger.DebugContext(ctx, "adaptive round",
				slog.String("driver", pol.name),
				slog.Int("k", result.K()),
				slog.Int("splits", splits),
			)
		}

		if splits == 0 || len(next) == len(centroids) {
			return finalize(ctx, samples, result.Centroids, settings, opts, settings.Seed+pol.seedConverged, grow)
		}

		centroids = kmeans.Dedup(next, settings.Space)
		if len(centroids) >= maxClusters {
			return finalize(ctx, samples, centroids, settings, opts, settings.Seed+pol.seedCeiling, grow)
		}
	}
}

// finalize polishes the grown centroid set with one full Lloyd run.
func finalize(ctx context.Context, samples []float32, centroids [][4]float32, settings model.Settings, opts Options, seed uint32, grow Stats) (*model.Result, Stats, error) {
	result, _, err := kmeans.Run(ctx, samples, centroids, kmeans.Options{
		Space:         settings.Space,
		MaxIterations: settings.MaxIterations,
		Seed:          seed,
		Parallelism:   opts.Parallelism,
	})
	if err != nil {
		return nil, grow, err
	}
	grow.Rounds++
	return result, grow, nil
}

// acceptBIC accepts a split when the two-child fit beats the parent's
// Bayesian Information Criterion by a margin.
func acceptBIC(ctx context.Context, samples []float32, set *roaring.Bitmap, parent [4]float32, parentSSE float64, settings model.Settings, seed uint32) ([4]float32, [4]float32, bool, error) {
	trial, err := runSplitTrial(ctx, samples, set, parent, settings, seed)
	if err != nil {
		return parent, parent, false, err
	}
	local := trial.local
	if local.K() != 2 || local.Counts[0] == 0 || local.Counts[1] == 0 {
		return parent, parent, false, nil
	}

	n := int(set.GetCardinality())
	if n < 3 {
		return parent, parent, false, nil
	}

	childSSE := estimateTwoCentroidSSE(samples, set, local.Centroids[0], local.Centroids[1], settings.Space)
	bicParent := stats.BIC(parentSSE, n, 1, featureDims)
	bicChildren := stats.BIC(childSSE, n, 2, featureDims)
	if bicChildren > bicParent+bicImprovementMargin {
		return local.Centroids[0], local.Centroids[1], true, nil
	}
	return parent, parent, false, nil
}

// acceptGaussian accepts a split when the subset, projected onto the
// child-to-child axis, is demonstrably non-normal.
func acceptGaussian(ctx context.Context, samples []float32, set *roaring.Bitmap, parent [4]float32, _ float64, settings model.Settings, seed uint32) ([4]float32, [4]float32, bool, error) {
	trial, err := runSplitTrial(ctx, samples, set, parent, settings, seed)
	if err != nil {
		return parent, parent, false, err
	}
	local := trial.local
	if local.K() != 2 || local.Counts[0] < 2 || local.Counts[1] < 2 {
		return parent, parent, false, nil
	}

	projections := buildSplitProjections(trial.subset, parent, local.Centroids[0], local.Centroids[1], settings.Space)
	if len(projections) < 8 {
		return parent, parent, false, nil
	}

	p := stats.JarqueBeraPValue(projections)
	if p < float64(settings.GMeansAlpha) {
		return local.Centroids[0], local.Centroids[1], true, nil
	}
	return parent, parent, false, nil
}
