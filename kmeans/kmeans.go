package kmeans

import (
	"context"
	"math"

	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/distance"
	"github.com/palettize/palettize/internal/math32"
	"github.com/palettize/palettize/internal/xrand"
	"github.com/palettize/palettize/model"
)

// movementEpsilon is the centroid-movement threshold below which an
// iteration with no label changes counts as converged.
const movementEpsilon = 1.0e-4

// dedupEpsilonSq is the squared distance under which two centroids are
// considered duplicates.
const dedupEpsilonSq = 1.0e-8

// Options configures one Lloyd run.
type Options struct {
	// Space is the feature space the samples are encoded in.
	Space colorspace.Space
	// MaxIterations bounds the loop; values below 1 run one iteration.
	MaxIterations int
	// Seed drives the empty-cluster reseed path.
	Seed uint32
	// Parallelism shards the assignment pass across goroutines when
	// greater than 1. Results are bit-identical for a fixed value.
	Parallelism int
}

// Stats reports how a run terminated.
type Stats struct {
	// Iterations is the number of Lloyd iterations executed.
	Iterations int
	// Converged is true if the loop stopped before MaxIterations.
	Converged bool
	// MaxMovement is the largest centroid movement of the last iteration.
	MaxMovement float32
}

// Run executes the accelerated Lloyd iteration over flat stride-4
// samples starting from the given centroids. Zero samples or zero
// centroids yield an empty result; duplicate initial centroids are
// collapsed before the loop starts. The context is checked once per
// iteration.
func Run(ctx context.Context, samples []float32, initial [][4]float32, opts Options) (*model.Result, Stats, error) {
	sampleCount := model.SampleCount(samples)
	if sampleCount == 0 || len(initial) == 0 {
		return model.EmptyResult(), Stats{Converged: true}, nil
	}

	centroids := Dedup(initial, opts.Space)
	if len(centroids) == 0 {
		centroids = [][4]float32{model.FeatureAt(samples, 0)}
	}
	k := len(centroids)

	labels := make([]int, sampleCount)
	upper := make([]float32, sampleCount)
	lower := make([]float32, sampleCount)
	rng := xrand.New(uint64(opts.Seed) ^ xrand.SeedLloyd)

	for idx := 0; idx < sampleCount; idx++ {
		sample := model.FeatureAt(samples, idx)
		best, bestSq, secondSq := distance.NearestTwo(sample, centroids, opts.Space)
		labels[idx] = best
		upper[idx] = math32.Sqrt(bestSq)
		lower[idx] = math32.Sqrt(secondSq)
	}

	maxIterations := opts.MaxIterations
	if maxIterations < 1 {
		maxIterations = 1
	}

	var stats Stats
	movements := make([]float32, k)

	for iter := 0; iter < maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		separation := halfMinCentroidDistances(centroids, opts.Space)
		accums := make([]Accumulator, k)

		var changed bool
		if opts.Parallelism > 1 {
			changed = assignParallel(samples, centroids, separation, labels, upper, lower, accums, opts)
		} else {
			changed = assignRange(samples, centroids, separation, labels, upper, lower, accums, opts.Space, 0, sampleCount)
		}

		var maxMove float32
		for c := 0; c < k; c++ {
			old := centroids[c]
			if accums[c].Count() == 0 {
				centroids[c] = model.FeatureAt(samples, rng.Index(sampleCount))
			} else {
				centroids[c] = accums[c].Mean(opts.Space)
			}
			move := math32.Sqrt(distance.Sq(old, centroids[c], opts.Space))
			movements[c] = move
			if move > maxMove {
				maxMove = move
			}
		}

		for idx := 0; idx < sampleCount; idx++ {
			upper[idx] += movements[labels[idx]]
			if l := lower[idx] - maxMove; l > 0 {
				lower[idx] = l
			} else {
				lower[idx] = 0
			}
		}

		stats.Iterations++
		stats.MaxMovement = maxMove
		if !changed && maxMove <= movementEpsilon {
			stats.Converged = true
			break
		}
	}

	// Exact re-assignment: pruning can leave labels stale relative to
	// the final centroid positions.
	for idx := 0; idx < sampleCount; idx++ {
		best, _ := distance.Nearest(model.FeatureAt(samples, idx), centroids, opts.Space)
		labels[idx] = best
	}

	counts := make([]int, k)
	ssePerCluster := make([]float64, k)
	for idx := 0; idx < sampleCount; idx++ {
		label := labels[idx]
		counts[label]++
		ssePerCluster[label] += float64(distance.Sq(model.FeatureAt(samples, idx), centroids[label], opts.Space))
	}

	return &model.Result{
		Centroids:     centroids,
		Labels:        labels,
		Counts:        counts,
		SSEPerCluster: ssePerCluster,
	}, stats, nil
}

// assignRange runs the Hamerly-pruned assignment step over samples
// [from, to), accumulating into accums. Returns whether any label
// changed.
func assignRange(samples []float32, centroids [][4]float32, separation []float32, labels []int, upper, lower []float32, accums []Accumulator, space colorspace.Space, from, to int) bool {
	changed := false

	for idx := from; idx < to; idx++ {
		sample := model.FeatureAt(samples, idx)
		current := labels[idx]

		bound := separation[current]
		if lower[idx] > bound {
			bound = lower[idx]
		}
		if upper[idx] <= bound {
			accums[current].Add(sample, space)
			continue
		}

		// Tighten the upper bound to the exact distance and retest.
		upper[idx] = math32.Sqrt(distance.Sq(sample, centroids[current], space))
		if upper[idx] <= bound {
			accums[current].Add(sample, space)
			continue
		}

		best, bestSq, secondSq := distance.NearestTwo(sample, centroids, space)
		if best != current {
			changed = true
			labels[idx] = best
		}
		upper[idx] = math32.Sqrt(bestSq)
		lower[idx] = math32.Sqrt(secondSq)
		accums[labels[idx]].Add(sample, space)
	}

	return changed
}

// halfMinCentroidDistances returns, per centroid, half the distance to
// its closest other centroid. A lone centroid gets +Inf so the bound
// always prunes.
func halfMinCentroidDistances(centroids [][4]float32, space colorspace.Space) []float32 {
	k := len(centroids)
	mins := make([]float32, k)
	if k <= 1 {
		for i := range mins {
			mins[i] = float32(math.Inf(1))
		}
		return mins
	}

	for i := range mins {
		mins[i] = float32(math.Inf(1))
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			d := math32.Sqrt(distance.Sq(centroids[i], centroids[j], space)) * 0.5
			if d < mins[i] {
				mins[i] = d
			}
			if d < mins[j] {
				mins[j] = d
			}
		}
	}

	return mins
}

// Dedup removes centroids that coincide (within a fixed epsilon) with
// an earlier one, preserving order.
func Dedup(centroids [][4]float32, space colorspace.Space) [][4]float32 {
	unique := make([][4]float32, 0, len(centroids))
	for _, c := range centroids {
		dup := false
		for _, u := range unique {
			if distance.Sq(u, c, space) < dedupEpsilonSq {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, c)
		}
	}
	return unique
}
