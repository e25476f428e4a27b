package kmeans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/testutil"
)

func linearOpts() Options {
	return Options{Space: colorspace.LinearRGB, MaxIterations: 16, Seed: 1}
}

func TestRunTwoClusters(t *testing.T) {
	samples := testutil.Features(
		[4]float32{0, 0, 0, 1},
		[4]float32{0.05, 0.05, 0.05, 1},
		[4]float32{0.9, 0.9, 0.9, 1},
		[4]float32{0.95, 0.95, 0.95, 1},
	)
	initial := [][4]float32{{0, 0, 0, 1}, {1, 1, 1, 1}}

	result, stats, err := Run(context.Background(), samples, initial, linearOpts())
	require.NoError(t, err)
	require.Equal(t, 2, result.K())
	assert.True(t, stats.Converged)
	assert.Equal(t, result.Labels[0], result.Labels[1])
	assert.Equal(t, result.Labels[2], result.Labels[3])
	assert.NotEqual(t, result.Labels[0], result.Labels[2])
	assert.Equal(t, []int{2, 2}, result.Counts)
}

func TestRunEmptyInputs(t *testing.T) {
	result, stats, err := Run(context.Background(), nil, [][4]float32{{0, 0, 0, 1}}, linearOpts())
	require.NoError(t, err)
	assert.Zero(t, result.K())
	assert.True(t, stats.Converged)

	result, _, err = Run(context.Background(), testutil.Flat([3]float32{0.5, 0.5, 0.5}, 4), nil, linearOpts())
	require.NoError(t, err)
	assert.Zero(t, result.K())
}

func TestRunDuplicateInitialCentroidsCollapse(t *testing.T) {
	samples := testutil.Flat([3]float32{0.3, 0.3, 0.3}, 100)
	initial := make([][4]float32, 5)
	for i := range initial {
		initial[i] = [4]float32{0.3, 0.3, 0.3, 1}
	}

	result, stats, err := Run(context.Background(), samples, initial, linearOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, result.K())
	assert.Equal(t, 1, stats.Iterations)
	assert.True(t, stats.Converged)
	assert.Equal(t, []int{100}, result.Counts)
}

func TestRunInvariants(t *testing.T) {
	rng := testutil.NewRNG(7)
	var samples []float32
	samples = rng.Blob(samples, [3]float32{0.2, 0.2, 0.2}, 0.05, 1, 150)
	samples = rng.Blob(samples, [3]float32{0.8, 0.5, 0.1}, 0.05, 1, 150)
	samples = rng.Blob(samples, [3]float32{0.4, 0.9, 0.7}, 0.05, 1, 150)

	initial := [][4]float32{
		{0.2, 0.2, 0.2, 1},
		{0.8, 0.5, 0.1, 1},
		{0.4, 0.9, 0.7, 1},
	}
	result, _, err := Run(context.Background(), samples, initial, linearOpts())
	require.NoError(t, err)

	total := 0
	for c, count := range result.Counts {
		total += count
		got := 0
		for _, label := range result.Labels {
			require.Less(t, label, result.K())
			if label == c {
				got++
			}
		}
		assert.Equal(t, count, got)
	}
	assert.Equal(t, 450, total)
}

func TestRunDeterminism(t *testing.T) {
	rng := testutil.NewRNG(11)
	var samples []float32
	samples = rng.Blob(samples, [3]float32{0.3, 0.1, 0.6}, 0.1, 1, 200)
	samples = rng.Blob(samples, [3]float32{0.7, 0.8, 0.2}, 0.1, 1, 200)
	initial := [][4]float32{{0.1, 0.1, 0.1, 1}, {0.9, 0.9, 0.9, 1}}

	a, _, err := Run(context.Background(), samples, initial, linearOpts())
	require.NoError(t, err)
	b, _, err := Run(context.Background(), samples, initial, linearOpts())
	require.NoError(t, err)

	assert.Equal(t, a.Centroids, b.Centroids)
	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.SSEPerCluster, b.SSEPerCluster)
}

func TestRunParallelMatchesSequentialLabels(t *testing.T) {
	rng := testutil.NewRNG(3)
	var samples []float32
	samples = rng.Blob(samples, [3]float32{0.15, 0.15, 0.15}, 0.05, 1, 300)
	samples = rng.Blob(samples, [3]float32{0.85, 0.85, 0.85}, 0.05, 1, 300)
	initial := [][4]float32{{0, 0, 0, 1}, {1, 1, 1, 1}}

	seq, _, err := Run(context.Background(), samples, initial, linearOpts())
	require.NoError(t, err)

	opts := linearOpts()
	opts.Parallelism = 4
	par, _, err := Run(context.Background(), samples, initial, opts)
	require.NoError(t, err)

	assert.Equal(t, seq.Labels, par.Labels)
	assert.Equal(t, seq.Counts, par.Counts)
}

func TestRunCircularHueClustering(t *testing.T) {
	// Two hue groups straddling the wrap boundary must form one cluster,
	// well separated from a mid-hue group.
	var features [][4]float32
	for i := 0; i < 20; i++ {
		features = append(features, [4]float32{0.98 + 0.001*float32(i%3), 0.8, 0.8, 1})
		features = append(features, [4]float32{0.01 + 0.001*float32(i%3), 0.8, 0.8, 1})
		features = append(features, [4]float32{0.5 + 0.001*float32(i%3), 0.8, 0.8, 1})
	}
	samples := testutil.Features(features...)

	opts := Options{Space: colorspace.HSV, MaxIterations: 16, Seed: 5}
	initial := [][4]float32{{0.99, 0.8, 0.8, 1}, {0.5, 0.8, 0.8, 1}}
	result, _, err := Run(context.Background(), samples, initial, opts)
	require.NoError(t, err)
	require.Equal(t, 2, result.K())
	assert.ElementsMatch(t, []int{40, 20}, result.Counts)
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rng := testutil.NewRNG(1)
	samples := rng.Blob(nil, [3]float32{0.5, 0.5, 0.5}, 0.3, 1, 500)
	initial := [][4]float32{{0.1, 0.1, 0.1, 1}, {0.9, 0.9, 0.9, 1}}

	_, _, err := Run(ctx, samples, initial, linearOpts())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDedup(t *testing.T) {
	centroids := [][4]float32{
		{0.5, 0.5, 0.5, 1},
		{0.5, 0.5, 0.5, 1},
		{0.50001, 0.5, 0.5, 1},
		{0.9, 0.9, 0.9, 1},
	}
	unique := Dedup(centroids, colorspace.LinearRGB)
	assert.Len(t, unique, 2)
	assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, unique[0])
	assert.Equal(t, [4]float32{0.9, 0.9, 0.9, 1}, unique[1])
}

func TestFinalPassDoesNotIncreaseSSE(t *testing.T) {
	// With a single iteration the pruned loop leaves stale labels; the
	// final exact pass must produce an assignment whose SSE is no worse
	// than assigning each sample to its labeled centroid pre-pass.
	rng := testutil.NewRNG(21)
	var samples []float32
	samples = rng.Blob(samples, [3]float32{0.25, 0.25, 0.25}, 0.2, 1, 400)
	samples = rng.Blob(samples, [3]float32{0.75, 0.75, 0.75}, 0.2, 1, 400)

	initial := [][4]float32{{0.4, 0.4, 0.4, 1}, {0.6, 0.6, 0.6, 1}}
	opts := linearOpts()
	opts.MaxIterations = 1
	result, _, err := Run(context.Background(), samples, initial, opts)
	require.NoError(t, err)

	// Exact SSE of the returned assignment, recomputed independently.
	var exact float64
	for i, label := range result.Labels {
		s := [4]float32{samples[i*4], samples[i*4+1], samples[i*4+2], samples[i*4+3]}
		c := result.Centroids[label]
		d0 := s[0] - c[0]
		d1 := s[1] - c[1]
		d2 := s[2] - c[2]
		exact += float64(d0*d0 + d1*d1 + d2*d2)
	}
	assert.InDelta(t, exact, result.TotalSSE(), 1e-6)

	// Any alternative assignment to the same centroids cannot beat the
	// nearest-centroid one.
	var flipped float64
	for i, label := range result.Labels {
		s := [4]float32{samples[i*4], samples[i*4+1], samples[i*4+2], samples[i*4+3]}
		c := result.Centroids[1-label]
		d0 := s[0] - c[0]
		d1 := s[1] - c[1]
		d2 := s[2] - c[2]
		flipped += float64(d0*d0 + d1*d1 + d2*d2)
	}
	assert.LessOrEqual(t, result.TotalSSE(), flipped)
}
