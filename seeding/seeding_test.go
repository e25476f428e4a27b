package seeding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/distance"
	"github.com/palettize/palettize/internal/xrand"
	"github.com/palettize/palettize/model"
	"github.com/palettize/palettize/testutil"
)

func threeBlobSamples(t *testing.T) []float32 {
	t.Helper()
	rng := testutil.NewRNG(99)
	var samples []float32
	samples = rng.Blob(samples, [3]float32{0.1, 0.1, 0.1}, 0.03, 1, 200)
	samples = rng.Blob(samples, [3]float32{0.5, 0.5, 0.5}, 0.03, 1, 200)
	samples = rng.Blob(samples, [3]float32{0.9, 0.9, 0.9}, 0.03, 1, 200)
	return samples
}

func settingsWith(init model.InitMethod) model.Settings {
	s := model.DefaultSettings()
	s.Init = init
	s.Space = colorspace.LinearRGB
	s.Seed = 7
	return s
}

func assertDistinct(t *testing.T, centroids [][4]float32, space colorspace.Space) {
	t.Helper()
	for i := range centroids {
		for j := i + 1; j < len(centroids); j++ {
			assert.GreaterOrEqual(t, distance.Sq(centroids[i], centroids[j], space), float32(1e-8))
		}
	}
}

func TestBuildEmptyInputs(t *testing.T) {
	assert.Nil(t, Build(nil, settingsWith(model.InitRandom), 4))
	assert.Nil(t, Build(threeBlobSamples(t), settingsWith(model.InitRandom), 0))
}

func TestBuildClampsKToSampleCount(t *testing.T) {
	samples := testutil.Features(
		[4]float32{0.1, 0.2, 0.3, 1},
		[4]float32{0.7, 0.8, 0.9, 1},
	)
	centroids := Build(samples, settingsWith(model.InitRandom), 10)
	assert.LessOrEqual(t, len(centroids), 2)
}

func TestRandomInitDeterministicAndDistinct(t *testing.T) {
	samples := threeBlobSamples(t)
	s := settingsWith(model.InitRandom)

	a := Build(samples, s, 6)
	b := Build(samples, s, 6)
	require.Equal(t, a, b)
	assert.Len(t, a, 6)
	assertDistinct(t, a, s.Space)
}

func TestRandomInitIdenticalSamplesCollapse(t *testing.T) {
	samples := testutil.Flat([3]float32{0.4, 0.4, 0.4}, 100)
	centroids := Build(samples, settingsWith(model.InitRandom), 5)
	// Every candidate is the same color; dedup leaves exactly one.
	assert.Len(t, centroids, 1)
}

func TestAreaInitFindsDominantGroups(t *testing.T) {
	samples := threeBlobSamples(t)
	s := settingsWith(model.InitArea)
	s.AreaSimilarityThreshold = 0.08

	centroids := Build(samples, s, 3)
	require.Len(t, centroids, 3)

	// Each blob center must be close to one centroid.
	for _, blob := range [][4]float32{
		{0.1, 0.1, 0.1, 1},
		{0.5, 0.5, 0.5, 1},
		{0.9, 0.9, 0.9, 1},
	} {
		_, d := distance.Nearest(blob, centroids, s.Space)
		assert.Less(t, d, float32(0.01))
	}
}

func TestSelectedColorsInitOrderPreserved(t *testing.T) {
	samples := threeBlobSamples(t)
	s := settingsWith(model.InitSelectedColors)
	s.SelectedColors = [][3]float32{{1, 0, 0}, {0, 1, 0}}

	centroids := Build(samples, s, 2)
	require.Len(t, centroids, 2)

	red := colorspace.Encode([3]float32{1, 0, 0}, s.Space)
	green := colorspace.Encode([3]float32{0, 1, 0}, s.Space)
	assert.Equal(t, [4]float32{red[0], red[1], red[2], 1}, centroids[0])
	assert.Equal(t, [4]float32{green[0], green[1], green[2], 1}, centroids[1])
}

func TestSelectedColorsInitPadsShortfall(t *testing.T) {
	samples := threeBlobSamples(t)
	s := settingsWith(model.InitSelectedColors)
	s.SelectedColors = [][3]float32{{1, 0, 0}}

	centroids := Build(samples, s, 4)
	assert.Len(t, centroids, 4)
	assertDistinct(t, centroids, s.Space)
}

func TestScalableInitPicksRealSamples(t *testing.T) {
	samples := threeBlobSamples(t)
	s := settingsWith(model.InitKMeansParallel)

	centroids := Build(samples, s, 3)
	require.Len(t, centroids, 3)
	assertDistinct(t, centroids, s.Space)

	// Every seed must sit inside one of the blobs.
	blobs := [][4]float32{
		{0.1, 0.1, 0.1, 1},
		{0.5, 0.5, 0.5, 1},
		{0.9, 0.9, 0.9, 1},
	}
	for _, c := range centroids {
		_, d := distance.Nearest(c, blobs, s.Space)
		assert.Less(t, d, float32(0.01))
	}
}

func TestScalableInitSingleTarget(t *testing.T) {
	samples := threeBlobSamples(t)
	centroids := Build(samples, settingsWith(model.InitKMeansParallel), 1)
	assert.Len(t, centroids, 1)
}

func TestScalableInitDeterministic(t *testing.T) {
	samples := threeBlobSamples(t)
	s := settingsWith(model.InitKMeansParallel)
	assert.Equal(t, Build(samples, s, 5), Build(samples, s, 5))
}

func TestWeightedPick(t *testing.T) {
	assert.Equal(t, -1, weightedPick([]int{0, 0, 0}, xrand.New(1)))

	// A single non-zero weight is always picked.
	for i := uint64(1); i < 10; i++ {
		assert.Equal(t, 2, weightedPick([]int{0, 0, 5, 0}, xrand.New(i)))
	}
}
