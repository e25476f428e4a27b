package adaptive

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/distance"
	"github.com/palettize/palettize/internal/math32"
	"github.com/palettize/palettize/internal/xrand"
	"github.com/palettize/palettize/kmeans"
	"github.com/palettize/palettize/model"
)

// splitDecisionMaxSamples caps the subset a split trial works on.
const splitDecisionMaxSamples = 4096

// localMaxIterations bounds the two-centroid Lloyd run inside a trial.
const localMaxIterations = 20

// reservoirSample draws at most limit member indices, preserving
// ascending order, using a sequential reservoir over the bitmap.
func reservoirSample(set *roaring.Bitmap, limit int, seed uint32) []uint32 {
	size := int(set.GetCardinality())
	if size <= limit {
		out := make([]uint32, 0, size)
		it := set.Iterator()
		for it.HasNext() {
			out = append(out, it.Next())
		}
		return out
	}

	rng := xrand.New(uint64(seed) ^ xrand.SeedReservoir)
	out := make([]uint32, 0, limit)
	remaining := size
	need := limit

	it := set.Iterator()
	for it.HasNext() {
		idx := it.Next()
		if need == 0 {
			break
		}
		if rng.Index(remaining) < need {
			out = append(out, idx)
			need--
		}
		remaining--
	}
	return out
}

// makeSplitSeeds places two trial centroids on either side of the
// parent along its highest-variance axis. The offset is half a
// standard deviation, clamped to [0.01, 0.25]; a circular hue axis
// wraps instead of clamping.
func makeSplitSeeds(samples []float32, indices []uint32, parent [4]float32, space colorspace.Space) ([4]float32, [4]float32) {
	n := float32(len(indices))
	if n < 1 {
		n = 1
	}

	var var0, var1, var2 float32
	for _, idx := range indices {
		sample := model.FeatureAt(samples, int(idx))
		d0 := distance.Delta(sample[0], parent[0], space)
		d1 := sample[1] - parent[1]
		d2 := sample[2] - parent[2]
		var0 += d0 * d0
		var1 += d1 * d1
		var2 += d2 * d2
	}
	var0 /= n
	var1 /= n
	var2 /= n

	axis, sigma := 2, math32.Sqrt(var2)
	if var0 >= var1 && var0 >= var2 {
		axis, sigma = 0, math32.Sqrt(var0)
	} else if var1 >= var2 {
		axis, sigma = 1, math32.Sqrt(var1)
	}

	delta := sigma * 0.5
	if delta < 0.01 {
		delta = 0.01
	} else if delta > 0.25 {
		delta = 0.25
	}

	a, b := parent, parent
	if axis == 0 && space.HasCircularHue() {
		a[0] = math32.Wrap01(parent[0] - delta)
		b[0] = math32.Wrap01(parent[0] + delta)
	} else {
		a[axis] = math32.Clamp01(parent[axis] - delta)
		b[axis] = math32.Clamp01(parent[axis] + delta)
	}
	return a, b
}

// collectSubset copies the stride-4 features of the given members
// into a contiguous sample array.
func collectSubset(samples []float32, indices []uint32) []float32 {
	subset := make([]float32, 0, len(indices)*4)
	for _, idx := range indices {
		f := model.FeatureAt(samples, int(idx))
		subset = append(subset, f[0], f[1], f[2], f[3])
	}
	return subset
}

// estimateTwoCentroidSSE sums, over every member of the cluster, the
// squared distance to the nearer of the two children.
func estimateTwoCentroidSSE(samples []float32, set *roaring.Bitmap, a, b [4]float32, space colorspace.Space) float64 {
	var sse float64
	it := set.Iterator()
	for it.HasNext() {
		sample := model.FeatureAt(samples, int(it.Next()))
		d1 := distance.Sq(sample, a, space)
		d2 := distance.Sq(sample, b, space)
		if d2 < d1 {
			d1 = d2
		}
		sse += float64(d1)
	}
	return sse
}

// buildSplitProjections projects every subset sample onto the unit
// axis from child a to child b, measured relative to the parent. An
// axis too short to normalize yields no projections.
func buildSplitProjections(subset []float32, parent, a, b [4]float32, space colorspace.Space) []float64 {
	axis0 := distance.Delta(b[0], a[0], space)
	axis1 := b[1] - a[1]
	axis2 := b[2] - a[2]

	norm := math32.Sqrt(axis0*axis0 + axis1*axis1 + axis2*axis2)
	if norm <= 1.0e-8 {
		return nil
	}
	ux := axis0 / norm
	uy := axis1 / norm
	uz := axis2 / norm

	sampleCount := model.SampleCount(subset)
	projections := make([]float64, 0, sampleCount)
	for idx := 0; idx < sampleCount; idx++ {
		sample := model.FeatureAt(subset, idx)
		d0 := distance.Delta(sample[0], parent[0], space)
		d1 := sample[1] - parent[1]
		d2 := sample[2] - parent[2]
		projections = append(projections, float64(d0*ux+d1*uy+d2*uz))
	}
	return projections
}

// splitTrial is the shared half of a split test: subsample the
// cluster, seed two children around the parent, and run a short local
// Lloyd pass over the subset.
type splitTrial struct {
	local  *model.Result
	subset []float32
}

func runSplitTrial(ctx context.Context, samples []float32, set *roaring.Bitmap, parent [4]float32, settings model.Settings, seed uint32) (splitTrial, error) {
	sampled := reservoirSample(set, splitDecisionMaxSamples, seed)
	seedA, seedB := makeSplitSeeds(samples, sampled, parent, settings.Space)
	subset := collectSubset(samples, sampled)

	maxIter := settings.MaxIterations
	if maxIter > localMaxIterations {
		maxIter = localMaxIterations
	}
	local, _, err := kmeans.Run(ctx, subset, [][4]float32{seedA, seedB}, kmeans.Options{
		Space:         settings.Space,
		MaxIterations: maxIter,
		Seed:          seed,
	})
	if err != nil {
		return splitTrial{}, err
	}
	return splitTrial{local: local, subset: subset}, nil
}
