package seeding

import (
	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/internal/xrand"
	"github.com/palettize/palettize/kmeans"
	"github.com/palettize/palettize/model"
)

// rejectEpsilon is the per-channel tolerance under which a random
// candidate is considered a duplicate of an already-chosen centroid.
const rejectEpsilon = 1.0e-6

// Build produces at most targetK deduplicated initial centroids using
// the strategy selected in settings. A shortfall is topped up with
// random samples before deduplication.
func Build(samples []float32, settings model.Settings, targetK int) [][4]float32 {
	sampleCount := model.SampleCount(samples)
	if sampleCount == 0 || targetK == 0 {
		return nil
	}
	if targetK > sampleCount {
		targetK = sampleCount
	}
	if targetK > model.MaxClusters {
		targetK = model.MaxClusters
	}

	var centroids [][4]float32
	switch settings.Init {
	case model.InitArea:
		centroids = areaBased(samples, targetK, settings.AreaSimilarityThreshold, settings.Space, settings.Seed)
	case model.InitSelectedColors:
		centroids = selectedColors(samples, settings, targetK)
	case model.InitKMeansParallel:
		centroids = scalable(samples, targetK, settings.Space, settings.Seed)
	default:
		centroids = random(samples, targetK, settings.Seed)
	}

	if len(centroids) < targetK {
		rng := xrand.New(uint64(settings.Seed) ^ xrand.SeedTopUp)
		for len(centroids) < targetK {
			centroids = append(centroids, model.FeatureAt(samples, rng.Index(sampleCount)))
		}
	}

	centroids = centroids[:targetK]
	return kmeans.Dedup(centroids, settings.Space)
}

// random rejection-samples distinct input samples. Attempts are capped
// at 16 per requested centroid; at least one centroid is always
// returned.
func random(samples []float32, targetK int, seed uint32) [][4]float32 {
	sampleCount := model.SampleCount(samples)
	if sampleCount == 0 || targetK == 0 {
		return nil
	}

	rng := xrand.New(uint64(seed) ^ xrand.SeedRandom)
	centroids := make([][4]float32, 0, targetK)

	for attempts := 0; len(centroids) < targetK && attempts < targetK*16; attempts++ {
		candidate := model.FeatureAt(samples, rng.Index(sampleCount))
		if !containsNearly(centroids, candidate) {
			centroids = append(centroids, candidate)
		}
	}

	if len(centroids) == 0 {
		centroids = append(centroids, model.FeatureAt(samples, 0))
	}
	return centroids
}

// selectedColors encodes the caller-chosen palette in order, padding a
// shortfall with random samples.
func selectedColors(samples []float32, settings model.Settings, targetK int) [][4]float32 {
	centroids := make([][4]float32, 0, targetK)
	for _, rgb := range settings.SelectedColors {
		f := colorspace.Encode(rgb, settings.Space)
		centroids = append(centroids, [4]float32{f[0], f[1], f[2], 1})
		if len(centroids) >= targetK {
			break
		}
	}

	if len(centroids) < targetK {
		centroids = append(centroids, random(samples, targetK-len(centroids), settings.Seed)...)
	}
	return centroids
}

func containsNearly(centroids [][4]float32, candidate [4]float32) bool {
	for _, c := range centroids {
		if abs32(c[0]-candidate[0]) < rejectEpsilon &&
			abs32(c[1]-candidate[1]) < rejectEpsilon &&
			abs32(c[2]-candidate[2]) < rejectEpsilon &&
			abs32(c[3]-candidate[3]) < rejectEpsilon {
			return true
		}
	}
	return false
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
