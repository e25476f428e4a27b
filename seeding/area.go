package seeding

import (
	"math"
	"sort"

	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/distance"
	"github.com/palettize/palettize/kmeans"
	"github.com/palettize/palettize/model"
)

// areaMaxSamples caps the streaming pass; larger inputs are strided.
const areaMaxSamples = 50_000

// areaBased groups a stride subsample by similarity: each sample joins
// the nearest existing group when within the threshold radius (scaled
// to the unit-cube diagonal), otherwise it starts a new group. The
// most populous group means become centroids.
func areaBased(samples []float32, targetK int, threshold float32, space colorspace.Space, seed uint32) [][4]float32 {
	sampleCount := model.SampleCount(samples)
	if sampleCount == 0 || targetK == 0 {
		return nil
	}

	step := sampleCount / areaMaxSamples
	if step < 1 {
		step = 1
	}
	if threshold < 0.0001 {
		threshold = 0.0001
	}
	radius := threshold * float32(math.Sqrt(3))
	radiusSq := radius * radius

	var groups []kmeans.Accumulator
	sampled := 0
	for idx := 0; idx < sampleCount && sampled < areaMaxSamples; idx += step {
		sample := model.FeatureAt(samples, idx)

		bestGroup := -1
		bestDist := float32(math.Inf(1))
		for g := range groups {
			d := distance.Sq(sample, groups[g].Mean(space), space)
			if d < bestDist {
				bestDist = d
				bestGroup = g
			}
		}

		if bestGroup >= 0 && bestDist <= radiusSq {
			groups[bestGroup].Add(sample, space)
		} else {
			var g kmeans.Accumulator
			g.Add(sample, space)
			groups = append(groups, g)
		}
		sampled++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count() > groups[j].Count()
	})

	take := targetK
	if take > len(groups) {
		take = len(groups)
	}
	centroids := make([][4]float32, 0, targetK)
	for g := 0; g < take; g++ {
		centroids = append(centroids, groups[g].Mean(space))
	}

	if len(centroids) < targetK {
		centroids = append(centroids, random(samples, targetK-len(centroids), seed)...)
	}
	return centroids
}
