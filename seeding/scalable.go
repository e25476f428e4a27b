package seeding

import (
	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/distance"
	"github.com/palettize/palettize/internal/xrand"
	"github.com/palettize/palettize/kmeans"
	"github.com/palettize/palettize/model"
)

// scalableRounds is the number of oversampling rounds of k-means||.
const scalableRounds = 5

// scalableCandidateCap stops oversampling once the candidate pool is
// clearly large enough for any k we support.
const scalableCandidateCap = model.MaxClusters * 8

// scalable implements k-means|| seeding: a few rounds of independent
// D²-proportional oversampling, then weighted k-means++ over the
// surviving candidates, each weighted by its Voronoi cell size.
func scalable(samples []float32, targetK int, space colorspace.Space, seed uint32) [][4]float32 {
	sampleCount := model.SampleCount(samples)
	if sampleCount == 0 || targetK == 0 {
		return nil
	}
	if targetK == 1 {
		return [][4]float32{model.FeatureAt(samples, int(seed)%sampleCount)}
	}

	rng := xrand.New(uint64(seed) ^ xrand.SeedScalable)
	candidates := make([][4]float32, 0, targetK*4)
	candidates = append(candidates, model.FeatureAt(samples, rng.Index(sampleCount)))

	oversampling := targetK * 2
	if oversampling < 2 {
		oversampling = 2
	} else if oversampling > 64 {
		oversampling = 64
	}

	nearestD2 := make([]float32, sampleCount)
	for idx := 0; idx < sampleCount; idx++ {
		nearestD2[idx] = distance.Sq(model.FeatureAt(samples, idx), candidates[0], space)
	}

	for round := 0; round < scalableRounds; round++ {
		var phi float64
		for _, d := range nearestD2 {
			phi += float64(d)
		}
		if phi < 1.0e-12 {
			phi = 1.0e-12
		}

		for idx := 0; idx < sampleCount; idx++ {
			p := float64(oversampling) * float64(nearestD2[idx]) / phi
			if p > 1 {
				p = 1
			}
			if rng.Float64() < p {
				candidates = append(candidates, model.FeatureAt(samples, idx))
			}
		}
		candidates = kmeans.Dedup(candidates, space)
		if len(candidates) > scalableCandidateCap {
			break
		}

		for idx := 0; idx < sampleCount; idx++ {
			sample := model.FeatureAt(samples, idx)
			best := nearestD2[idx]
			for _, c := range candidates {
				if d := distance.Sq(sample, c, space); d < best {
					best = d
				}
			}
			nearestD2[idx] = best
		}
	}

	candidates = kmeans.Dedup(candidates, space)
	if len(candidates) == 0 {
		return random(samples, targetK, seed)
	}
	if len(candidates) <= targetK {
		out := candidates
		if len(out) < targetK {
			out = append(out, random(samples, targetK-len(out), seed)...)
		}
		if len(out) > targetK {
			out = out[:targetK]
		}
		return kmeans.Dedup(out, space)
	}

	// Weight each candidate by its Voronoi cell size over the full
	// dataset, then run weighted D²-sampling to pick exactly targetK.
	weights := make([]int, len(candidates))
	for idx := 0; idx < sampleCount; idx++ {
		nearest, _ := distance.Nearest(model.FeatureAt(samples, idx), candidates, space)
		weights[nearest]++
	}

	chosen := make([][4]float32, 0, targetK)
	chosenMask := make([]bool, len(candidates))
	firstIdx := weightedPick(weights, rng)
	if firstIdx < 0 {
		firstIdx = 0
	}
	chosen = append(chosen, candidates[firstIdx])
	chosenMask[firstIdx] = true

	candToChosenD2 := make([]float32, len(candidates))
	for c := range candidates {
		candToChosenD2[c] = distance.Sq(candidates[c], chosen[0], space)
	}

	for len(chosen) < targetK {
		var scoreSum float64
		for idx := range candidates {
			if chosenMask[idx] || weights[idx] == 0 {
				continue
			}
			scoreSum += float64(weights[idx]) * float64(candToChosenD2[idx])
		}

		nextIdx := firstIdx
		if scoreSum <= 1.0e-20 {
			// Residual weight underflowed; fall back to the heaviest
			// unchosen candidate.
			bestWeight := -1
			nextIdx = firstIdx
			for idx := range candidates {
				if chosenMask[idx] {
					continue
				}
				if weights[idx] > bestWeight {
					bestWeight = weights[idx]
					nextIdx = idx
				}
			}
		} else {
			threshold := rng.Float64() * scoreSum
			for idx := range candidates {
				if chosenMask[idx] || weights[idx] == 0 {
					continue
				}
				threshold -= float64(weights[idx]) * float64(candToChosenD2[idx])
				if threshold <= 0 {
					nextIdx = idx
					break
				}
			}
		}

		if chosenMask[nextIdx] {
			break
		}
		chosenMask[nextIdx] = true
		chosen = append(chosen, candidates[nextIdx])

		for c := range candidates {
			if d := distance.Sq(candidates[c], candidates[nextIdx], space); d < candToChosenD2[c] {
				candToChosenD2[c] = d
			}
		}
	}

	if len(chosen) < targetK {
		chosen = append(chosen, random(samples, targetK-len(chosen), seed)...)
	}
	if len(chosen) > targetK {
		chosen = chosen[:targetK]
	}
	return kmeans.Dedup(chosen, space)
}

// weightedPick rolls a weight-proportional roulette over integer
// weights. Returns -1 when all weights are zero.
func weightedPick(weights []int, rng *xrand.XorShift64) int {
	var total uint64
	for _, w := range weights {
		total += uint64(w)
	}
	if total == 0 {
		return -1
	}

	r := rng.Uint64() % total
	for idx, w := range weights {
		if r < uint64(w) {
			return idx
		}
		r -= uint64(w)
	}
	return len(weights) - 1
}
