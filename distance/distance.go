package distance

import (
	"math"

	"github.com/palettize/palettize/colorspace"
)

// Sq returns the squared distance between two features in the given
// space. Alpha (channel 3) is excluded.
func Sq(a, b [4]float32, space colorspace.Space) float32 {
	dx := Delta(a[0], b[0], space)
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

// Delta returns the channel-0 difference, wrap-corrected when the
// space carries a circular hue.
func Delta(a, b float32, space colorspace.Space) float32 {
	if space.HasCircularHue() {
		return CircularDelta(a, b)
	}
	return a - b
}

// CircularDelta returns a-b corrected for wraparound at the 0/1
// boundary; the result's magnitude is at most 0.5.
func CircularDelta(a, b float32) float32 {
	d := a - b
	if d > 0.5 {
		d -= 1
	} else if d < -0.5 {
		d += 1
	}
	return d
}

// Nearest returns the index and squared distance of the centroid
// closest to sample. An empty centroid set yields (0, +Inf).
func Nearest(sample [4]float32, centroids [][4]float32, space colorspace.Space) (int, float32) {
	bestIdx := 0
	bestDist := float32(math.Inf(1))
	for idx, c := range centroids {
		if d := Sq(sample, c, space); d < bestDist {
			bestDist = d
			bestIdx = idx
		}
	}
	return bestIdx, bestDist
}

// NearestTwo returns the index and squared distance of the nearest
// centroid plus the squared distance of the second nearest.
func NearestTwo(sample [4]float32, centroids [][4]float32, space colorspace.Space) (int, float32, float32) {
	bestIdx := 0
	bestDist := float32(math.Inf(1))
	secondDist := float32(math.Inf(1))

	for idx, c := range centroids {
		d := Sq(sample, c, space)
		if d < bestDist {
			secondDist = bestDist
			bestDist = d
			bestIdx = idx
		} else if d < secondDist {
			secondDist = d
		}
	}

	return bestIdx, bestDist, secondDist
}
