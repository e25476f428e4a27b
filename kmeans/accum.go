package kmeans

import (
	"math"

	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/internal/math32"
)

// Accumulator keeps the running sufficient statistics of one cluster.
// For circular-hue spaces it additionally tracks the hue's unit-circle
// sums so the mean angle survives the 0/1 wrap.
type Accumulator struct {
	sum0, sum1, sum2, sum3 float32
	hueCos, hueSin         float32
	count                  int
}

// Add folds one sample into the accumulator.
func (a *Accumulator) Add(sample [4]float32, space colorspace.Space) {
	a.sum0 += sample[0]
	a.sum1 += sample[1]
	a.sum2 += sample[2]
	a.sum3 += sample[3]

	if space.HasCircularHue() {
		theta := float64(math32.Wrap01(sample[0])) * 2 * math.Pi
		a.hueCos += float32(math.Cos(theta))
		a.hueSin += float32(math.Sin(theta))
	}

	a.count++
}

// Merge folds another accumulator into this one. Used to reduce
// per-shard partial sums after a parallel assignment pass.
func (a *Accumulator) Merge(o Accumulator) {
	a.sum0 += o.sum0
	a.sum1 += o.sum1
	a.sum2 += o.sum2
	a.sum3 += o.sum3
	a.hueCos += o.hueCos
	a.hueSin += o.hueSin
	a.count += o.count
}

// Count returns the number of accumulated samples.
func (a *Accumulator) Count() int {
	return a.count
}

// Mean returns the cluster mean. The hue channel of circular spaces is
// the circular mean, falling back to the arithmetic mean when the unit
// vectors cancel out. Every component is sanitized into [0, 1]. An
// empty accumulator yields an opaque black feature.
func (a *Accumulator) Mean(space colorspace.Space) [4]float32 {
	if a.count == 0 {
		return [4]float32{0, 0, 0, 1}
	}

	inv := 1 / float32(a.count)
	var c0 float32
	if space.HasCircularHue() {
		if abs32(a.hueCos) < 1e-8 && abs32(a.hueSin) < 1e-8 {
			c0 = math32.Wrap01(a.sum0 * inv)
		} else {
			angle := math.Atan2(float64(a.hueSin), float64(a.hueCos)) / (2 * math.Pi)
			c0 = math32.Wrap01(float32(angle))
		}
	} else {
		c0 = math32.Sanitize01(a.sum0 * inv)
	}

	return [4]float32{
		c0,
		math32.Sanitize01(a.sum1 * inv),
		math32.Sanitize01(a.sum2 * inv),
		math32.Sanitize01(a.sum3 * inv),
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
