// Package stats provides the model-order scoring used by the adaptive
// drivers: the Bayesian Information Criterion for x-means and the
// Jarque-Bera normality test for g-means.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// varianceFloor keeps the BIC log-likelihood finite for degenerate
// (near-zero SSE) clusters.
const varianceFloor = 1.0e-12

// BIC scores a spherical-Gaussian fit of clusterCount centers over
// sampleCount points with total error sse in dims dimensions. Higher is
// better. Invalid shapes score negative infinity so they always lose a
// comparison.
func BIC(sse float64, sampleCount, clusterCount, dims int) float64 {
	if sampleCount <= clusterCount || clusterCount == 0 || dims == 0 {
		return math.Inf(-1)
	}

	n := float64(sampleCount)
	k := float64(clusterCount)
	d := float64(dims)
	variance := math.Max(sse/float64(sampleCount-clusterCount), varianceFloor)
	params := k * (d + 1)
	logLikelihood := -0.5 * n * d * (math.Log(2*math.Pi*variance) + 1)

	return logLikelihood - 0.5*params*math.Log(n)
}

// JarqueBeraPValue returns an approximate p-value for the hypothesis
// that values are normally distributed, from the skewness/kurtosis
// statistic JB = n/6 * (skew^2 + (kurtosis-3)^2 / 4) approximated as
// exp(-JB/2). Fewer than 8 values, or a degenerate second moment,
// return 1 (no evidence against normality).
func JarqueBeraPValue(values []float64) float64 {
	n := len(values)
	if n < 8 {
		return 1
	}

	m2 := stat.Moment(2, values, nil)
	if m2 <= 1.0e-18 {
		return 1
	}
	m3 := stat.Moment(3, values, nil)
	m4 := stat.Moment(4, values, nil)

	skew := m3 / math.Pow(m2, 1.5)
	kurtosis := m4 / (m2 * m2)
	jb := (float64(n) / 6.0) * (skew*skew + 0.25*(kurtosis-3)*(kurtosis-3))
	if jb < 0 {
		jb = 0
	}

	p := math.Exp(-0.5 * jb)
	return math.Min(math.Max(p, 0), 1)
}
