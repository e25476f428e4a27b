package model

import (
	"errors"
	"fmt"

	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/internal/math32"
)

// Hard limits carried over from the host parameter ranges.
const (
	// MaxClusters caps k for every method, including adaptive growth.
	MaxClusters = 64
	// MaxSelectedColors caps the user-chosen seed palette.
	MaxSelectedColors = 8
)

var (
	// ErrUnknownMethod is returned for an out-of-range clustering method.
	ErrUnknownMethod = errors.New("unknown cluster method")
	// ErrUnknownInitMethod is returned for an out-of-range initializer.
	ErrUnknownInitMethod = errors.New("unknown init method")
	// ErrUnknownColorSpace is returned for an out-of-range color space.
	ErrUnknownColorSpace = errors.New("unknown color space")
)

// Method selects the clustering driver.
type Method int

const (
	// KMeans runs plain Lloyd iteration at a fixed k.
	KMeans Method = iota
	// XMeans grows k adaptively using BIC split acceptance.
	XMeans
	// GMeans grows k adaptively using a Jarque-Bera normality test.
	GMeans
)

func (m Method) String() string {
	switch m {
	case KMeans:
		return "k-means"
	case XMeans:
		return "x-means"
	case GMeans:
		return "g-means"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	return m >= KMeans && m <= GMeans
}

// InitMethod selects the centroid initialization strategy.
type InitMethod int

const (
	// InitRandom rejection-samples distinct input samples.
	InitRandom InitMethod = iota
	// InitArea groups a stride-subsample by similarity and takes the
	// most populous group means.
	InitArea
	// InitSelectedColors encodes the caller-chosen RGB palette.
	InitSelectedColors
	// InitKMeansParallel runs scalable k-means++ (k-means||) seeding.
	InitKMeansParallel
)

func (m InitMethod) String() string {
	switch m {
	case InitRandom:
		return "random"
	case InitArea:
		return "area"
	case InitSelectedColors:
		return "selected-colors"
	case InitKMeansParallel:
		return "kmeans-parallel"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Valid reports whether m is a supported initializer.
func (m InitMethod) Valid() bool {
	return m >= InitRandom && m <= InitKMeansParallel
}

// Feature is one encoded sample: three feature channels plus alpha.
// Alpha is carried through accumulation but excluded from distance.
type Feature = [4]float32

// FeatureAt extracts sample idx from a flat stride-4 sample array.
func FeatureAt(samples []float32, idx int) Feature {
	base := idx * 4
	return Feature{samples[base], samples[base+1], samples[base+2], samples[base+3]}
}

// SampleCount returns the number of stride-4 samples in a flat array.
func SampleCount(samples []float32) int {
	return len(samples) / 4
}

// Settings is the immutable per-invocation configuration.
type Settings struct {
	// Method selects k-means, x-means or g-means.
	Method Method
	// Clusters is the target k for plain k-means.
	Clusters int
	// AutoMaxClusters caps adaptive growth for x-means/g-means.
	AutoMaxClusters int
	// MaxIterations bounds each Lloyd run.
	MaxIterations int
	// Seed drives every randomized step; identical seeds give
	// bit-identical results.
	Seed uint32
	// Space is the feature space samples were encoded in.
	Space colorspace.Space
	// Init selects the centroid initialization strategy.
	Init InitMethod
	// AreaSimilarityThreshold is the grouping radius for InitArea,
	// scaled by sqrt(3) internally.
	AreaSimilarityThreshold float32
	// SelectedColors are caller-chosen sRGB seeds for InitSelectedColors.
	SelectedColors [][3]float32
	// GMeansAlpha is the significance level for the normality test.
	GMeansAlpha float32
	// RGBOnly keeps each pixel's own alpha instead of the cluster mean.
	RGBOnly bool
}

// DefaultSettings mirrors the host's parameter defaults.
func DefaultSettings() Settings {
	return Settings{
		Method:                  KMeans,
		Clusters:                8,
		AutoMaxClusters:         16,
		MaxIterations:           16,
		Seed:                    0,
		Space:                   colorspace.Oklab,
		Init:                    InitRandom,
		AreaSimilarityThreshold: 0.04,
		GMeansAlpha:             0.05,
		RGBOnly:                 true,
	}
}

// Validate reports enum values outside the supported sets. Data-shaped
// degeneracies (zero samples, k larger than the sample count) are not
// errors; they degrade per the engine's contract.
func (s Settings) Validate() error {
	if !s.Method.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMethod, int(s.Method))
	}
	if !s.Init.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownInitMethod, int(s.Init))
	}
	if !s.Space.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownColorSpace, int(s.Space))
	}
	return nil
}

// Normalized clamps every field into its working range for a run over
// sampleCount samples, the way the host normalizes raw parameter values.
func (s Settings) Normalized(sampleCount int) Settings {
	out := s

	minClamp := sampleCount
	if minClamp < 1 {
		minClamp = 1
	}

	out.Clusters = clampInt(s.Clusters, 1, MaxClusters)
	if out.Clusters > minClamp {
		out.Clusters = minClamp
	}
	out.AutoMaxClusters = clampInt(s.AutoMaxClusters, 1, MaxClusters)
	if out.AutoMaxClusters > minClamp {
		out.AutoMaxClusters = minClamp
	}
	if out.MaxIterations < 1 {
		out.MaxIterations = 1
	}

	if out.AreaSimilarityThreshold < 0.0001 {
		out.AreaSimilarityThreshold = 0.0001
	} else if out.AreaSimilarityThreshold > 1 {
		out.AreaSimilarityThreshold = 1
	}
	if out.GMeansAlpha < 0.0001 {
		out.GMeansAlpha = 0.0001
	} else if out.GMeansAlpha > 0.5 {
		out.GMeansAlpha = 0.5
	}

	if len(out.SelectedColors) > MaxSelectedColors {
		out.SelectedColors = out.SelectedColors[:MaxSelectedColors]
	}
	sanitized := make([][3]float32, len(out.SelectedColors))
	for i, c := range out.SelectedColors {
		sanitized[i] = [3]float32{
			math32.Sanitize01(c[0]),
			math32.Sanitize01(c[1]),
			math32.Sanitize01(c[2]),
		}
	}
	out.SelectedColors = sanitized

	if out.Space == colorspace.AlphaOnly {
		out.RGBOnly = false
	}

	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Result is the engine's only output: one centroid per cluster, one
// label per input sample, and per-cluster membership counts and SSE.
type Result struct {
	Centroids     [][4]float32
	Labels        []int
	Counts        []int
	SSEPerCluster []float64
}

// EmptyResult is the degenerate output for zero samples or zero
// requested clusters.
func EmptyResult() *Result {
	return &Result{
		Centroids:     [][4]float32{},
		Labels:        []int{},
		Counts:        []int{},
		SSEPerCluster: []float64{},
	}
}

// K returns the number of clusters in the result.
func (r *Result) K() int {
	return len(r.Centroids)
}

// TotalSSE sums the per-cluster SSE.
func (r *Result) TotalSSE() float64 {
	var total float64
	for _, sse := range r.SSEPerCluster {
		total += sse
	}
	return total
}

// Palette decodes each centroid back to sRGB in the given space.
func (r *Result) Palette(space colorspace.Space) [][3]float32 {
	palette := make([][3]float32, len(r.Centroids))
	for i, c := range r.Centroids {
		palette[i] = colorspace.Decode([3]float32{c[0], c[1], c[2]}, space)
	}
	return palette
}
