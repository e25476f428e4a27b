// Package palettize reduces images to small color palettes by
// clustering pixels in a perceptual color space.
//
// The pipeline is: encode RGBA pixels into a feature space
// (EncodeSamples), cluster them (Quantize) with plain k-means or an
// adaptive driver that discovers the cluster count (x-means via BIC,
// g-means via a normality test), then either read the palette off the
// result or render the posterized image (Compose).
//
// All clustering is deterministic for a fixed seed and parallelism.
//
//	samples := palettize.EncodeSamples(pixels, colorspace.Oklab)
//	settings := model.DefaultSettings()
//	result, err := palettize.Quantize(ctx, samples, settings)
package palettize
