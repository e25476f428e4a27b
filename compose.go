package palettize

import (
	"github.com/palettize/palettize/internal/math32"
	"github.com/palettize/palettize/model"
)

// Compose renders a quantized image: every sample is replaced by its
// cluster's decoded RGB. Alpha comes from the original sample when
// settings.RGBOnly is set, otherwise from the centroid's carried alpha
// mean. The output is interleaved RGBA (gamma sRGB, stride 4); an empty
// result yields fully transparent black.
func Compose(samples []float32, result *model.Result, settings model.Settings) []float32 {
	sampleCount := model.SampleCount(samples)
	output := make([]float32, sampleCount*4)
	if sampleCount == 0 || result == nil || result.K() == 0 || len(result.Labels) == 0 {
		return output
	}

	palette := result.Palette(settings.Space)

	for idx := 0; idx < sampleCount; idx++ {
		label := 0
		if idx < len(result.Labels) {
			label = result.Labels[idx]
		}
		if label < 0 {
			label = 0
		}
		if label >= result.K() {
			label = result.K() - 1
		}

		alpha := result.Centroids[label][3]
		if settings.RGBOnly {
			alpha = samples[idx*4+3]
		}

		base := idx * 4
		output[base] = math32.Sanitize01(palette[label][0])
		output[base+1] = math32.Sanitize01(palette[label][1])
		output[base+2] = math32.Sanitize01(palette[label][2])
		output[base+3] = math32.Sanitize01(alpha)
	}
	return output
}
