package palettize

import (
	"github.com/palettize/palettize/colorspace"
	"github.com/palettize/palettize/internal/math32"
	"github.com/palettize/palettize/model"
)

// EncodeSamples converts interleaved RGBA pixels (gamma sRGB, stride 4)
// into the flat stride-4 feature array Quantize expects. Channels are
// sanitized to [0, 1] first. For AlphaOnly the clustered feature is the
// pixel's alpha itself; every other space encodes the RGB channels and
// carries alpha through unclustered.
func EncodeSamples(pixels []float32, space colorspace.Space) []float32 {
	sampleCount := model.SampleCount(pixels)
	encoded := make([]float32, 0, sampleCount*4)

	for idx := 0; idx < sampleCount; idx++ {
		base := idx * 4
		rgb := [3]float32{
			math32.Sanitize01(pixels[base]),
			math32.Sanitize01(pixels[base+1]),
			math32.Sanitize01(pixels[base+2]),
		}
		alpha := math32.Sanitize01(pixels[base+3])

		var feature [3]float32
		if space == colorspace.AlphaOnly {
			feature = [3]float32{alpha, 0, 0}
		} else {
			feature = colorspace.Encode(rgb, space)
		}
		encoded = append(encoded, feature[0], feature[1], feature[2], alpha)
	}
	return encoded
}
