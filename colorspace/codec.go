package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/palettize/palettize/internal/math32"
)

// Encoding ranges. Signed channels are folded into [0,1] around 0.5.
const (
	oklabABMax     = 0.5
	oklchChromaMax = 0.4
	yiqIMax        = 0.5957
	yiqQMax        = 0.5226
)

// Encode converts a non-linear sRGB color (each channel in [0,1]) into
// the three feature channels of the given space. Unknown spaces encode
// as LinearRGB.
func Encode(rgb [3]float32, space Space) [3]float32 {
	c := colorful.Color{
		R: float64(math32.Clamp01(rgb[0])),
		G: float64(math32.Clamp01(rgb[1])),
		B: float64(math32.Clamp01(rgb[2])),
	}
	lr, lg, lb := c.LinearRgb()

	switch space {
	case Oklab:
		l, a, b := oklabFromLinear(lr, lg, lb)
		return [3]float32{
			encodeSigned(float32(a), oklabABMax),
			encodeSigned(float32(b), oklabABMax),
			math32.Clamp01(float32(l)),
		}
	case Oklch:
		l, a, b := oklabFromLinear(lr, lg, lb)
		chroma := math.Hypot(a, b)
		hue := math.Atan2(b, a) / (2 * math.Pi)
		return [3]float32{
			math32.Wrap01(float32(hue)),
			encodePos(float32(chroma), oklchChromaMax),
			math32.Clamp01(float32(l)),
		}
	case HSV:
		h, s, v := c.Hsv()
		return [3]float32{
			math32.Wrap01(float32(h / 360.0)),
			math32.Clamp01(float32(s)),
			math32.Clamp01(float32(v)),
		}
	case YIQ:
		y := 0.299*c.R + 0.587*c.G + 0.114*c.B
		i := 0.595716*c.R - 0.274453*c.G - 0.321263*c.B
		q := 0.211456*c.R - 0.522591*c.G + 0.311135*c.B
		return [3]float32{
			encodeSigned(float32(i), yiqIMax),
			encodeSigned(float32(q), yiqQMax),
			math32.Clamp01(float32(y)),
		}
	case AlphaOnly:
		y := math32.Clamp01(float32(0.2126*lr + 0.7152*lg + 0.0722*lb))
		return [3]float32{y, 0, 0}
	default: // LinearRGB
		return [3]float32{
			math32.Clamp01(float32(lr)),
			math32.Clamp01(float32(lg)),
			math32.Clamp01(float32(lb)),
		}
	}
}

// Decode converts feature channels back to non-linear sRGB. Every
// output channel is sanitized to [0,1]; NaN/Inf become 0.
func Decode(feature [3]float32, space Space) [3]float32 {
	switch space {
	case Oklab:
		l := float64(math32.Clamp01(feature[2]))
		a := float64(decodeSigned(feature[0], oklabABMax))
		b := float64(decodeSigned(feature[1], oklabABMax))
		return srgbFromOklab(l, a, b)
	case Oklch:
		l := float64(math32.Clamp01(feature[2]))
		chroma := float64(decodePos(feature[1], oklchChromaMax))
		hue := float64(math32.Wrap01(feature[0])) * 2 * math.Pi
		return srgbFromOklab(l, chroma*math.Cos(hue), chroma*math.Sin(hue))
	case HSV:
		c := colorful.Hsv(
			float64(math32.Wrap01(feature[0]))*360.0,
			float64(math32.Clamp01(feature[1])),
			float64(math32.Clamp01(feature[2])),
		)
		return sanitizeRGB(c.R, c.G, c.B)
	case YIQ:
		y := float64(math32.Clamp01(feature[2]))
		i := float64(decodeSigned(feature[0], yiqIMax))
		q := float64(decodeSigned(feature[1], yiqQMax))
		r := y + 0.956*i + 0.619*q
		g := y - 0.272*i - 0.647*q
		b := y - 1.106*i + 1.703*q
		return sanitizeRGB(r, g, b)
	case AlphaOnly:
		v := math32.Clamp01(feature[0])
		return [3]float32{v, v, v}
	default: // LinearRGB
		c := colorful.LinearRgb(
			float64(math32.Clamp01(feature[0])),
			float64(math32.Clamp01(feature[1])),
			float64(math32.Clamp01(feature[2])),
		)
		return sanitizeRGB(c.R, c.G, c.B)
	}
}

// oklabFromLinear converts linear sRGB to Oklab (Björn Ottosson's
// reference matrices).
func oklabFromLinear(r, g, b float64) (float64, float64, float64) {
	l := 0.4122214708*r + 0.5363325363*g + 0.0514459929*b
	m := 0.2119034982*r + 0.6806995451*g + 0.1073969566*b
	s := 0.0883024619*r + 0.2817188376*g + 0.6299787005*b

	lc := math.Cbrt(l)
	mc := math.Cbrt(m)
	sc := math.Cbrt(s)

	return 0.2104542553*lc + 0.7936177850*mc - 0.0040720468*sc,
		1.9779984951*lc - 2.4285922050*mc + 0.4505937099*sc,
		0.0259040371*lc + 0.7827717662*mc - 0.8086757660*sc
}

// srgbFromOklab converts Oklab to non-linear sRGB, sanitized to [0,1].
func srgbFromOklab(l, a, b float64) [3]float32 {
	lc := l + 0.3963377774*a + 0.2158037573*b
	mc := l - 0.1055613458*a - 0.0638541728*b
	sc := l - 0.0894841775*a - 1.2914855480*b

	l3 := lc * lc * lc
	m3 := mc * mc * mc
	s3 := sc * sc * sc

	lr := 4.0767416621*l3 - 3.3077115913*m3 + 0.2309699292*s3
	lg := -1.2684380046*l3 + 2.6097574011*m3 - 0.3413193965*s3
	lb := -0.0041960863*l3 - 0.7034186147*m3 + 1.7076147010*s3

	c := colorful.LinearRgb(lr, lg, lb)
	return sanitizeRGB(c.R, c.G, c.B)
}

func sanitizeRGB(r, g, b float64) [3]float32 {
	return [3]float32{
		math32.Sanitize01(float32(r)),
		math32.Sanitize01(float32(g)),
		math32.Sanitize01(float32(b)),
	}
}

func encodeSigned(v, maxAbs float32) float32 {
	if maxAbs <= 0 {
		return 0.5
	}
	return math32.Clamp01((v/maxAbs + 1) * 0.5)
}

func decodeSigned(channel, maxAbs float32) float32 {
	if maxAbs <= 0 {
		return 0
	}
	return (math32.Clamp01(channel)*2 - 1) * maxAbs
}

func encodePos(v, max float32) float32 {
	if max <= 0 {
		return 0
	}
	return math32.Clamp01(v / max)
}

func decodePos(channel, max float32) float32 {
	if max <= 0 {
		return 0
	}
	return math32.Clamp01(channel) * max
}
