package colorspace

import "fmt"

// Space identifies the feature space pixels are encoded into before
// clustering.
type Space int

const (
	// LinearRGB clusters on linear (de-gammaed) RGB.
	LinearRGB Space = iota
	// Oklab clusters on the Oklab perceptual space (channel order a, b, L).
	Oklab
	// Oklch clusters on Oklab in polar form (hue, chroma, L). Hue is circular.
	Oklch
	// HSV clusters on hue/saturation/value. Hue is circular.
	HSV
	// YIQ clusters on the NTSC YIQ space (channel order I, Q, Y).
	YIQ
	// AlphaOnly clusters on a single scalar channel, ignoring chroma.
	AlphaOnly
)

func (s Space) String() string {
	switch s {
	case LinearRGB:
		return "LinearRGB"
	case Oklab:
		return "Oklab"
	case Oklch:
		return "Oklch"
	case HSV:
		return "HSV"
	case YIQ:
		return "YIQ"
	case AlphaOnly:
		return "AlphaOnly"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Valid reports whether s is one of the supported spaces.
func (s Space) Valid() bool {
	return s >= LinearRGB && s <= AlphaOnly
}

// HasCircularHue reports whether channel 0 of the encoding is an angle
// that wraps at the 0/1 boundary.
func (s Space) HasCircularHue() bool {
	return s == Oklch || s == HSV
}
