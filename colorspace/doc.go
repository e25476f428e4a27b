// Package colorspace converts sRGB colors to and from the perceptual
// feature encodings the clustering engine operates on.
//
// Every encoded channel fits [0, 1]: signed quantities are mapped with
// (v/max+1)/2, positive-only quantities with v/max, and hue angles wrap
// at the 0/1 boundary. Oklch and HSV carry their hue in channel 0 and
// are flagged circular so that distance and mean computations account
// for wraparound.
package colorspace
