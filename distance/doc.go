// Package distance provides the squared feature-space distance used by
// every stage of the clustering engine.
//
// Distances cover channels 0..2 only; alpha (channel 3) is carried
// through clustering but never measured. For circular-hue spaces
// (Oklch, HSV) channel 0 is compared with a wrap-corrected delta whose
// magnitude never exceeds 0.5.
package distance
