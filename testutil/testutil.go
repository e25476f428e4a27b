package testutil

import (
	"math/rand"
	"sync"
)

// RNG is a seeded random generator for building synthetic inputs.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Float32 returns a pseudo-random number in [0.0, 1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Blob appends n stride-4 samples jittered around center (alpha fixed
// to alpha) and returns the extended slice. Channels stay within
// [0, 1] as long as center±spread does.
func (r *RNG) Blob(samples []float32, center [3]float32, spread float32, alpha float32, n int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < n; i++ {
		for ch := 0; ch < 3; ch++ {
			jitter := (r.rand.Float32()*2 - 1) * spread
			samples = append(samples, center[ch]+jitter)
		}
		samples = append(samples, alpha)
	}

	return samples
}

// Flat returns n copies of one opaque sample.
func Flat(value [3]float32, n int) []float32 {
	samples := make([]float32, 0, n*4)
	for i := 0; i < n; i++ {
		samples = append(samples, value[0], value[1], value[2], 1)
	}
	return samples
}

// Features flattens explicit stride-4 features into a sample array.
func Features(features ...[4]float32) []float32 {
	samples := make([]float32, 0, len(features)*4)
	for _, f := range features {
		samples = append(samples, f[0], f[1], f[2], f[3])
	}
	return samples
}
