// Package xrand implements the deterministic xorshift64 generator used
// by every randomized step of the clustering engine.
//
// Reproducibility depends on the exact derivation arithmetic, not just
// on "a good PRNG": each sub-computation re-seeds its own generator by
// XOR-ing the caller seed with one of the fixed constants below. Do not
// change the constants or the shift triple.
package xrand

// Seed-derivation constants. Each randomized sub-computation XORs the
// caller-supplied seed with exactly one of these before constructing
// its generator.
const (
	SeedLloyd     = 0xA1D2_C3F4_55AA_1100 // Lloyd engine (empty-cluster reseed)
	SeedRandom    = 0x1234_ABCD_7890_EF01 // random initializer
	SeedTopUp     = 0x5511_CC88_2299_AA44 // initializer shortfall top-up
	SeedScalable  = 0xB7E1_5163_9A4F_2D11 // k-means|| initializer
	SeedReservoir = 0xDD22_55AA_7711_CC33 // split-trial reservoir sampling
)

// zeroState replaces an all-zero seed, which would trap xorshift at 0.
const zeroState = 0x9E37_79B9_7F4A_7C15

// XorShift64 is a tiny deterministic PRNG (xorshift with the 13/7/17
// shift triple). Not cryptographic.
type XorShift64 struct {
	state uint64
}

// New returns a generator seeded with seed. A zero seed is replaced by
// a fixed non-zero state.
func New(seed uint64) *XorShift64 {
	if seed == 0 {
		seed = zeroState
	}
	return &XorShift64{state: seed}
}

// Uint64 advances the generator and returns the next value.
func (x *XorShift64) Uint64() uint64 {
	v := x.state
	v ^= v << 13
	v ^= v >> 7
	v ^= v << 17
	x.state = v
	return v
}

// Float64 returns a value in [0, 1) with 53 bits of precision.
func (x *XorShift64) Float64() float64 {
	const scale = 1 << 53
	return float64(x.Uint64()>>11) / scale
}

// Index returns a value in [0, upper). Upper values of 0 or 1 yield 0.
func (x *XorShift64) Index(upper int) int {
	if upper <= 1 {
		return 0
	}
	return int(x.Uint64() % uint64(upper))
}
