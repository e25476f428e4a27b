package math32

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp01(t *testing.T) {
	assert.Equal(t, float32(0), Clamp01(-0.5))
	assert.Equal(t, float32(1), Clamp01(1.5))
	assert.Equal(t, float32(0.25), Clamp01(0.25))
}

func TestSanitize01(t *testing.T) {
	assert.Equal(t, float32(0), Sanitize01(float32(math.NaN())))
	assert.Equal(t, float32(0), Sanitize01(float32(math.Inf(1))))
	assert.Equal(t, float32(0), Sanitize01(float32(math.Inf(-1))))
	assert.Equal(t, float32(1), Sanitize01(2))
	assert.Equal(t, float32(0.5), Sanitize01(0.5))
}

func TestWrap01(t *testing.T) {
	assert.InDelta(t, 0.25, Wrap01(1.25), 1e-6)
	assert.InDelta(t, 0.75, Wrap01(-0.25), 1e-6)
	assert.InDelta(t, 0.0, Wrap01(2.0), 1e-6)
	assert.InDelta(t, 0.5, Wrap01(0.5), 1e-6)
}
