//go:build unit

package backoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCryptoSampler_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		maxInclusive int64
	}{
		{"single slot", 1},
		{"small window", 7},
		{"large window", 1023},
	}

	sampler := NewCryptoSampler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for range 500 {
				n := sampler.Sample(tt.maxInclusive)
				assert.GreaterOrEqual(t, n, int64(0))
				assert.LessOrEqual(t, n, tt.maxInclusive)
			}
		})
	}
}

func TestCryptoSampler_DegenerateBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		maxInclusive int64
	}{
		{"zero bound", 0},
		{"negative bound", -5},
	}

	sampler := NewCryptoSampler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, int64(0), sampler.Sample(tt.maxInclusive))
		})
	}
}

func TestCryptoSampler_CoversWholeRange(t *testing.T) {
	t.Parallel()

	// With maxInclusive = 1 both endpoints must show up quickly; the odds
	// of 500 identical draws are negligible.
	sampler := NewCryptoSampler()
	seen := map[int64]bool{}

	for range 500 {
		seen[sampler.Sample(1)] = true
	}

	assert.True(t, seen[0], "slot 0 never drawn")
	assert.True(t, seen[1], "slot 1 never drawn")
}

func TestCryptoFallbackSample_Bounds(t *testing.T) {
	t.Parallel()

	for range 500 {
		n := cryptoFallbackSample(9)
		assert.GreaterOrEqual(t, n, int64(0))
		assert.LessOrEqual(t, n, int64(9))
	}
}
