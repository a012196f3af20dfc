package backoff

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"math/big"
	mrand "math/rand/v2"
)

// Sampler draws the random slot number for each step. Implementations must
// return a uniform integer in [0, maxInclusive], and 0 when maxInclusive <= 0.
//
// Inject a deterministic Sampler through Config.Sampler to make sequence
// behavior reproducible in tests.
type Sampler interface {
	Sample(maxInclusive int64) int64
}

// NewCryptoSampler returns the default Sampler. It uses crypto/rand for the
// draw, falling back to a math/rand PRNG if crypto/rand fails.
//
//nolint:ireturn
func NewCryptoSampler() Sampler {
	return cryptoSampler{}
}

type cryptoSampler struct{}

// Sample returns a uniform random integer in [0, maxInclusive].
func (cryptoSampler) Sample(maxInclusive int64) int64 {
	if maxInclusive <= 0 {
		return 0
	}

	bound := new(big.Int).Add(big.NewInt(maxInclusive), big.NewInt(1))

	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return cryptoFallbackSample(maxInclusive)
	}

	return n.Int64()
}

// fallbackDivisor is used when crypto/rand fails completely.
const fallbackDivisor = 2

// cryptoFallbackSample provides a fallback random draw when crypto/rand
// fails. It uses two fallback layers:
//   - Layer 1: seed a math/rand PRNG via crypto/rand. Even though
//     Sample's crypto/rand.Int already failed, rand.Read uses a different
//     code path (raw bytes vs big.Int) and may succeed independently.
//   - Layer 2: if even seeding fails, return the deterministic midpoint
//     (maxInclusive / 2) so the draw never blocks.
func cryptoFallbackSample(maxInclusive int64) int64 {
	var seed [8]byte

	_, err := rand.Read(seed[:])
	if err != nil {
		return maxInclusive / fallbackDivisor
	}

	rng := mrand.New(
		mrand.NewPCG(binary.LittleEndian.Uint64(seed[:]), 0),
	) // #nosec G404 -- Fallback when crypto/rand fails

	if maxInclusive == math.MaxInt64 {
		return int64(rng.Uint64() >> 1)
	}

	return rng.Int64N(maxInclusive + 1)
}
