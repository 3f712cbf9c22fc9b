// Package random provides the randomness abstraction shared by every
// simulation the bot runs.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// Source is the randomness provider for simulations and rolls.
//
// Implementations are NOT required to be safe for concurrent use; callers
// obtain one Source per command invocation.
type Source interface {
	// Int63n returns a non-negative random int64 in [0, n).
	//
	// Precondition: n > 0.
	Int63n(n int64) int64
	// Float64 returns a random float64 in [0.0, 1.0).
	Float64() float64
}

// Factory produces a fresh Source for a single invocation.
type Factory func() Source

// NewSource returns a math/rand Source seeded from crypto/rand.
//
// Postcondition: Returns a non-nil Source owned exclusively by the caller.
func NewSource() Source {
	return NewSeeded(Seed())
}

// NewSeeded returns a deterministic Source for the given seed.
func NewSeeded(seed int64) Source {
	//nolint:gosec // G404: simulation randomness, not cryptographic
	return rand.New(rand.NewSource(seed))
}

// Seed reads a 64-bit seed from crypto/rand, falling back to the wall clock
// if the system entropy source is unavailable.
func Seed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Range returns a uniformly distributed value in the half-open range [lo, hi).
//
// Precondition: hi > lo. Panics with "random: empty range" otherwise.
func Range(src Source, lo, hi int64) int64 {
	if hi <= lo {
		panic("random: empty range")
	}
	return lo + src.Int63n(hi-lo)
}

// Between returns a uniformly distributed value in the closed range [lo, hi].
//
// Precondition: hi >= lo.
func Between(src Source, lo, hi int64) int64 {
	return Range(src, lo, hi+1)
}

// Intn is Range(src, 0, n) narrowed to int.
func Intn(src Source, n int) int {
	return int(Range(src, 0, int64(n)))
}

// FloatRange returns a uniformly distributed float64 in [lo, hi).
func FloatRange(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Int64 returns a random value spanning the full int64 range, negatives included.
func Int64(src Source) int64 {
	hi := uint64(src.Int63n(1 << 32))
	lo := uint64(src.Int63n(1 << 32))
	return int64(hi<<32 | lo)
}
