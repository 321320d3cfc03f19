// Package noise implements deterministic hash-based noise over 2D lattice
// coordinates: value noise, octave (Perlin-style) sums and a simplex-like
// variant laid out on the 60° skewed hex lattice.
//
// Everything here is integer hashing plus IEEE add/multiply, so a given seed
// and coordinate produce bit-identical output on every platform.
package noise

import "math/bits"

const (
	prime1 uint32 = 0x9E3779B1
	prime2 uint32 = 0x85EBCA77
	prime3 uint32 = 0xC2B2AE3D
	prime4 uint32 = 0x27D4EB2F
)

// Hash is the 32-bit avalanche hash of (seed, x, y). It is the only
// randomness primitive in the module.
func Hash(seed uint32, x, y int32) uint32 {
	h := seed + prime4
	h ^= uint32(x) * prime2
	h = bits.RotateLeft32(h, 13) * prime1
	h ^= uint32(y) * prime3
	h = bits.RotateLeft32(h, 17) * prime4
	return avalanche(h)
}

func avalanche(h uint32) uint32 {
	h ^= h >> 15
	h *= prime2
	h ^= h >> 13
	h *= prime3
	h ^= h >> 16
	return h
}

// FoldSeed reduces an arbitrary-width seed to 32 bits through Hash.
func FoldSeed(seed uint64) uint32 {
	return Hash(uint32(seed>>32), int32(uint32(seed)), 0)
}

// Unit maps a hash to [0, 1).
func Unit(h uint32) float64 {
	return float64(h) / 4294967296.0
}

// Stream is a counter-based generator over Hash. Two streams with the same
// seed always yield the same sequence.
type Stream struct {
	seed uint32
	n    uint32
}

func NewStream(seed uint32) *Stream {
	return &Stream{seed: seed}
}

// Next returns the next 32-bit value.
func (s *Stream) Next() uint32 {
	v := Hash(s.seed, int32(s.n), 0x1b873593)
	s.n++
	return v
}

// Intn returns a value in [0, n). n must be > 0.
func (s *Stream) Intn(n int) int {
	return int(s.Next() % uint32(n))
}

// Permille returns a value in [0, 1000).
func (s *Stream) Permille() int {
	return s.Intn(1000)
}
