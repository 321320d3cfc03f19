package noise

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Backend selects the lattice noise a Field is built on.
type Backend string

const (
	BackendHex         Backend = "hex"
	BackendValue       Backend = "value"
	BackendOpenSimplex Backend = "opensimplex"
)

// Source samples a scalar field in [0, 1].
type Source interface {
	Sample(x, y float64) float64
}

// Field describes one layered noise field.
type Field struct {
	Backend   Backend
	Seed      uint32
	Octaves   int
	Frequency float64
}

// NewSource builds the sampler for f. An empty backend means BackendHex.
func NewSource(f Field) (Source, error) {
	freq := f.Frequency
	if freq <= 0 {
		freq = 1
	}
	switch f.Backend {
	case "", BackendHex:
		return &latticeSource{seed: f.Seed, octaves: f.Octaves, freq: freq, sample: HexSimplex}, nil
	case BackendValue:
		return &latticeSource{seed: f.Seed, octaves: f.Octaves, freq: freq, sample: Value}, nil
	case BackendOpenSimplex:
		return newOpenSimplexSource(f.Seed, f.Octaves, freq), nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", f.Backend)
	}
}

type latticeSource struct {
	seed    uint32
	octaves int
	freq    float64
	sample  func(uint32, float64, float64) float64
}

func (s *latticeSource) Sample(x, y float64) float64 {
	return fbm(s.seed, x*s.freq, y*s.freq, s.octaves, s.sample)
}

// openSimplexSource keeps one generator per octave so octaves stay
// uncorrelated, mirroring the per-octave seeds of the lattice backends.
type openSimplexSource struct {
	octaves []opensimplex.Noise
	nums    []uint32
	denom   uint32
	freq    float64
}

func newOpenSimplexSource(seed uint32, octaves int, freq float64) *openSimplexSource {
	nums, denom := OctaveWeights(octaves)
	s := &openSimplexSource{nums: nums, denom: denom, freq: freq}
	for i := range nums {
		s.octaves = append(s.octaves, opensimplex.NewNormalized(int64(octaveSeed(seed, i))))
	}
	return s
}

func (s *openSimplexSource) Sample(x, y float64) float64 {
	var acc float64
	f := s.freq
	for i, w := range s.nums {
		acc += float64(float64(w) * s.octaves[i].Eval2(x*f, y*f))
		f *= 2
	}
	return acc / float64(s.denom)
}
