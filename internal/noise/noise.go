package noise

import "math"

// MaxOctaves bounds octave counts so integer weights fit comfortably.
const MaxOctaves = 16

// Value is bilinearly interpolated lattice noise in [0, 1).
func Value(seed uint32, x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix := int32(x0)
	iy := int32(y0)

	v00 := Unit(Hash(seed, ix, iy))
	v10 := Unit(Hash(seed, ix+1, iy))
	v01 := Unit(Hash(seed, ix, iy+1))
	v11 := Unit(Hash(seed, ix+1, iy+1))
	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy)
}

// OctaveWeights returns the integer numerators 2^(octaves-1-i) and their
// common denominator 2^octaves-1, so the weights sum to exactly 1.
func OctaveWeights(octaves int) ([]uint32, uint32) {
	octaves = clampOctaves(octaves)
	nums := make([]uint32, octaves)
	for i := range nums {
		nums[i] = 1 << uint(octaves-1-i)
	}
	return nums, 1<<uint(octaves) - 1
}

// Perlin sums octaves of value noise at doubling frequency with halving
// weight.
func Perlin(seed uint32, x, y float64, octaves int) float64 {
	return fbm(seed, x, y, octaves, Value)
}

// HexSimplex samples noise on the skewed hex lattice. Each lattice
// parallelogram splits into two triangles along fx+fy=1; the result blends
// the three corner values weighted by 1 - cube distance from each corner.
func HexSimplex(seed uint32, x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix := int32(x0)
	iy := int32(y0)

	var corners [3][2]int32
	if fx+fy < 1 {
		corners = [3][2]int32{{0, 0}, {1, 0}, {0, 1}}
	} else {
		corners = [3][2]int32{{1, 1}, {1, 0}, {0, 1}}
	}

	var sum, wsum float64
	for _, c := range corners {
		w := 1 - cubeDistance(fx-float64(c[0]), fy-float64(c[1]))
		if w <= 0 {
			continue
		}
		sum += float64(w * Unit(Hash(seed, ix+c[0], iy+c[1])))
		wsum += w
	}
	if wsum == 0 {
		return Unit(Hash(seed, ix, iy))
	}
	return sum / wsum
}

// HexSimplexOctaves layers HexSimplex with the same weights as Perlin.
func HexSimplexOctaves(seed uint32, x, y float64, octaves int) float64 {
	return fbm(seed, x, y, octaves, HexSimplex)
}

func fbm(seed uint32, x, y float64, octaves int, sample func(uint32, float64, float64) float64) float64 {
	nums, denom := OctaveWeights(octaves)
	var acc float64
	freq := 1.0
	for i, w := range nums {
		acc += float64(float64(w) * sample(octaveSeed(seed, i), x*freq, y*freq))
		freq *= 2
	}
	return acc / float64(denom)
}

func octaveSeed(seed uint32, octave int) uint32 {
	return Hash(seed, int32(octave), 0x6f637476)
}

func cubeDistance(dx, dy float64) float64 {
	return (math.Abs(dx) + math.Abs(dy) + math.Abs(dx+dy)) / 2
}

// lerp keeps the product in its own conversion so the compiler cannot fuse
// it into an FMA, which would change results across architectures.
func lerp(a, b, t float64) float64 {
	return a + float64(t*(b-a))
}

func clampOctaves(o int) int {
	if o < 1 {
		return 1
	}
	if o > MaxOctaves {
		return MaxOctaves
	}
	return o
}
