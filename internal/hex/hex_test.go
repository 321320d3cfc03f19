package hex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeRoundTrip(t *testing.T) {
	for x := int32(-40); x <= 40; x++ {
		for y := int32(-40); y <= 40; y++ {
			g := GridCoord{X: x, Y: y}
			c := g.Cube()
			require.True(t, c.Valid(), "cube invariant broken for %v", g)
			require.Equal(t, g, c.Grid())
		}
	}
	extreme := GridCoord{X: math.MaxInt32 / 2, Y: math.MinInt32 / 2}
	assert.Equal(t, extreme, extreme.Cube().Grid())
}

func TestDistance(t *testing.T) {
	a := GridCoord{X: 3, Y: -7}
	assert.Equal(t, int32(0), Distance(a, a))
	for d := Direction(0); d < DirectionCount; d++ {
		assert.Equal(t, int32(1), Distance(a, a.Add(d.Vector())), "direction %s", d)
	}

	cases := []struct {
		a, b GridCoord
		want int32
	}{
		{GridCoord{0, 0}, GridCoord{3, 0}, 3},
		{GridCoord{0, 0}, GridCoord{0, -4}, 4},
		{GridCoord{0, 0}, GridCoord{2, -2}, 2},
		{GridCoord{0, 0}, GridCoord{2, 2}, 4},
		{GridCoord{-5, 1}, GridCoord{1, -1}, 6},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Distance(tc.a, tc.b), "%v -> %v", tc.a, tc.b)
		assert.Equal(t, Distance(tc.a, tc.b), Distance(tc.b, tc.a))
		assert.Equal(t, tc.want, CubeDistance(tc.a.Cube(), tc.b.Cube()))
	}
}

func TestDirectionsAreClockwiseAndOpposite(t *testing.T) {
	prev := math.Inf(1)
	for d := Direction(0); d < DirectionCount; d++ {
		require.Equal(t, d.Vector(), d.Cube().Grid())
		require.Equal(t, GridCoord{}, d.Vector().Add(d.Opposite().Vector()))

		// Clockwise from north-east means the compass bearing strictly
		// decreases in standard atan2 orientation.
		wx, wy := CellToWorld(d.Vector())
		angle := math.Atan2(wy, wx)
		if d > 0 && angle > prev {
			angle -= 2 * math.Pi
		}
		require.Less(t, angle, prev, "direction %s", d)
		prev = angle
	}
	assert.Equal(t, NorthWest, NorthEast.Rotate(-1))
	assert.Equal(t, SouthEast, West.Rotate(4))
	assert.Equal(t, "SW", SouthWest.String())

	d, ok := DirectionTo(GridCoord{2, 2}, GridCoord{3, 1})
	require.True(t, ok)
	assert.Equal(t, SouthEast, d)
	_, ok = DirectionTo(GridCoord{2, 2}, GridCoord{4, 2})
	assert.False(t, ok)
}

func TestProjectionRoundTrip(t *testing.T) {
	wx, wy := CellToWorld(GridCoord{X: 4, Y: 2})
	assert.Equal(t, 5.0, wx)
	assert.InDelta(t, 2*math.Sqrt(0.75), wy, 1e-12)

	for x := int32(-20); x <= 20; x++ {
		for y := int32(-20); y <= 20; y++ {
			g := GridCoord{X: x, Y: y}
			wx, wy := CellToWorld(g)
			fx, fy := WorldToGrid(wx, wy)
			require.InDelta(t, float64(x), fx, 1e-9)
			require.InDelta(t, float64(y), fy, 1e-9)
			require.Equal(t, g, WorldToCell(wx+0.2, wy-0.1))
		}
	}
}

func TestSpiralVisitsEachCellOnceInRingOrder(t *testing.T) {
	center := GridCoord{X: 10, Y: -3}
	const radius = 6
	seen := map[GridCoord]bool{}
	lastRing := int32(0)
	Spiral(center, radius, func(c GridCoord, ring int32) bool {
		require.False(t, seen[c], "visited %v twice", c)
		seen[c] = true
		require.Equal(t, Distance(center, c), ring)
		require.GreaterOrEqual(t, ring, lastRing)
		lastRing = ring
		return true
	})
	assert.Len(t, seen, AreaSize(radius))
	assert.Equal(t, 127, AreaSize(radius))

	// consecutive cells on a ring are adjacent
	var prev *GridCoord
	count := 0
	Ring(GridCoord{}, 4, func(c GridCoord) bool {
		if prev != nil {
			require.Equal(t, int32(1), Distance(*prev, c))
		}
		cc := c
		prev = &cc
		count++
		return true
	})
	assert.Equal(t, 24, count)
}

func TestSpiralStopsEarly(t *testing.T) {
	n := 0
	Spiral(GridCoord{}, 10, func(GridCoord, int32) bool {
		n++
		return n < 5
	})
	assert.Equal(t, 5, n)
}

func TestFloorMod(t *testing.T) {
	assert.Equal(t, int32(2), FloorMod(-1, 3))
	assert.Equal(t, int32(0), FloorMod(-3, 3))
	assert.Equal(t, int32(1), FloorMod(7, 3))
	assert.Equal(t, int32(-1), FloorDiv(-1, 3))
	assert.Equal(t, int32(-2), FloorDiv(-4, 3))
	assert.Equal(t, int32(2), FloorDiv(7, 3))

	m := FloorMod(math.MinInt32, 192)
	assert.True(t, m >= 0 && m < 192)
	assert.Equal(t, int32((int64(math.MinInt32)%192+192)%192), m)
}
