package terrain

import (
	"errors"
	"testing"

	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioParams(seed uint64) Params {
	p := DefaultParams()
	p.Seed = seed
	p.MountainCount = 4
	p.RangeLength = 128
	p.MaxElevation = 64
	return p
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := NewMap(64, 3, 3)
	b := NewMap(64, 3, 3)
	require.Equal(t, int32(192), a.Width())

	sa, err := NewGenerator(scenarioParams(42), nil).Generate(a)
	require.NoError(t, err)
	sb, err := NewGenerator(scenarioParams(42), nil).Generate(b)
	require.NoError(t, err)

	assert.Equal(t, a.ElevationArray(), b.ElevationArray())
	assert.Equal(t, a.Digest(), b.Digest())
	assert.Equal(t, sa, sb)
	assert.Equal(t, 192*192, sa.Cells)

	c := NewMap(64, 3, 3)
	_, err = NewGenerator(scenarioParams(43), nil).Generate(c)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest(), c.Digest())
}

func TestMountainsOnlyRaise(t *testing.T) {
	p := scenarioParams(7)
	p.Detail.Amplitude = 0
	p.RiverCount = 0
	m := NewMap(64, 3, 3)
	stats, err := NewGenerator(p, nil).Generate(m)
	require.NoError(t, err)

	for _, e := range m.ElevationArray() {
		require.GreaterOrEqual(t, e, int16(0))
		require.LessOrEqual(t, e, int16(64))
	}
	assert.Equal(t, int16(64), stats.Peak)
	assert.Positive(t, stats.Land)
	assert.Zero(t, stats.RiverCells)
}

func TestRaiseBrushFalloff(t *testing.T) {
	m := NewMap(16, 2, 2)
	center := hex.GridCoord{X: 10, Y: 10}
	m.RaiseBrush(center, 64, 4)

	assert.Equal(t, int16(64), m.Elevation(center))
	assert.Equal(t, int16(36), m.Elevation(hex.GridCoord{X: 11, Y: 10})) // 64*(3/4)^2
	assert.Equal(t, int16(16), m.Elevation(hex.GridCoord{X: 12, Y: 10})) // 64*(2/4)^2
	assert.Equal(t, int16(0), m.Elevation(hex.GridCoord{X: 14, Y: 10}))

	// a lower stamp never lowers existing ground
	m.RaiseBrush(center, 10, 2)
	assert.Equal(t, int16(64), m.Elevation(center))
	assert.Equal(t, int16(36), m.Elevation(hex.GridCoord{X: 11, Y: 10}))
}

func TestRiversFlowDownhill(t *testing.T) {
	p := scenarioParams(99)
	p.RiverCount = 8
	p.RiverMinElevation = 16
	m := NewMap(64, 3, 3)
	stats, err := NewGenerator(p, nil).Generate(m)
	require.NoError(t, err)
	require.Positive(t, stats.Rivers)
	assert.Positive(t, stats.RiverCells)

	m.Each(func(c hex.GridCoord, cell *Cell) {
		for d := hex.Direction(0); d < hex.DirectionCount; d++ {
			if cell.Waterways[d].Size == 0 {
				continue
			}
			n := m.Neighbor(c, d)
			require.LessOrEqual(t, m.Elevation(n), cell.Elevation, "%v -> %v", c, n)
			require.True(t, river.Connected(m, n, d.Opposite()))
		}
	})
}

func TestShapersRunInOrderAndStopOnError(t *testing.T) {
	p := scenarioParams(5)
	p.RiverCount = 0
	dry := ShaperFunc(func(_ hex.GridCoord, cell *Cell) error {
		if cell.Elevation > 0 {
			cell.Moisture = 0
		}
		return nil
	})
	m := NewMap(16, 2, 2)
	_, err := NewGenerator(p, nil, dry).Generate(m)
	require.NoError(t, err)
	m.Each(func(_ hex.GridCoord, cell *Cell) {
		if cell.Elevation > 0 {
			require.Zero(t, cell.Moisture)
		}
	})

	boom := errors.New("boom")
	calls := 0
	failing := ShaperFunc(func(hex.GridCoord, *Cell) error {
		calls++
		return boom
	})
	_, err = NewGenerator(p, nil, failing).Generate(NewMap(16, 2, 2))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestValidateRejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.Gradients = make([]Gradient, MaxGradients+1)
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultParams()
	p.WobblePermille = 500
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultParams()
	p.Detail.Backend = "fractal"
	_, err := NewGenerator(p, nil).Generate(NewMap(8, 1, 1))
	assert.Error(t, err)
}

func TestCellCodecRoundTrip(t *testing.T) {
	c := Cell{Elevation: -300, Temperature: 200, Moisture: 3, Vegetation: 255, Visibility: 0x81}
	c.Waterways[hex.West] = river.Edge{Segment: 2, Size: 5}

	buf := make([]byte, CellSize)
	CellCodec{}.Encode(buf, &c)
	var out Cell
	CellCodec{}.Decode(buf, &out)
	assert.Equal(t, c, out)
}

func TestSaturatingAccumulators(t *testing.T) {
	var c Cell
	c.AddTemperature(-5)
	assert.Equal(t, uint8(0), c.Temperature)
	c.AddMoisture(300)
	assert.Equal(t, uint8(255), c.Moisture)
	c.Elevation = 32000
	c.AddElevation(1000)
	assert.Equal(t, int16(32767), c.Elevation)
}

func TestReveal(t *testing.T) {
	m := NewMap(16, 2, 2)
	center := hex.GridCoord{X: 0, Y: 0}
	assert.Equal(t, hex.AreaSize(2), m.Reveal(center, 2, 0x01))
	assert.Zero(t, m.Reveal(center, 2, 0x01))
	assert.Equal(t, uint8(0x01), m.Cell(hex.GridCoord{X: 31, Y: 1}).Visibility)
	assert.Equal(t, hex.AreaSize(1), m.Reveal(center, 1, 0x02))
}

func TestGenerateWithSeed(t *testing.T) {
	a := NewMap(32, 2, 2)
	b := NewMap(32, 2, 2)
	_, err := Generate(a, 1234)
	require.NoError(t, err)
	_, err = Generate(b, 1234)
	require.NoError(t, err)
	assert.Equal(t, a.Digest(), b.Digest())
	assert.Len(t, a.DirtyChunks(), 4)
}
