package river

import (
	"testing"

	"github.com/hexworld/hexcore/internal/grid"
	"github.com/hexworld/hexcore/internal/hex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCell struct {
	elev int16
	ww   Waterways
}

type testGrid struct {
	*grid.ChunkMap[testCell]
}

func (g testGrid) Elevation(c hex.GridCoord) int16      { return g.Cell(c).elev }
func (g testGrid) Waterways(c hex.GridCoord) *Waterways { return &g.Cell(c).ww }

func newTestGrid(elev func(c hex.GridCoord) int16) testGrid {
	g := testGrid{grid.New[testCell](8, 2, 2)}
	g.Each(func(c hex.GridCoord, cell *testCell) {
		cell.elev = elev(c)
	})
	return g
}

func TestPackRoundTrip(t *testing.T) {
	var w Waterways
	w[hex.NorthEast] = Edge{Segment: 7, Size: 1}
	w[hex.SouthWest] = Edge{Segment: 2}
	w[hex.NorthWest] = Edge{Size: 7}

	v := w.Pack()
	assert.Zero(t, v>>36)
	assert.Equal(t, w, Unpack(v))
	assert.Equal(t, w, FromBytes(w.Bytes()))
	assert.Equal(t, uint64(7), v&fieldMask)
	assert.Equal(t, uint64(1), v>>sizeOffset&fieldMask)

	assert.True(t, Waterways{}.Empty())
	assert.False(t, w.Empty())
}

func TestShortestDistanceToConnections(t *testing.T) {
	var v CellView
	left, right, preferred := ShortestDistanceToConnections(v)
	assert.Equal(t, -1, left)
	assert.Equal(t, -1, right)
	assert.False(t, preferred)

	v.Edges[2].Incoming = 1
	left, right, preferred = ShortestDistanceToConnections(v)
	assert.Equal(t, 4, left)
	assert.Equal(t, 2, right)
	assert.True(t, preferred)

	v.Edges[4].Outgoing = 2
	left, right, preferred = ShortestDistanceToConnections(v)
	assert.Equal(t, 2, left)
	assert.Equal(t, 2, right)
	assert.False(t, preferred)
}

func TestCreateSegmentPath(t *testing.T) {
	var v CellView
	CreateSegmentPath(&v, 2, 1, 4)
	got := make([]uint8, 0, 6)
	for _, e := range v.Edges {
		got = append(got, e.Segment)
	}
	assert.Equal(t, []uint8{4, 0, 0, 0, 4, 4}, got)

	// wider rivers widen, narrower ones never shrink an existing segment
	CreateSegmentPath(&v, 0, 1, 2)
	assert.Equal(t, uint8(4), v.Edges[0].Segment)
	CreateSegmentPath(&v, 0, 1, 6)
	assert.Equal(t, uint8(6), v.Edges[0].Segment)
}

func TestCleanSegmentPathDropsDanglingChain(t *testing.T) {
	var v CellView
	v.Edges[0].Outgoing = 1
	v.Edges[2].Incoming = 1
	CreateSegmentPath(&v, 0, 2, 1)

	CleanSegmentPath(&v)
	assert.Equal(t, uint8(1), v.Edges[0].Segment)
	assert.Equal(t, uint8(1), v.Edges[1].Segment)

	v.Edges[0].Outgoing = 0
	CleanSegmentPath(&v)
	for i, e := range v.Edges {
		assert.Zero(t, e.Segment, "slot %d", i)
	}
}

func TestMakeConnectionRoundTrip(t *testing.T) {
	// elevation falls to the east
	g := newTestGrid(func(c hex.GridCoord) int16 { return 20 - int16(c.X) })
	a := hex.GridCoord{X: 5, Y: 4}
	b := hex.GridCoord{X: 4, Y: 4}

	// b is uphill even though it is passed second
	require.NoError(t, MakeConnection(g, a, b, 3))

	up := ViewOf(g, b, hex.East)
	down := ViewOf(g, a, hex.West)
	assert.Equal(t, uint8(3), up.Edges[0].Outgoing)
	assert.Equal(t, uint8(0), up.Edges[0].Incoming)
	assert.Equal(t, uint8(3), down.Edges[0].Incoming)
	assert.Equal(t, uint8(0), down.Edges[0].Outgoing)

	// no other connection: each cell routes clockwise to the opposite edge
	for _, v := range []CellView{up, down} {
		for i := 0; i < 3; i++ {
			assert.Equal(t, uint8(3), v.Edges[i].Segment, "slot %d", i)
		}
		for i := 3; i < 6; i++ {
			assert.Zero(t, v.Edges[i].Segment, "slot %d", i)
		}
	}

	assert.True(t, Connected(g, a, hex.West))
	assert.True(t, Connected(g, b, hex.East))
	assert.True(t, HasRiver(g, a))
	assert.NotEmpty(t, g.DirtyChunks())
}

func TestMakeConnectionClampsSize(t *testing.T) {
	g := newTestGrid(func(c hex.GridCoord) int16 { return 20 - int16(c.X) })
	a := hex.GridCoord{X: 1, Y: 1}
	require.NoError(t, MakeConnection(g, a, a.Add(hex.East.Vector()), 12))
	assert.Equal(t, uint8(MaxSize), g.Waterways(a)[hex.East].Size)

	b := hex.GridCoord{X: 1, Y: 8}
	require.NoError(t, MakeConnection(g, b, b.Add(hex.SouthEast.Vector()), 0))
	assert.Equal(t, uint8(1), g.Waterways(b)[hex.SouthEast].Size)
}

func TestMakeConnectionRoutesTowardExistingRiver(t *testing.T) {
	g := newTestGrid(func(c hex.GridCoord) int16 { return 20 - int16(c.X) })
	a := hex.GridCoord{X: 4, Y: 4}
	b := hex.GridCoord{X: 5, Y: 4}
	c := hex.GridCoord{X: 6, Y: 4}
	require.NoError(t, MakeConnection(g, a, b, 2))
	require.NoError(t, MakeConnection(g, b, c, 2))

	// b sees the incoming river three steps away on both sides and takes the
	// clockwise route
	w := g.Waterways(b)
	assert.Equal(t, uint8(2), w[hex.East].Size)
	assert.Equal(t, uint8(2), w[hex.East].Segment)
	assert.Equal(t, uint8(2), w[hex.SouthEast].Segment)
	assert.Equal(t, uint8(2), w[hex.SouthWest].Segment)
}

func TestRemoveConnectionCleansSegments(t *testing.T) {
	g := newTestGrid(func(c hex.GridCoord) int16 { return 20 - int16(c.X) })
	a := hex.GridCoord{X: 4, Y: 4}
	b := hex.GridCoord{X: 5, Y: 4}
	c := hex.GridCoord{X: 6, Y: 4}
	require.NoError(t, MakeConnection(g, a, b, 2))
	require.NoError(t, MakeConnection(g, b, c, 2))

	require.NoError(t, RemoveConnection(g, b, a))
	assert.True(t, g.Waterways(a).Empty())
	assert.False(t, Connected(g, b, hex.West))
	assert.Equal(t, uint8(2), g.Waterways(b)[hex.East].Size)
	assert.True(t, HasRiver(g, b))

	require.NoError(t, RemoveConnection(g, b, c))
	assert.True(t, g.Waterways(b).Empty())
	assert.True(t, g.Waterways(c).Empty())
}

func TestAdjacencyErrors(t *testing.T) {
	g := newTestGrid(func(hex.GridCoord) int16 { return 1 })
	a := hex.GridCoord{X: 3, Y: 3}

	assert.ErrorIs(t, MakeConnection(g, a, a, 1), ErrInvalidAdjacency)
	assert.ErrorIs(t, MakeConnection(g, a, hex.GridCoord{X: 5, Y: 3}, 1), ErrInvalidAdjacency)
	assert.ErrorIs(t, RemoveConnection(g, a, hex.GridCoord{X: 3, Y: 5}), ErrInvalidAdjacency)

	// a full map width away is the same cell
	assert.ErrorIs(t, MakeConnection(g, a, hex.GridCoord{X: 3 + 16, Y: 3}, 1), ErrInvalidAdjacency)

	// neighbours across the wrap seam are adjacent
	edge := hex.GridCoord{X: 0, Y: 7}
	require.NoError(t, MakeConnection(g, edge, hex.GridCoord{X: 15, Y: 7}, 1))
	assert.True(t, Connected(g, edge, hex.West))
}

func TestTraceFollowsSteepestDescent(t *testing.T) {
	g := newTestGrid(func(c hex.GridCoord) int16 { return 10 - int16(c.X) })

	n, err := Trace(g, hex.GridCoord{X: 2, Y: 5}, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	for x := int32(2); x < 10; x++ {
		assert.Equal(t, uint8(2), g.Waterways(hex.GridCoord{X: x, Y: 5})[hex.East].Size, "x=%d", x)
	}
	assert.True(t, HasRiver(g, hex.GridCoord{X: 10, Y: 5}))

	// a second river stops where it joins the first
	n, err = Trace(g, hex.GridCoord{X: 1, Y: 5}, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTraceStopsAtMaxLenAndMinimum(t *testing.T) {
	g := newTestGrid(func(c hex.GridCoord) int16 { return 10 - int16(c.X) })
	n, err := Trace(g, hex.GridCoord{X: 2, Y: 2}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	flat := newTestGrid(func(hex.GridCoord) int16 { return 5 })
	n, err = Trace(flat, hex.GridCoord{X: 3, Y: 3}, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, HasRiver(flat, hex.GridCoord{X: 3, Y: 3}))
}
