package terrain

import (
	"github.com/hexworld/hexcore/internal/grid"
	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/river"
)

// Map is a chunked terrain plane. It satisfies river.Grid.
type Map struct {
	*grid.ChunkMap[Cell]
}

// NewMap allocates a zeroed plane. It panics on non-positive dimensions.
func NewMap(chunkSize, chunksX, chunksY int32) *Map {
	return &Map{ChunkMap: grid.New[Cell](chunkSize, chunksX, chunksY)}
}

func (m *Map) Elevation(c hex.GridCoord) int16 {
	return m.Cell(c).Elevation
}

func (m *Map) Waterways(c hex.GridCoord) *river.Waterways {
	return &m.Cell(c).Waterways
}

// Digest fingerprints every cell through CellCodec.
func (m *Map) Digest() [32]byte {
	return m.ChunkMap.Digest(CellCodec{})
}

// ElevationArray copies elevations in row-major order (y*width + x).
func (m *Map) ElevationArray() []int16 {
	w := m.Width()
	out := make([]int16, int(w)*int(m.Height()))
	m.Each(func(c hex.GridCoord, cell *Cell) {
		out[int(c.Y)*int(w)+int(c.X)] = cell.Elevation
	})
	return out
}

// Reveal sets mask in the visibility field of every cell within radius of
// center and returns how many cells gained a bit.
func (m *Map) Reveal(center hex.GridCoord, radius int32, mask uint8) int {
	n := 0
	m.EachInRadius(center, radius, func(c hex.GridCoord, _ int32, cell *Cell) {
		if cell.Visibility&mask != mask {
			cell.Visibility |= mask
			m.MarkDirty(c)
			n++
		}
	})
	return n
}

// RaiseBrush stamps a peak of height value at center, falling off as
// value*(1-d/radius)^2 and never lowering a cell.
func (m *Map) RaiseBrush(center hex.GridCoord, value int16, radius int32) {
	if radius < 1 {
		radius = 1
	}
	r2 := int64(radius) * int64(radius)
	m.EachInRadius(center, radius, func(_ hex.GridCoord, d int32, cell *Cell) {
		k := int64(radius - d)
		v := int16(int64(value) * k * k / r2)
		if v > cell.Elevation {
			cell.Elevation = v
		}
	})
}
