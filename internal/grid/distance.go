package grid

import (
	"math"

	"github.com/hexworld/hexcore/internal/hex"
)

// Distance is the hex distance between a and b on the torus: the minimum
// over the nine translations of b by whole map widths and heights.
func (m *ChunkMap[T]) Distance(a, b hex.GridCoord) int32 {
	wa, wb := m.Wrap(a), m.Wrap(b)
	best := int32(math.MaxInt32)
	for ty := int32(-1); ty <= 1; ty++ {
		for tx := int32(-1); tx <= 1; tx++ {
			alias := hex.GridCoord{X: wb.X + tx*m.width, Y: wb.Y + ty*m.height}
			if d := hex.Distance(wa, alias); d < best {
				best = d
			}
		}
	}
	return best
}

// WorldDelta returns the shortest world-space vector from a to b on the
// torus. A vertical wrap by mapHeight rows also shifts world X by
// mapHeight*0.5, which the alias search accounts for.
func (m *ChunkMap[T]) WorldDelta(a, b hex.GridCoord) (float64, float64) {
	ax, ay := hex.CellToWorld(m.Wrap(a))
	bx, by := hex.CellToWorld(m.Wrap(b))
	w := float64(m.width)
	h := float64(m.height)

	bestX, bestY := 0.0, 0.0
	bestLen := math.Inf(1)
	for ty := -1.0; ty <= 1; ty++ {
		for tx := -1.0; tx <= 1; tx++ {
			dx := bx + tx*w + ty*h*0.5 - ax
			dy := by + ty*h*hex.RowHeight - ay
			if l := dx*dx + dy*dy; l < bestLen {
				bestLen, bestX, bestY = l, dx, dy
			}
		}
	}
	return bestX, bestY
}

// WorldDistance is the Euclidean length of WorldDelta.
func (m *ChunkMap[T]) WorldDistance(a, b hex.GridCoord) float64 {
	dx, dy := m.WorldDelta(a, b)
	return math.Hypot(dx, dy)
}
