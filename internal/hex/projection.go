package hex

import "math"

// RowHeight is the world-space distance between two lattice rows, sqrt(0.75).
var RowHeight = math.Sqrt(0.75)

// CellToWorld projects a grid coordinate to the centre of its hex in world
// space. This is a bit-exact contract consumed by rendering:
// worldX = x + 0.5*y, worldY = sqrt(0.75)*y.
func CellToWorld(g GridCoord) (float64, float64) {
	y := float64(g.Y)
	return float64(g.X) + 0.5*y, RowHeight * y
}

// WorldToGrid is the exact inverse of CellToWorld, returning fractional
// axial coordinates.
func WorldToGrid(wx, wy float64) (float64, float64) {
	y := wy / RowHeight
	return wx - 0.5*y, y
}

// WorldToCell returns the cell containing the world-space point, rounding
// in cube space so hex boundaries are respected.
func WorldToCell(wx, wy float64) GridCoord {
	fx, fy := WorldToGrid(wx, wy)
	return roundCube(fx, fy, -fx-fy).Grid()
}

func roundCube(q, r, s float64) CubeCoord {
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)

	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	default:
		rs = -rq - rr
	}
	return CubeCoord{Q: int32(rq), R: int32(rr), S: int32(rs)}
}
