package hex

// AreaSize is the number of cells within radius hexes of a centre,
// 1 + 3r(r+1).
func AreaSize(radius int32) int {
	if radius < 0 {
		return 0
	}
	r := int(radius)
	return 1 + 3*r*(r+1)
}

// SpiralNext advances an origin-relative cube offset to the next cell of an
// outward ring spiral. Ring k starts at k*NE and walks SE, SW, W, NW, NE, E,
// k steps each; the cell after the last one of ring k is the start of ring
// k+1. The side a cell lies on is found by comparing q against r and s.
func SpiralNext(c CubeCoord) CubeCoord {
	k := c.Magnitude()
	if k == 0 {
		return cubeDirections[NorthEast]
	}
	switch {
	case c.S == -k && c.Q >= 0 && c.Q < k:
		return c.Add(cubeDirections[SouthEast])
	case c.Q == k && c.R <= 0 && c.R > -k:
		return c.Add(cubeDirections[SouthWest])
	case c.R == -k && c.Q > 0:
		return c.Add(cubeDirections[West])
	case c.S == k && c.Q <= 0 && c.Q > -k:
		return c.Add(cubeDirections[NorthWest])
	case c.Q == -k && c.R >= 0 && c.R < k:
		return c.Add(cubeDirections[NorthEast])
	default:
		// top side, r == k, q in [-k, -1]
		if c.Q == -1 {
			return CubeCoord{Q: 0, R: k + 1, S: -(k + 1)}
		}
		return c.Add(cubeDirections[East])
	}
}

// Spiral visits every cell within radius of center, ring by ring, starting
// with the centre itself. fn receives the cell and its ring (its distance
// from center) and may return false to stop early.
func Spiral(center GridCoord, radius int32, fn func(c GridCoord, ring int32) bool) {
	n := AreaSize(radius)
	off := CubeCoord{}
	for i := 0; i < n; i++ {
		if !fn(center.Add(off.Grid()), off.Magnitude()) {
			return
		}
		off = SpiralNext(off)
	}
}

// Ring visits only the cells exactly radius hexes from center, in spiral
// order.
func Ring(center GridCoord, radius int32, fn func(c GridCoord) bool) {
	if radius == 0 {
		fn(center)
		return
	}
	off := cubeDirections[NorthEast].scale(radius)
	for i := 0; i < 6*int(radius); i++ {
		if !fn(center.Add(off.Grid())) {
			return
		}
		off = SpiralNext(off)
	}
}

func (c CubeCoord) scale(k int32) CubeCoord {
	return CubeCoord{Q: c.Q * k, R: c.R * k, S: c.S * k}
}
