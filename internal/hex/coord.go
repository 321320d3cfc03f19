// Package hex provides the coordinate math for the skewed axial hex lattice:
// grid (axial) and cube coordinates, the six direction vectors, distances,
// world-space projection and spiral iteration.
package hex

import "fmt"

// GridCoord is an axial coordinate on the skewed hex lattice. It is used both
// for absolute cell addresses and for chunk-local offsets.
type GridCoord struct {
	X int32
	Y int32
}

// CubeCoord is the three-axis form of a hex coordinate. Q+R+S is always zero.
type CubeCoord struct {
	Q int32
	R int32
	S int32
}

func (g GridCoord) String() string { return fmt.Sprintf("(%d,%d)", g.X, g.Y) }

// Add returns g+o component-wise.
func (g GridCoord) Add(o GridCoord) GridCoord {
	return GridCoord{X: g.X + o.X, Y: g.Y + o.Y}
}

// Sub returns g-o component-wise.
func (g GridCoord) Sub(o GridCoord) GridCoord {
	return GridCoord{X: g.X - o.X, Y: g.Y - o.Y}
}

// Cube converts to cube coordinates: q=x, r=y, s=-q-r.
func (g GridCoord) Cube() CubeCoord {
	return CubeCoord{Q: g.X, R: g.Y, S: -g.X - g.Y}
}

// Grid converts back to axial coordinates: x=q, y=r.
func (c CubeCoord) Grid() GridCoord {
	return GridCoord{X: c.Q, Y: c.R}
}

func (c CubeCoord) Add(o CubeCoord) CubeCoord {
	return CubeCoord{Q: c.Q + o.Q, R: c.R + o.R, S: c.S + o.S}
}

func (c CubeCoord) Sub(o CubeCoord) CubeCoord {
	return CubeCoord{Q: c.Q - o.Q, R: c.R - o.R, S: c.S - o.S}
}

// Magnitude is the hex distance from the origin, which is also the index of
// the spiral ring the coordinate lies on.
func (c CubeCoord) Magnitude() int32 {
	return max(abs32(c.Q), abs32(c.R), abs32(c.S))
}

// Valid reports whether the cube invariant q+r+s=0 holds.
func (c CubeCoord) Valid() bool {
	return c.Q+c.R+c.S == 0
}

// Distance is the hex distance between two grid coordinates on an unbounded
// lattice: (|dx| + |dx+dy| + |dy|) / 2.
func Distance(a, b GridCoord) int32 {
	dx := int64(a.X) - int64(b.X)
	dy := int64(a.Y) - int64(b.Y)
	return int32((abs64(dx) + abs64(dx+dy) + abs64(dy)) / 2)
}

// CubeDistance is Distance expressed over cube coordinates.
func CubeDistance(a, b CubeCoord) int32 {
	return a.Sub(b).Magnitude()
}

// Neighbors returns the six adjacent coordinates indexed by Direction.
func Neighbors(g GridCoord) [6]GridCoord {
	var out [6]GridCoord
	for d := Direction(0); d < DirectionCount; d++ {
		out[d] = g.Add(d.Vector())
	}
	return out
}

// DirectionTo returns the direction from a to b when b is exactly one step
// away on the unbounded lattice.
func DirectionTo(a, b GridCoord) (Direction, bool) {
	delta := b.Sub(a)
	for d := Direction(0); d < DirectionCount; d++ {
		if d.Vector() == delta {
			return d, true
		}
	}
	return 0, false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
