package river

import (
	"github.com/hexworld/hexcore/internal/hex"
	"github.com/zyedidia/generic/mapset"
)

// oppositeSteps is how far the perimeter path runs when a cell has no other
// connection to join: around to the opposite edge.
const oppositeSteps = hex.DirectionCount / 2

// ShortestDistanceToConnections scans slots 1-5 for the connection nearest
// to slot 0 clockwise (right) and counter-clockwise (left), in edge steps.
// Both are -1 when the cell has no other connection. preferred is false on
// a tie.
func ShortestDistanceToConnections(v CellView) (left, right int, preferred bool) {
	left, right = -1, -1
	for i := 1; i < hex.DirectionCount; i++ {
		if v.Edges[i].Connected() {
			right = i
			break
		}
	}
	for j := 1; j < hex.DirectionCount; j++ {
		if v.Edges[hex.DirectionCount-j].Connected() {
			left = j
			break
		}
	}
	return left, right, left != right
}

// CreateSegmentPath draws segmentsRight perimeter pieces clockwise from
// slot 0 and segmentsLeft pieces counter-clockwise, each at least width.
// Piece i joins edge i to edge i+1.
func CreateSegmentPath(v *CellView, segmentsLeft, segmentsRight int, width uint8) {
	for i := 0; i < segmentsRight && i < hex.DirectionCount; i++ {
		v.Edges[i].Segment = max(v.Edges[i].Segment, width)
	}
	for j := 1; j <= segmentsLeft && j <= hex.DirectionCount; j++ {
		i := hex.DirectionCount - j
		v.Edges[i].Segment = max(v.Edges[i].Segment, width)
	}
}

// CleanSegmentPath removes perimeter pieces left dangling: a piece stays
// only while both of its ends touch a connection or another piece. One
// clockwise and one counter-clockwise sweep starting at slot 0 clear the
// chains hanging off a removed slot-0 connection. A cell left with no
// connection at all keeps no segments.
func CleanSegmentPath(v *CellView) {
	connected := false
	for _, e := range v.Edges {
		connected = connected || e.Connected()
	}
	if !connected {
		for i := range v.Edges {
			v.Edges[i].Segment = 0
		}
		return
	}
	for i := 0; i < hex.DirectionCount; i++ {
		v.clearIfDangling(i)
	}
	for i := hex.DirectionCount - 1; i >= 0; i-- {
		v.clearIfDangling(i)
	}
}

func (v *CellView) clearIfDangling(i int) {
	if v.Edges[i].Segment == 0 {
		return
	}
	prev := (i + hex.DirectionCount - 1) % hex.DirectionCount
	next := (i + 1) % hex.DirectionCount
	startHeld := v.Edges[i].Connected() || v.Edges[prev].Segment > 0
	endHeld := v.Edges[next].Connected() || v.Edges[next].Segment > 0
	if !startHeld || !endHeld {
		v.Edges[i].Segment = 0
	}
}

// route picks how a cell draws its perimeter line for a new slot-0
// connection: toward the strictly nearer side, clockwise on a tie, and to
// the opposite edge when nothing else is connected.
func route(v CellView) (segmentsLeft, segmentsRight int) {
	left, right, preferred := ShortestDistanceToConnections(v)
	switch {
	case right < 0:
		return 0, oppositeSteps
	case preferred && left < right:
		return left, 0
	default:
		return 0, right
	}
}

// MakeConnection joins adjacent cells a and b with a river of the given
// width class (clamped to 1..7) flowing from the higher to the lower cell.
func MakeConnection(g Grid, a, b hex.GridCoord, size uint8) error {
	conn, err := ConnectionFromCells(g, a, b)
	if err != nil {
		return err
	}
	size = clampSize(size)

	for _, v := range []*CellView{&conn.Uphill, &conn.Downhill} {
		left, right := route(*v)
		CreateSegmentPath(v, left, right, size)
	}
	conn.Uphill.Edges[0].Outgoing = size
	conn.Downhill.Edges[0].Outgoing = 0

	conn.Uphill.store(g)
	conn.Downhill.store(g)
	return nil
}

// RemoveConnection clears the shared edge of a and b in both directions and
// drops the perimeter segments that no longer lead anywhere.
func RemoveConnection(g Grid, a, b hex.GridCoord) error {
	d, err := adjacency(g, a, b)
	if err != nil {
		return err
	}
	wa, wb := g.Wrap(a), g.Wrap(b)
	g.Waterways(wa)[d].Size = 0
	g.Waterways(wb)[d.Opposite()].Size = 0

	for _, v := range []CellView{ViewOf(g, wa, d), ViewOf(g, wb, d.Opposite())} {
		CleanSegmentPath(&v)
		v.store(g)
	}
	return nil
}

// Trace runs a river downhill from source, always stepping to the lowest
// strictly lower neighbour (lowest direction index on ties). It stops at sea
// level (elevation <= 0), at a local minimum, after joining an existing
// river, or after maxLen connections. It returns the number of connections
// made.
func Trace(g Grid, source hex.GridCoord, size uint8, maxLen int) (int, error) {
	cur := g.Wrap(source)
	visited := mapset.New[hex.GridCoord]()
	steps := 0
	for steps < maxLen {
		visited.Put(cur)
		elev := g.Elevation(cur)
		if elev <= 0 {
			break
		}
		var next hex.GridCoord
		found := false
		for d := hex.Direction(0); d < hex.DirectionCount; d++ {
			n := g.Wrap(cur.Add(d.Vector()))
			if visited.Has(n) {
				continue
			}
			if e := g.Elevation(n); e < elev {
				elev, next, found = e, n, true
			}
		}
		if !found {
			break
		}
		joined := HasRiver(g, next)
		if err := MakeConnection(g, cur, next, size); err != nil {
			return steps, err
		}
		steps++
		if joined {
			break
		}
		cur = next
	}
	return steps, nil
}
