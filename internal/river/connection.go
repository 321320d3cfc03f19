package river

import (
	"errors"

	"github.com/hexworld/hexcore/internal/hex"
)

// ErrInvalidAdjacency is returned when a connection is requested between
// cells that do not share an edge.
var ErrInvalidAdjacency = errors.New("river: cells are not adjacent")

// Grid is the map access the builder needs. *terrain.Map satisfies it.
type Grid interface {
	Wrap(c hex.GridCoord) hex.GridCoord
	Elevation(c hex.GridCoord) int16
	Waterways(c hex.GridCoord) *Waterways
	MarkDirty(c hex.GridCoord)
}

// EdgeView is one edge as seen while building a connection: the cell's own
// outgoing size and segment, plus the size the neighbour across that edge
// sends in.
type EdgeView struct {
	Outgoing uint8
	Incoming uint8
	Segment  uint8
}

// Connected reports whether water crosses this edge in either direction.
func (e EdgeView) Connected() bool {
	return e.Outgoing > 0 || e.Incoming > 0
}

// CellView is a cell's six edges rotated so slot 0 is the edge being
// connected; slot i is direction Base+i, so increasing slots run clockwise.
type CellView struct {
	Coord hex.GridCoord
	Base  hex.Direction
	Edges [hex.DirectionCount]EdgeView
}

// Connection is the working state for one edge between two adjacent cells.
// It is extracted, edited and written back; never stored.
type Connection struct {
	Dir      hex.Direction // from Uphill to Downhill
	Uphill   CellView
	Downhill CellView
}

// ViewOf extracts c's edges rotated to base.
func ViewOf(g Grid, c hex.GridCoord, base hex.Direction) CellView {
	c = g.Wrap(c)
	v := CellView{Coord: c, Base: base}
	own := g.Waterways(c)
	for i := range v.Edges {
		d := base.Rotate(i)
		v.Edges[i] = EdgeView{
			Outgoing: own[d].Size,
			Incoming: Incoming(g, c, d),
			Segment:  own[d].Segment,
		}
	}
	return v
}

// Incoming is the size the neighbour in direction d sends across the shared
// edge, read from that neighbour's opposite edge.
func Incoming(g Grid, c hex.GridCoord, d hex.Direction) uint8 {
	n := g.Wrap(c.Add(d.Vector()))
	return g.Waterways(n)[d.Opposite()].Size
}

// Connected reports whether water crosses edge d of c in either direction.
func Connected(g Grid, c hex.GridCoord, d hex.Direction) bool {
	return g.Waterways(g.Wrap(c))[d].Size > 0 || Incoming(g, c, d) > 0
}

// HasRiver reports whether any edge of c carries a connection.
func HasRiver(g Grid, c hex.GridCoord) bool {
	for d := hex.Direction(0); d < hex.DirectionCount; d++ {
		if Connected(g, c, d) {
			return true
		}
	}
	return false
}

// adjacency finds the direction from a to b on the wrapped map.
func adjacency(g Grid, a, b hex.GridCoord) (hex.Direction, error) {
	wa, wb := g.Wrap(a), g.Wrap(b)
	if wa == wb {
		return 0, ErrInvalidAdjacency
	}
	for d := hex.Direction(0); d < hex.DirectionCount; d++ {
		if g.Wrap(wa.Add(d.Vector())) == wb {
			return d, nil
		}
	}
	return 0, ErrInvalidAdjacency
}

// ConnectionFromCells orders a and b so the first is uphill (ties keep the
// given order) and extracts both views with slot 0 on the shared edge.
func ConnectionFromCells(g Grid, a, b hex.GridCoord) (Connection, error) {
	d, err := adjacency(g, a, b)
	if err != nil {
		return Connection{}, err
	}
	if g.Elevation(g.Wrap(b)) > g.Elevation(g.Wrap(a)) {
		a, b = b, a
		d = d.Opposite()
	}
	return Connection{
		Dir:      d,
		Uphill:   ViewOf(g, a, d),
		Downhill: ViewOf(g, b, d.Opposite()),
	}, nil
}

// store writes segments and outgoing sizes back. Incoming values are
// derived from neighbours and never written.
func (v *CellView) store(g Grid) {
	w := g.Waterways(v.Coord)
	for i, e := range v.Edges {
		d := v.Base.Rotate(i)
		w[d].Segment = e.Segment
		w[d].Size = e.Outgoing
	}
	g.MarkDirty(v.Coord)
}
