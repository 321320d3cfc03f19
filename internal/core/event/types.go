package event

import (
	"github.com/hexworld/hexcore/internal/core/ecs"
	"github.com/hexworld/hexcore/internal/hex"
)

type OccupantPlaced struct {
	Entity ecs.EntityID
	Plane  int16
	Coord  hex.GridCoord
}

type OccupantRemoved struct {
	Entity ecs.EntityID
	Plane  int16
	Coord  hex.GridCoord
}

type OccupantMoved struct {
	Entity ecs.EntityID
	Plane  int16
	From   hex.GridCoord
	To     hex.GridCoord
}

// CellsRevealed reports cells newly marked visible around an occupant.
type CellsRevealed struct {
	Entity ecs.EntityID
	Plane  int16
	Count  int
}

// PlaneGenerated is emitted when a plane is published after generation and
// any initial reveal. Digest covers the cells as they were at that moment.
type PlaneGenerated struct {
	Plane  int16
	Digest [32]byte
}
