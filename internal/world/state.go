package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hexworld/hexcore/internal/core/ecs"
	"github.com/hexworld/hexcore/internal/core/event"
	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/terrain"
	"go.uber.org/zap"
)

var (
	ErrUnknownPlane    = errors.New("world: unknown plane")
	ErrUnknownEntity   = errors.New("world: unknown entity")
	ErrEntityNotPlaced = errors.New("world: entity has no position")
	ErrDuplicatePlane  = errors.New("world: plane already registered")
)

// Plane is one generated map layer.
type Plane struct {
	ID   int16
	Name string
	Seed uint64
	Map  *terrain.Map
}

// Sight makes an occupant reveal terrain around itself whenever it is
// placed or moves.
type Sight struct {
	Radius int32
	Mask   uint8
}

// State holds the planes, the occupant entities and the spatial index that
// ties them together. Coordinates are wrapped through the plane's map before
// they reach the index.
// Accessed only from the owning goroutine; no locks.
type State struct {
	planes    map[int16]*Plane
	entities  *ecs.World
	index     *SpatialIndex
	positions *ecs.PtrComponentStore[WorldPosition]
	sight     *ecs.PtrComponentStore[Sight]
	bus       *event.Bus
	log       *zap.Logger
}

// NewState creates an empty world. bus may be nil when nobody listens.
func NewState(maxOccupants int, bus *event.Bus, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	if bus == nil {
		bus = event.NewBus()
	}
	entities := ecs.NewWorld()
	s := &State{
		planes:    make(map[int16]*Plane),
		entities:  entities,
		index:     NewSpatialIndex(maxOccupants, entities.Pool()),
		positions: ecs.NewPtrComponentStore[WorldPosition](),
		sight:     ecs.NewPtrComponentStore[Sight](),
		bus:       bus,
		log:       log,
	}
	entities.Registry().Register(s.positions)
	entities.Registry().Register(s.sight)
	return s
}

func (s *State) Bus() *event.Bus      { return s.bus }
func (s *State) Index() *SpatialIndex { return s.index }
func (s *State) Entities() *ecs.World { return s.entities }

// AddPlane registers a generated plane. Call PublishPlane once any initial
// edits such as RevealPlane are done.
func (s *State) AddPlane(p *Plane) error {
	if _, ok := s.planes[p.ID]; ok {
		return fmt.Errorf("plane %d: %w", p.ID, ErrDuplicatePlane)
	}
	s.planes[p.ID] = p
	s.log.Info("plane registered", zap.Int16("plane", p.ID), zap.String("name", p.Name))
	return nil
}

// PublishPlane announces a plane with the digest of its current cells.
func (s *State) PublishPlane(id int16) error {
	p, err := s.Plane(id)
	if err != nil {
		return err
	}
	event.Emit(s.bus, event.PlaneGenerated{Plane: p.ID, Digest: p.Map.Digest()})
	return nil
}

// RevealPlane sets mask on every cell of a plane. A surveyor whose sight
// spans the torus is placed at the origin and despawned again, so the usual
// placement and reveal events are emitted. It returns the number of cells
// that gained a bit.
func (s *State) RevealPlane(id int16, mask uint8) (int, error) {
	p, err := s.Plane(id)
	if err != nil {
		return 0, err
	}
	surveyor, err := s.Spawn(id, hex.GridCoord{})
	if err != nil {
		return 0, err
	}
	radius := (p.Map.Width() + p.Map.Height()) / 2
	s.sight.Set(surveyor, &Sight{Radius: radius, Mask: mask})
	n := s.reveal(surveyor, p, hex.GridCoord{})
	return n, s.Despawn(surveyor)
}

func (s *State) Plane(id int16) (*Plane, error) {
	p, ok := s.planes[id]
	if !ok {
		return nil, fmt.Errorf("plane %d: %w", id, ErrUnknownPlane)
	}
	return p, nil
}

// Planes lists registered planes by ID.
func (s *State) Planes() []*Plane {
	out := make([]*Plane, 0, len(s.planes))
	for _, p := range s.planes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *State) position(plane int16, c hex.GridCoord) (WorldPosition, *Plane, error) {
	p, err := s.Plane(plane)
	if err != nil {
		return WorldPosition{}, nil, err
	}
	return WorldPosition{Plane: plane, Coord: p.Map.Wrap(c)}, p, nil
}

// Spawn creates an occupant at c on plane.
func (s *State) Spawn(plane int16, c hex.GridCoord) (ecs.EntityID, error) {
	pos, _, err := s.position(plane, c)
	if err != nil {
		return 0, err
	}
	id := s.entities.CreateEntity()
	s.positions.Set(id, &pos)
	s.index.Place(pos, id)
	event.Emit(s.bus, event.OccupantPlaced{Entity: id, Plane: plane, Coord: pos.Coord})
	s.log.Debug("occupant spawned", zap.Uint64("entity", uint64(id)), zap.Stringer("coord", pos.Coord))
	return id, nil
}

// Despawn removes id from the index now and retires the entity at the next
// Flush.
func (s *State) Despawn(id ecs.EntityID) error {
	pos, err := s.PositionOf(id)
	if err != nil {
		return err
	}
	s.index.Remove(pos, id)
	s.positions.Remove(id)
	s.entities.MarkForDestruction(id)
	event.Emit(s.bus, event.OccupantRemoved{Entity: id, Plane: pos.Plane, Coord: pos.Coord})
	return nil
}

// Move relocates id within its plane.
func (s *State) Move(id ecs.EntityID, c hex.GridCoord) error {
	from, err := s.PositionOf(id)
	if err != nil {
		return err
	}
	to, p, err := s.position(from.Plane, c)
	if err != nil {
		return err
	}
	s.index.Move(from, to, id)
	cur, _ := s.positions.Get(id)
	*cur = to
	event.Emit(s.bus, event.OccupantMoved{Entity: id, Plane: to.Plane, From: from.Coord, To: to.Coord})
	s.reveal(id, p, to.Coord)
	return nil
}

// SetSight gives id a sight radius and reveals around it immediately.
func (s *State) SetSight(id ecs.EntityID, sight Sight) error {
	pos, err := s.PositionOf(id)
	if err != nil {
		return err
	}
	p, err := s.Plane(pos.Plane)
	if err != nil {
		return err
	}
	s.sight.Set(id, &sight)
	s.reveal(id, p, pos.Coord)
	return nil
}

func (s *State) reveal(id ecs.EntityID, p *Plane, c hex.GridCoord) int {
	sight, ok := s.sight.Get(id)
	if !ok {
		return 0
	}
	n := p.Map.Reveal(c, sight.Radius, sight.Mask)
	if n > 0 {
		event.Emit(s.bus, event.CellsRevealed{Entity: id, Plane: p.ID, Count: n})
	}
	return n
}

// RevealAll re-applies every occupant's sight, e.g. after a plane was
// reloaded from storage.
func (s *State) RevealAll() {
	ecs.Each2(s.positions, s.sight, func(id ecs.EntityID, pos *WorldPosition, _ *Sight) {
		if p, ok := s.planes[pos.Plane]; ok {
			s.reveal(id, p, pos.Coord)
		}
	})
}

// PositionOf returns where id currently stands.
func (s *State) PositionOf(id ecs.EntityID) (WorldPosition, error) {
	if !s.entities.Alive(id) {
		return WorldPosition{}, fmt.Errorf("entity %d: %w", id, ErrUnknownEntity)
	}
	pos, ok := s.positions.Get(id)
	if !ok {
		return WorldPosition{}, fmt.Errorf("entity %d: %w", id, ErrEntityNotPlaced)
	}
	return *pos, nil
}

// OccupantAt resolves c on plane to its occupant or cell root.
func (s *State) OccupantAt(plane int16, c hex.GridCoord) (Occupant, bool, error) {
	pos, _, err := s.position(plane, c)
	if err != nil {
		return Occupant{}, false, err
	}
	occ, ok := s.index.Lookup(pos)
	return occ, ok, nil
}

// OccupantsAt lists every entity on c.
func (s *State) OccupantsAt(plane int16, c hex.GridCoord) ([]ecs.EntityID, error) {
	pos, _, err := s.position(plane, c)
	if err != nil {
		return nil, err
	}
	return s.index.Occupants(pos), nil
}

// Flush retires despawned entities and delivers the events of this step.
func (s *State) Flush() {
	s.entities.FlushDestroyQueue()
	s.bus.Flush()
}
