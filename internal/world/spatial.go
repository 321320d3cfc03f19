package world

import (
	"fmt"
	"math/bits"

	"github.com/hexworld/hexcore/internal/core/ecs"
	"github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/noise"
)

// WorldPosition keys the spatial index. Coord must already be wrapped by the
// plane's map; the index does no wrapping of its own.
type WorldPosition struct {
	Plane int16
	Coord hex.GridCoord
}

// Liveness tells the index whether an occupant ID still refers to a live
// entity. *ecs.EntityPool satisfies it.
type Liveness interface {
	Alive(id ecs.EntityID) bool
}

// Occupant is what a coordinate resolves to: a single entity, or a cell root
// standing for every entity on the coordinate. Root IDs come from the
// index's own arena and never collide with entity IDs in meaning.
type Occupant struct {
	ID   ecs.EntityID
	Root bool
}

const noEntry = -1

type entry struct {
	key  WorldPosition
	occ  Occupant
	next int32
}

// SpatialIndex maps positions to occupants with an open-chained hash over an
// entry arena. A coordinate holds one plain occupant or exactly one root;
// a second arrival turns the entry into a root whose children are kept in a
// small per-root vector.
// Accessed only from the owning goroutine; no locks.
type SpatialIndex struct {
	mask     uint32
	buckets  []int32
	entries  []entry
	free     int32
	count    int
	live     Liveness
	roots    *ecs.EntityPool
	children [][]ecs.EntityID // by root index
}

// NewSpatialIndex sizes the bucket array to the next power of two at least
// twice maxOccupants. It panics if maxOccupants < 1 or live is nil.
func NewSpatialIndex(maxOccupants int, live Liveness) *SpatialIndex {
	if maxOccupants < 1 {
		panic(fmt.Sprintf("world: spatial index capacity %d < 1", maxOccupants))
	}
	if live == nil {
		panic("world: spatial index needs a liveness source")
	}
	slots := uint32(1) << bits.Len32(uint32(2*maxOccupants-1))
	idx := &SpatialIndex{
		mask:    slots - 1,
		buckets: make([]int32, slots),
		entries: make([]entry, 0, maxOccupants),
		free:    noEntry,
		live:    live,
		roots:   ecs.NewEntityPoolSize(maxOccupants / 4),
	}
	for i := range idx.buckets {
		idx.buckets[i] = noEntry
	}
	return idx
}

// Slots is the bucket count.
func (s *SpatialIndex) Slots() int { return len(s.buckets) }

// Len is the number of occupied coordinates.
func (s *SpatialIndex) Len() int { return s.count }

// RootCount is the number of live cell roots.
func (s *SpatialIndex) RootCount() int { return s.roots.Len() }

func planeSalt(plane int16) uint32 {
	return uint32(uint16(plane)) * 0x9e3779b9
}

func (s *SpatialIndex) bucket(pos WorldPosition) uint32 {
	return (noise.Hash(0, pos.Coord.X, pos.Coord.Y) ^ planeSalt(pos.Plane)) & s.mask
}

func (s *SpatialIndex) find(pos WorldPosition) (b uint32, i, prev int32) {
	b = s.bucket(pos)
	prev = noEntry
	for i = s.buckets[b]; i != noEntry; prev, i = i, s.entries[i].next {
		if s.entries[i].key == pos {
			return b, i, prev
		}
	}
	return b, noEntry, noEntry
}

func (s *SpatialIndex) insert(b uint32, pos WorldPosition, occ Occupant) {
	e := entry{key: pos, occ: occ, next: s.buckets[b]}
	var i int32
	if s.free != noEntry {
		i = s.free
		s.free = s.entries[i].next
		s.entries[i] = e
	} else {
		i = int32(len(s.entries))
		s.entries = append(s.entries, e)
	}
	s.buckets[b] = i
	s.count++
}

func (s *SpatialIndex) unlink(b uint32, i, prev int32) {
	if prev == noEntry {
		s.buckets[b] = s.entries[i].next
	} else {
		s.entries[prev].next = s.entries[i].next
	}
	s.entries[i] = entry{next: s.free}
	s.free = i
	s.count--
}

// valid reports whether occ is still usable. A root is valid while it has a
// live child; stale children are dropped along the way.
func (s *SpatialIndex) valid(occ Occupant) bool {
	if !occ.Root {
		return s.live.Alive(occ.ID)
	}
	if !s.roots.Alive(occ.ID) {
		return false
	}
	kids := s.children[occ.ID.Index()]
	n := 0
	for _, c := range kids {
		if s.live.Alive(c) {
			kids[n] = c
			n++
		}
	}
	s.children[occ.ID.Index()] = kids[:n]
	if n == 0 {
		s.releaseRoot(occ.ID)
		return false
	}
	return true
}

func (s *SpatialIndex) newRoot(a, b ecs.EntityID) ecs.EntityID {
	root := s.roots.Create()
	idx := int(root.Index())
	for len(s.children) <= idx {
		s.children = append(s.children, nil)
	}
	s.children[idx] = append(s.children[idx][:0], a, b)
	return root
}

func (s *SpatialIndex) releaseRoot(root ecs.EntityID) {
	if !s.roots.Alive(root) {
		return
	}
	s.children[root.Index()] = s.children[root.Index()][:0]
	s.roots.Destroy(root)
}

// Place records id at pos. An empty or stale entry is taken over directly,
// a single occupant is promoted to a root holding both, and a root gains id
// as a child. Placing an id already present is a no-op.
func (s *SpatialIndex) Place(pos WorldPosition, id ecs.EntityID) {
	b, i, _ := s.find(pos)
	if i == noEntry {
		s.insert(b, pos, Occupant{ID: id})
		return
	}
	e := &s.entries[i]
	switch {
	case !s.valid(e.occ):
		e.occ = Occupant{ID: id}
	case e.occ.Root:
		idx := e.occ.ID.Index()
		for _, c := range s.children[idx] {
			if c == id {
				return
			}
		}
		s.children[idx] = append(s.children[idx], id)
	case e.occ.ID != id:
		e.occ = Occupant{ID: s.newRoot(e.occ.ID, id), Root: true}
	}
}

// Remove detaches id from pos and reports whether it was there. A root is
// destroyed when its last child leaves; it is kept with a single child.
func (s *SpatialIndex) Remove(pos WorldPosition, id ecs.EntityID) bool {
	b, i, prev := s.find(pos)
	if i == noEntry {
		return false
	}
	e := &s.entries[i]
	if !e.occ.Root {
		if e.occ.ID == id {
			s.unlink(b, i, prev)
			return true
		}
		if !s.live.Alive(e.occ.ID) {
			s.unlink(b, i, prev)
		}
		return false
	}

	root := e.occ.ID
	kids := s.children[root.Index()]
	found := false
	for k, c := range kids {
		if c == id {
			kids = append(kids[:k], kids[k+1:]...)
			found = true
			break
		}
	}
	s.children[root.Index()] = kids
	if !s.valid(e.occ) {
		s.unlink(b, i, prev)
	}
	return found
}

// Move is Remove followed by Place.
func (s *SpatialIndex) Move(from, to WorldPosition, id ecs.EntityID) {
	if from == to {
		s.Place(to, id)
		return
	}
	s.Remove(from, id)
	s.Place(to, id)
}

// Lookup returns the occupant or root at pos. Stale entries found on the
// way are removed.
func (s *SpatialIndex) Lookup(pos WorldPosition) (Occupant, bool) {
	b, i, prev := s.find(pos)
	if i == noEntry {
		return Occupant{}, false
	}
	occ := s.entries[i].occ
	if !s.valid(occ) {
		s.unlink(b, i, prev)
		return Occupant{}, false
	}
	return occ, true
}

// Occupants expands the entry at pos into the live entities on it.
func (s *SpatialIndex) Occupants(pos WorldPosition) []ecs.EntityID {
	occ, ok := s.Lookup(pos)
	if !ok {
		return nil
	}
	if !occ.Root {
		return []ecs.EntityID{occ.ID}
	}
	kids := s.children[occ.ID.Index()]
	out := make([]ecs.EntityID, len(kids))
	copy(out, kids)
	return out
}

// Children lists a root's members, or nil if root is not a live root.
func (s *SpatialIndex) Children(root ecs.EntityID) []ecs.EntityID {
	if !s.roots.Alive(root) {
		return nil
	}
	kids := s.children[root.Index()]
	out := make([]ecs.EntityID, len(kids))
	copy(out, kids)
	return out
}
