package ecs

// Removable is what the Registry needs from a store to strip a retired
// entity.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore keeps one *T per entity in a sparse set: a dense slice
// for iteration and an index from entity to dense slot. Iteration follows
// insertion order, with a removal moving the last element into the hole, so
// the same sequence of calls always visits entities in the same order.
type PtrComponentStore[T any] struct {
	ids   []EntityID
	items []*T
	slot  map[EntityID]int
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{slot: make(map[EntityID]int)}
}

// Set stores c for id, replacing any previous value in place.
func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	if i, ok := s.slot[id]; ok {
		s.items[i] = c
		return
	}
	s.slot[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.items = append(s.items, c)
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.slot[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	i, ok := s.slot[id]
	if !ok {
		return
	}
	last := len(s.ids) - 1
	if i != last {
		s.ids[i], s.items[i] = s.ids[last], s.items[last]
		s.slot[s.ids[i]] = i
	}
	s.items[last] = nil
	s.ids, s.items = s.ids[:last], s.items[:last]
	delete(s.slot, id)
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.ids)
}
