package ecs

// Each2 calls fn for every entity present in both stores. It walks the
// smaller store's dense slice, so the order is deterministic. fn must not
// add to or remove from either store.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for i, id := range sa.ids {
			if j, ok := sb.slot[id]; ok {
				fn(id, sa.items[i], sb.items[j])
			}
		}
		return
	}
	for j, id := range sb.ids {
		if i, ok := sa.slot[id]; ok {
			fn(id, sa.items[i], sb.items[j])
		}
	}
}
