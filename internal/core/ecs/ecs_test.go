package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGenerations(t *testing.T) {
	p := NewEntityPoolSize(4)
	a := p.Create()
	require.False(t, a.IsZero())
	require.True(t, p.Alive(a))
	assert.Equal(t, 1, p.Len())

	p.Destroy(a)
	assert.False(t, p.Alive(a))
	assert.Zero(t, p.Len())
	// the next ID for the freed slot is not alive until handed out
	assert.False(t, p.Alive(NewEntityID(a.Index(), a.Generation()+1)))

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index())
	assert.Equal(t, a.Generation()+1, b.Generation())
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(a))

	// destroying a stale ID is a no-op
	p.Destroy(a)
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(NewEntityID(99, 1)))
}

func TestWorldFlushClearsComponents(t *testing.T) {
	w := NewWorld()
	store := NewPtrComponentStore[int]()
	other := NewPtrComponentStore[string]()
	w.Registry().Register(store)
	w.Registry().Register(other)

	id := w.CreateEntity()
	v, s := 7, "x"
	store.Set(id, &v)
	other.Set(id, &s)

	n := 0
	Each2(store, other, func(got EntityID, a *int, b *string) {
		assert.Equal(t, id, got)
		n++
	})
	assert.Equal(t, 1, n)

	w.MarkForDestruction(id)
	assert.True(t, w.Alive(id))
	assert.Equal(t, 1, w.Pending())
	w.FlushDestroyQueue()
	assert.False(t, w.Alive(id))
	_, ok := store.Get(id)
	assert.False(t, ok)
	assert.Zero(t, other.Len())
}

func TestStoreRemoveKeepsDenseOrder(t *testing.T) {
	store := NewPtrComponentStore[int]()
	marker := NewPtrComponentStore[bool]()
	ids := make([]EntityID, 4)
	for i := range ids {
		ids[i] = NewEntityID(uint32(i), 1)
		v, yes := i*10, true
		store.Set(ids[i], &v)
		marker.Set(ids[i], &yes)
	}

	// the last element fills the hole left by ids[1]
	store.Remove(ids[1])
	store.Remove(ids[1])
	require.Equal(t, 3, store.Len())
	v, ok := store.Get(ids[3])
	require.True(t, ok)
	assert.Equal(t, 30, *v)

	replaced := 99
	store.Set(ids[0], &replaced)
	assert.Equal(t, 3, store.Len())

	var order []EntityID
	Each2(store, marker, func(id EntityID, a *int, _ *bool) {
		order = append(order, id)
	})
	assert.Equal(t, []EntityID{ids[0], ids[3], ids[2]}, order)

	// the larger store on the left walks the right one instead
	order = order[:0]
	Each2(marker, store, func(id EntityID, _ *bool, a *int) {
		order = append(order, id)
	})
	assert.Equal(t, []EntityID{ids[0], ids[3], ids[2]}, order)
}
