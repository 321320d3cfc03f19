package ecs

// Registry lists the stores a World strips when it retires an entity.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll drops id from every registered store, in registration order.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
