package event

import (
	"reflect"
	"sync"
)

type queued struct {
	t  reflect.Type
	ev any
}

// Bus is a double-buffered event bus. Events emitted during step N are
// delivered by the Flush that ends step N, after all mutation has finished,
// so handlers never observe a half-applied move. Delivery follows emission
// order across all event types.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []queued
	back     []queued
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]any),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, queued{t: typeOf[T](), ev: event})
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Pending counts queued events of type T that have not been swapped in yet.
func Pending[T any](b *Bus) int {
	t := typeOf[T]()
	n := 0
	for _, q := range b.back {
		if q.t == t {
			n++
		}
	}
	return n
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
// Events emitted by handlers land in the back buffer for the next flush.
func (b *Bus) DispatchAll() {
	for _, q := range b.front {
		for _, h := range b.handlers[q.t] {
			callHandler(h, q.ev)
		}
	}
}

// Flush swaps and dispatches in one call.
func (b *Bus) Flush() {
	b.SwapBuffers()
	b.DispatchAll()
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
