package bus

// Bus is the minimal event-bus contract the coordinate manager depends on.
// Emit is fire-and-forget; handlers registered via On are invoked
// synchronously by the emitting call.
type Bus interface {
	Emit(event string, data any)
	On(event string, handler func(data any))
}

// InMemory is a synchronous in-process Bus. It is not safe for concurrent
// use; like the rest of the engine it assumes a single serialized caller.
type InMemory struct {
	handlers map[string][]func(any)
}

// NewInMemory creates an empty in-memory bus.
func NewInMemory() *InMemory {
	return &InMemory{handlers: map[string][]func(any){}}
}

// Emit invokes every handler registered for event, in registration order.
func (b *InMemory) Emit(event string, data any) {
	for _, h := range b.handlers[event] {
		h(data)
	}
}

// On registers handler for event.
func (b *InMemory) On(event string, handler func(data any)) {
	b.handlers[event] = append(b.handlers[event], handler)
}
