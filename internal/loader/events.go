package loader

import "sync"

// Event names published by a Loader.
const (
	EventStart     = "load_start"
	EventFulfilled = "load_fulfilled"
	EventFailed    = "load_failed"
	EventDiscarded = "load_discarded"
	EventInvalid   = "load_invalid"
)

// Event represents a loader lifecycle event.
// Minimal and stable: name + loader/collection/token and optional fields.
type Event struct {
	Name       string
	Loader     string
	Collection string
	Token      uint64
	Fields     map[string]any
}

// EventPublisher receives events from a loader. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MemoryPublisher stores events in-memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Names returns the names of the recorded events in order.
func (p *MemoryPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Name
	}
	return out
}
