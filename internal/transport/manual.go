package transport

import (
	"encoding/json"
	"sync"
)

// Manual is a Transport whose resources load only when told to. Tests use it
// to control delivery order.
type Manual struct {
	env Dispatcher

	mu        sync.Mutex
	attached  []*Script
	attachErr error
	history   []*Script
	closed    bool
}

// NewManual returns a Manual transport delivering into env.
func NewManual(env Dispatcher) *Manual { return &Manual{env: env} }

// SetAttachError makes subsequent Attach calls fail with err (nil resets).
func (m *Manual) SetAttachError(err error) {
	m.mu.Lock()
	m.attachErr = err
	m.mu.Unlock()
}

func (m *Manual) Attach(s *Script) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.attachErr != nil {
		return m.attachErr
	}
	m.attached = append(m.attached, s)
	m.history = append(m.history, s)
	return nil
}

func (m *Manual) Detach(s *Script) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.attached {
		if a == s {
			m.attached = append(m.attached[:i], m.attached[i+1:]...)
			return
		}
	}
}

func (m *Manual) Attached() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attached)
}

// Scripts returns every script ever attached, in attach order.
func (m *Manual) Scripts() []*Script {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Script(nil), m.history...)
}

// Last returns the most recently attached script, or nil.
func (m *Manual) Last() *Script {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return nil
	}
	return m.history[len(m.history)-1]
}

// Deliver runs s as if its response had arrived with payload. It reports
// whether a hook was still registered for s.
func (m *Manual) Deliver(s *Script, payload json.RawMessage) bool {
	return m.env.Invoke(s.Hook, payload)
}

// Fail reports a load failure for s.
func (m *Manual) Fail(s *Script, err error) { s.Fail(err) }

// Close fails every attached script with ErrClosed, as JSONP does for
// fetches still in flight. Later Attach calls return ErrClosed.
func (m *Manual) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	pending := append([]*Script(nil), m.attached...)
	m.mu.Unlock()
	for _, s := range pending {
		s.Fail(ErrClosed)
	}
	return nil
}
