// Package transport provides the resources a loader attaches to fetch a
// listing through a hook-calling (JSONP) endpoint, and the transports that
// load them.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Attach once a transport has been closed.
var ErrClosed = errors.New("transport closed")

// Dispatcher is the environment a loaded resource calls back into. It invokes
// the hook registered under name and reports whether one existed.
type Dispatcher interface {
	Invoke(name string, payload json.RawMessage) bool
}

// Transport loads Scripts asynchronously. Attach must not block on the
// network; the outcome is a hook invocation through the Dispatcher or a call
// to Script.Fail.
type Transport interface {
	Attach(s *Script) error
	Detach(s *Script)
	Attached() int
}

// Script is one transport resource: an address whose response calls Hook.
type Script struct {
	Src  string
	Hook string
	// OnError is called at most once, when the resource cannot be loaded.
	OnError func(error)

	failOnce sync.Once
}

// Fail reports a load failure to OnError. Calls after the first are ignored.
func (s *Script) Fail(err error) {
	s.failOnce.Do(func() {
		if s.OnError != nil {
			s.OnError(err)
		}
	})
}

// StatusError reports a non-2xx response from the endpoint.
type StatusError struct {
	Code int
	Src  string
}

func (e *StatusError) Error() string { return fmt.Sprintf("unexpected status %d from %s", e.Code, e.Src) }
