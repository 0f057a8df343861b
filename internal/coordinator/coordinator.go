// Package coordinator owns the per-environment state a single-flight loader
// needs: which request token is current, and which completion hooks are
// registered under which names.
//
// A Coordinator stands in for the browser window a JSONP loader would mutate:
// instead of a global current-token slot and dynamically named properties on a
// shared object, callers get explicit Begin/Settle and Register/Unregister
// calls. Independent loaders use independent coordinators.
package coordinator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Token identifies one logical load. Tokens issued by one Coordinator are
// strictly increasing and never reused.
type Token uint64

func (t Token) String() string { return strconv.FormatUint(uint64(t), 10) }

// Hook receives the payload delivered by a transport resource.
type Hook func(payload json.RawMessage)

// Coordinator is safe for concurrent use.
type Coordinator struct {
	mu         sync.Mutex
	now        func() time.Time
	last       Token
	current    Token
	hasCurrent bool
	superseded chan struct{}
	hooks      map[string]Hook
}

// New returns a Coordinator whose tokens derive from the wall clock.
func New() *Coordinator { return NewWithClock(time.Now) }

// NewWithClock returns a Coordinator deriving tokens from now. Tokens stay
// monotonic even if now stalls or goes backwards.
func NewWithClock(now func() time.Time) *Coordinator {
	if now == nil {
		now = time.Now
	}
	return &Coordinator{now: now, hooks: make(map[string]Hook)}
}

// Begin issues a fresh token and publishes it as current. The returned channel
// is closed once a later Begin supersedes the token.
func (c *Coordinator) Begin() (Token, <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tok := Token(c.now().UnixNano())
	if tok <= c.last {
		tok = c.last + 1
	}
	c.last = tok
	if c.superseded != nil {
		close(c.superseded)
	}
	c.current = tok
	c.hasCurrent = true
	c.superseded = make(chan struct{})
	return tok, c.superseded
}

// Current returns the current token, if any request has been issued.
func (c *Coordinator) Current() (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.hasCurrent
}

// IsCurrent reports whether tok is the most recently issued token.
func (c *Coordinator) IsCurrent(tok Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasCurrent && c.current == tok
}

// Settle runs fn if tok is still current at the time of the call. fn runs
// under the coordinator lock so no Begin can interleave with it; it must not
// call back into the Coordinator.
func (c *Coordinator) Settle(tok Token, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasCurrent || c.current != tok {
		return false
	}
	fn()
	return true
}

// Register installs h under name. Names must be unique among live hooks.
func (c *Coordinator) Register(name string, h Hook) error {
	if name == "" {
		return fmt.Errorf("empty hook name")
	}
	if h == nil {
		return fmt.Errorf("nil hook for %q", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.hooks[name]; ok {
		return fmt.Errorf("hook already registered: %s", name)
	}
	c.hooks[name] = h
	return nil
}

// Unregister removes the hook registered under name and reports whether one
// was present.
func (c *Coordinator) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.hooks[name]; !ok {
		return false
	}
	delete(c.hooks, name)
	return true
}

// Invoke calls the hook registered under name with payload. It returns false
// when no such hook exists, which is what a late delivery to an already
// cleaned up request looks like. The hook runs without the lock held.
func (c *Coordinator) Invoke(name string, payload json.RawMessage) bool {
	c.mu.Lock()
	h, ok := c.hooks[name]
	c.mu.Unlock()
	if !ok {
		return false
	}
	h(payload)
	return true
}

// Hooks returns the names of all registered hooks in sorted order.
func (c *Coordinator) Hooks() []string {
	c.mu.Lock()
	out := make([]string, 0, len(c.hooks))
	for name := range c.hooks {
		out = append(out, name)
	}
	c.mu.Unlock()
	sort.Strings(out)
	return out
}
