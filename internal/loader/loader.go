// Package loader fetches a collection's listing through a hook-calling
// transport and guarantees that only the most recently requested listing is
// delivered.
//
// Each Load issues a token from the Coordinator, registers a completion hook
// named after it and attaches a transport Script addressed to the endpoint.
// When the hook fires, or the script fails, the hook is unregistered and the
// script detached first; the Pending is settled afterwards, and only if the
// token is still current. Deliveries for superseded tokens are dropped
// without touching any caller-visible state.
//
// The loader does not log. Outcomes are reported through an EventPublisher
// and the storyfeed_loader_* Prometheus metrics.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"storyfeed/internal/coordinator"
	"storyfeed/internal/transport"
	"storyfeed/pkg/types"
)

// DefaultHookPrefix prefixes every completion hook name.
const DefaultHookPrefix = "fnStoryList"

// Options configures a Loader. Coordinator and Transport are required, and
// the Transport must dispatch into the same Coordinator.
type Options struct {
	// Name labels metrics and events, e.g. "stories".
	Name string
	// Subject is used in user-facing error messages; defaults to Name.
	Subject     string
	Coordinator *coordinator.Coordinator
	Transport   transport.Transport
	Endpoint    Endpoint
	HookPrefix  string
	Publisher   EventPublisher
}

// Loader loads listings of items of type T.
type Loader[T any] struct {
	name       string
	subject    string
	coord      *coordinator.Coordinator
	tr         transport.Transport
	endpoint   Endpoint
	hookPrefix string
	pub        EventPublisher
}

// New constructs a Loader. It panics if Coordinator or Transport is nil.
func New[T any](opts Options) *Loader[T] {
	if opts.Coordinator == nil {
		panic("loader: nil Coordinator")
	}
	if opts.Transport == nil {
		panic("loader: nil Transport")
	}
	l := &Loader[T]{
		name:       opts.Name,
		subject:    opts.Subject,
		coord:      opts.Coordinator,
		tr:         opts.Transport,
		endpoint:   opts.Endpoint,
		hookPrefix: opts.HookPrefix,
		pub:        opts.Publisher,
	}
	if l.name == "" {
		l.name = "stories"
	}
	if l.subject == "" {
		l.subject = l.name
	}
	if l.hookPrefix == "" {
		l.hookPrefix = DefaultHookPrefix
	}
	if l.pub == nil {
		l.pub = noopPublisher{}
	}
	return l
}

func (l *Loader[T]) Name() string                          { return l.name }
func (l *Loader[T]) Coordinator() *coordinator.Coordinator { return l.coord }
func (l *Loader[T]) Transport() transport.Transport        { return l.tr }

// Fetch loads collection and waits for the result.
func (l *Loader[T]) Fetch(ctx context.Context, collection string) ([]T, error) {
	return l.Load(collection).Wait(ctx)
}

// Load starts loading collection and supersedes any load still in flight.
// An empty collection yields an already rejected Pending and no resource.
func (l *Loader[T]) Load(collection string) *Pending[T] {
	if strings.TrimSpace(collection) == "" {
		p := newPending[T](collection, 0, nil)
		p.settle(nil, &InvalidInputError{Reason: fmt.Sprintf("no collection to load %s for", l.subject)})
		l.record(EventInvalid, "invalid", collection, 0, nil)
		return p
	}

	tok, superseded := l.coord.Begin()
	hook := l.hookPrefix + tok.String()
	p := newPending[T](collection, tok, superseded)
	script := &transport.Script{Hook: hook}
	l.record(EventStart, "issued", collection, tok, map[string]any{"hook": hook})

	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			if l.coord.Unregister(hook) {
				hooksRegistered.WithLabelValues(l.name).Dec()
			}
			l.tr.Detach(script)
		})
	}

	fail := func(cause error) {
		cleanup()
		terr := &TransportError{Collection: collection, Subject: l.subject, Err: cause}
		l.finish(p, tok, nil, terr)
	}
	script.OnError = fail

	src, err := l.endpoint.URL(collection, hook)
	if err != nil {
		fail(err)
		return p
	}
	script.Src = src

	err = l.coord.Register(hook, func(payload json.RawMessage) {
		cleanup()
		items, derr := decodeListing[T](payload)
		if derr != nil {
			l.finish(p, tok, nil, &TransportError{Collection: collection, Subject: l.subject, Err: derr})
			return
		}
		l.finish(p, tok, items, nil)
	})
	if err != nil {
		fail(err)
		return p
	}
	hooksRegistered.WithLabelValues(l.name).Inc()

	if err := l.tr.Attach(script); err != nil {
		fail(err)
	}
	return p
}

// finish settles p if tok is still current, and records the outcome.
func (l *Loader[T]) finish(p *Pending[T], tok coordinator.Token, items []T, err error) {
	settled := false
	current := l.coord.Settle(tok, func() { settled = p.settle(items, err) })
	switch {
	case !current:
		fields := map[string]any{}
		if err != nil {
			fields["err"] = err.Error()
		}
		l.record(EventDiscarded, "discarded", p.collection, tok, fields)
	case !settled:
		// already settled by an earlier delivery or failure of the same script
	case err != nil:
		l.record(EventFailed, "failed", p.collection, tok, map[string]any{"err": err.Error()})
	default:
		l.record(EventFulfilled, "fulfilled", p.collection, tok, map[string]any{"items": len(items)})
	}
}

func (l *Loader[T]) record(event, outcome, collection string, tok coordinator.Token, fields map[string]any) {
	loadsTotal.WithLabelValues(l.name, outcome).Inc()
	l.pub.Publish(Event{Name: event, Loader: l.name, Collection: collection, Token: uint64(tok), Fields: fields})
}

func decodeListing[T any](payload json.RawMessage) ([]T, error) {
	var listing types.Listing[T]
	if err := json.Unmarshal(payload, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	if listing.Kind != "" && listing.Kind != types.ListingKind {
		return nil, fmt.Errorf("decode listing: unexpected kind %q", listing.Kind)
	}
	if listing.Data.Children == nil {
		return []T{}, nil
	}
	return listing.Data.Children, nil
}
