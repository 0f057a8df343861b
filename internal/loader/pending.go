package loader

import (
	"context"
	"sync"

	"storyfeed/internal/coordinator"
)

// Pending is the single-shot result of one Load. It settles at most once.
type Pending[T any] struct {
	collection string
	token      coordinator.Token
	superseded <-chan struct{}

	once  sync.Once
	done  chan struct{}
	items []T
	err   error
}

func newPending[T any](collection string, tok coordinator.Token, superseded <-chan struct{}) *Pending[T] {
	return &Pending[T]{
		collection: collection,
		token:      tok,
		superseded: superseded,
		done:       make(chan struct{}),
	}
}

// settle records the outcome; it reports false if p had already settled.
func (p *Pending[T]) settle(items []T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.items, p.err = items, err
		close(p.done)
		settled = true
	})
	return settled
}

func (p *Pending[T]) Collection() string { return p.collection }

// Token is zero for loads rejected before a token was issued.
func (p *Pending[T]) Token() coordinator.Token { return p.token }

// Done is closed once the result settles.
func (p *Pending[T]) Done() <-chan struct{} { return p.done }

// Superseded is closed once a newer load replaces this one. It is nil for
// loads rejected before a token was issued.
func (p *Pending[T]) Superseded() <-chan struct{} { return p.superseded }

// Result returns the settled outcome. Only meaningful after Done is closed.
func (p *Pending[T]) Result() ([]T, error) {
	select {
	case <-p.done:
		return p.items, p.err
	default:
		return nil, nil
	}
}

// Wait blocks until the result settles or ctx is done. A superseded request
// never settles, so Wait only returns for it through ctx.
func (p *Pending[T]) Wait(ctx context.Context) ([]T, error) {
	select {
	case <-p.done:
		return p.items, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Await is Wait that also gives up with ErrSuperseded once a newer load
// replaced this one. A result that settled before supersession still wins.
func (p *Pending[T]) Await(ctx context.Context) ([]T, error) {
	select {
	case <-p.done:
		return p.items, p.err
	case <-p.superseded:
		select {
		case <-p.done:
			return p.items, p.err
		default:
			return nil, ErrSuperseded
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
