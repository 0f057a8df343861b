package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is cancelled on shutdown so waiting handlers return at once.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context; nil resets it.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// joinContexts derives from a a context that is also cancelled when b is done.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// requestContext is the context a handler waits on: the request joined with
// the server base context, bounded by the wait timeout if one is set.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(r.Context(), serverBaseCtx)
	if waitTimeout <= 0 {
		return ctx, cancel
	}
	tctx, tcancel := context.WithTimeout(ctx, waitTimeout)
	return tctx, func() {
		tcancel()
		cancel()
	}
}
