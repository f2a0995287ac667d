package script

import (
	"context"
	"sync/atomic"
)

// CancelToken is the per-job stop flag shared between the controller and
// the worker. It doubles as a context so blocking calls can select on it.
type CancelToken struct {
	ctx    context.Context
	cancel context.CancelFunc
	set    atomic.Bool
}

// NewCancelToken returns a clear token
func NewCancelToken() *CancelToken {
	ctx, cancel := context.WithCancel(context.Background())
	return &CancelToken{ctx: ctx, cancel: cancel}
}

// Set raises the flag; it is idempotent
func (t *CancelToken) Set() {
	t.set.Store(true)
	t.cancel()
}

// IsSet reports whether the flag has been raised
func (t *CancelToken) IsSet() bool {
	return t.set.Load()
}

// Done is closed once the flag is raised
func (t *CancelToken) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Context is cancelled when the flag is raised
func (t *CancelToken) Context() context.Context {
	return t.ctx
}
