// Package task ties in-flight requests to the lifetime of the view that started them.
package task

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Scope owns a set of goroutines. Close cancels them and waits for them to return.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
}

// NewScope derives a scope from parent.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel, g: &errgroup.Group{}}
}

// Context is cancelled when the scope closes.
func (s *Scope) Context() context.Context { return s.ctx }

// Go runs fn under the scope context. A failing task does not cancel its siblings.
// While the scope is open its error is handed to onErr (if non-nil) and kept for Wait;
// errors from tasks that end after Close are dropped.
func (s *Scope) Go(fn func(ctx context.Context) error, onErr func(error)) {
	s.g.Go(func() error {
		err := fn(s.ctx)
		if err == nil || s.ctx.Err() != nil {
			return nil
		}
		if onErr != nil {
			onErr(err)
		}
		return err
	})
}

// Wait blocks until every task started so far has returned and reports the first
// task error. The scope stays open.
func (s *Scope) Wait() error { return s.g.Wait() }

// Close cancels outstanding work and blocks until every task has returned.
func (s *Scope) Close() {
	s.cancel()
	_ = s.g.Wait()
}
