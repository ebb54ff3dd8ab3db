package controllers

import (
	"context"
	"sync"
)

// Operation is the handle of one background Refresh or Toggle.
type Operation struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newOperation() *Operation {
	return &Operation{done: make(chan struct{})}
}

func (o *Operation) finish(err error) {
	o.once.Do(func() {
		o.err = err
		close(o.done)
	})
}

// Done is closed once the operation has committed its result.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Err returns the operation's error. It is nil until Done is closed.
func (o *Operation) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Wait blocks until the operation finishes or ctx ends. Abandoning the wait
// does not cancel the request.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
