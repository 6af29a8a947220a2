// Package dispatch runs blocking address-book calls off the caller's
// goroutine so that a request can stop waiting for them.
//
// Scans in package contacts are not interruptible. Run gives the caller a
// way to give up: when ctx ends first, Run returns ctx.Err() right away and
// the result of the still running call is dropped once it completes.
package dispatch

import "context"

type result[T any] struct {
	v   T
	err error
}

// Run calls fn on a new goroutine and returns its result, or ctx.Err() if ctx
// is done before fn returns. fn is not called when ctx is already done.
func Run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	// Buffered so the goroutine never blocks after the caller has left.
	done := make(chan result[T], 1)
	go func() {
		v, err := fn()
		done <- result[T]{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
