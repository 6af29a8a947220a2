package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nalgeon/be"
)

func TestRunReturnsResult(t *testing.T) {
	got, err := Run(context.Background(), func() (int, error) { return 42, nil })
	be.Err(t, err, nil)
	be.Equal(t, got, 42)

	boom := errors.New("boom")
	_, err = Run(context.Background(), func() (string, error) { return "", boom })
	be.Err(t, err, boom)
}

func TestRunAbandonsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	got, err := Run(ctx, func() (int, error) {
		defer close(finished)
		<-release
		return 7, nil
	})
	be.Err(t, err, context.Canceled)
	be.Equal(t, got, 0)

	// The abandoned call still runs to completion.
	close(release)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("abandoned call did not finish")
	}
}

func TestRunSkipsDoneContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	called := false
	_, err := Run(ctx, func() (int, error) {
		called = true
		return 1, nil
	})
	be.Err(t, err, context.DeadlineExceeded)
	be.True(t, !called)
}
