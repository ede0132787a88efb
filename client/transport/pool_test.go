package transport

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_NoWorkAfterClose(t *testing.T) {
	for range 50 {
		p := newPool(0)

		var closed atomic.Bool
		var late atomic.Int32

		var submitters sync.WaitGroup
		for range 8 {
			submitters.Add(1)
			go func() {
				defer submitters.Done()
				for range 50 {
					p.start(context.Background(),
						func() {
							if closed.Load() {
								late.Add(1)
							}
						},
						func(err error) {
							if !errors.Is(err, ErrClosed) {
								t.Errorf("exp ErrClosed, got: %v", err)
							}
						},
					)
				}
			}()
		}

		p.close()
		closed.Store(true)
		submitters.Wait()

		if n := late.Load(); n != 0 {
			t.Fatalf("%d tasks ran after close returned", n)
		}
	}
}

func TestPool_RejectsAfterClose(t *testing.T) {
	p := newPool(1)
	p.close()

	done := make(chan error, 1)
	p.start(context.Background(),
		func() { done <- nil },
		func(err error) { done <- err },
	)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Errorf("exp ErrClosed, got: %v", err)
	}
}
