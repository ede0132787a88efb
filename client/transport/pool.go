package transport

import (
	"context"
	"sync"
	"sync/atomic"
)

// pool runs submitted work on its own goroutines with an optional cap
// on how many run at once.
type pool struct {
	mu       sync.Mutex
	wg       sync.WaitGroup
	sem      chan struct{}
	shutdown atomic.Bool
}

// newPool creates a pool. If maxInFlight <= 0, concurrency is unlimited.
func newPool(maxInFlight int) *pool {
	p := &pool{}
	if maxInFlight > 0 {
		p.sem = make(chan struct{}, maxInFlight)
	}
	return p
}

// start launches fn in a new goroutine once a slot is free. If the pool
// is shut down, or ctx ends while waiting for a slot, reject is called
// instead. Exactly one of fn or reject runs.
func (p *pool) start(ctx context.Context, fn func(), reject func(error)) {
	// The shutdown check and wg.Add happen under mu so close cannot start
	// waiting between them.
	p.mu.Lock()
	if p.shutdown.Load() {
		p.mu.Unlock()
		go reject(ErrClosed)
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		if p.sem != nil {
			select {
			case p.sem <- struct{}{}:
				defer func() {
					<-p.sem
				}()
			case <-ctx.Done():
				reject(ctx.Err())
				return
			}
		}

		if p.shutdown.Load() {
			reject(ErrClosed)
			return
		}

		fn()
	}()
}

// close prevents new work from starting and waits for in-flight work.
func (p *pool) close() {
	p.mu.Lock()
	p.shutdown.Store(true)
	p.mu.Unlock()

	p.wg.Wait()
}
