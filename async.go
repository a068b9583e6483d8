package resume

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Waiter tracks a wait operation running on its own goroutine. The spawned
// goroutine holds a strong reference to the computation for as long as it
// runs, even when it was spawned from a weak handle.
type Waiter[Out any] struct {
	g      *errgroup.Group
	cancel context.CancelFunc
	res    Result[Out]
}

// Wait blocks until the spawned operation finishes and returns its outcome.
// It may be called more than once; every call reports the same result.
func (w *Waiter[Out]) Wait() (Result[Out], error) {
	err := w.g.Wait()
	w.cancel()
	if err != nil {
		var zero Result[Out]
		return zero, err
	}
	return w.res, nil
}

// Stop abandons the wait. The spawned goroutine notices the cancellation at
// its next polling step and finishes with context.Canceled, which a later
// Wait call reports. Stop does not affect the computation itself.
func (w *Waiter[Out]) Stop() {
	w.cancel()
}

// NextWaitAsync spawns NextWait on its own goroutine and returns immediately.
func (w Weak[In, Out]) NextWaitAsync(timeout time.Duration) *Waiter[Out] {
	return spawnWait(w.ref.Value(), w.cfg, w.mu, resumption[In]{}, "next_wait_async", timeout)
}

// SendWaitAsync spawns SendWait on its own goroutine and returns immediately.
func (w Weak[In, Out]) SendWaitAsync(v In, timeout time.Duration) *Waiter[Out] {
	return spawnWait(w.ref.Value(), w.cfg, w.mu, resumption[In]{value: v}, "send_wait_async", timeout)
}

// ThrowWaitAsync spawns ThrowWait on its own goroutine and returns
// immediately. A nil err is rejected up front; the returned Waiter reports it.
func (w Weak[In, Out]) ThrowWaitAsync(err error, timeout time.Duration) *Waiter[Out] {
	if err == nil {
		return failedWaiter[Out](throwNilError())
	}
	return spawnWait(w.ref.Value(), w.cfg, w.mu, resumption[In]{err: err}, "throw_wait_async", timeout)
}

// NextWaitAsync spawns NextWait on its own goroutine and returns immediately.
func (s Strong[In, Out]) NextWaitAsync(timeout time.Duration) *Waiter[Out] {
	return spawnWait(s.co, s.weak.cfg, s.weak.mu, resumption[In]{}, "next_wait_async", timeout)
}

// SendWaitAsync spawns SendWait on its own goroutine and returns immediately.
func (s Strong[In, Out]) SendWaitAsync(v In, timeout time.Duration) *Waiter[Out] {
	return spawnWait(s.co, s.weak.cfg, s.weak.mu, resumption[In]{value: v}, "send_wait_async", timeout)
}

// ThrowWaitAsync spawns ThrowWait on its own goroutine and returns
// immediately. A nil err is rejected up front; the returned Waiter reports it.
func (s Strong[In, Out]) ThrowWaitAsync(err error, timeout time.Duration) *Waiter[Out] {
	if err == nil {
		return failedWaiter[Out](throwNilError())
	}
	return spawnWait(s.co, s.weak.cfg, s.weak.mu, resumption[In]{err: err}, "throw_wait_async", timeout)
}

func spawnWait[In, Out any](c *computation[In, Out], cfg handleConfig, mu *sync.Mutex, r resumption[In], op string, timeout time.Duration) *Waiter[Out] {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	w := &Waiter[Out]{g: g, cancel: cancel}
	g.Go(func() error {
		if c == nil {
			return ErrTerminated
		}
		res, err := waitResumeComputation(ctx, c, cfg, mu, r, op, timeout)
		if err != nil {
			if cfg.logger != nil {
				cfg.logger.Warn("async wait failed",
					zap.String("op", op), zap.Error(err))
			}
			return err
		}
		w.res = res
		return nil
	})
	return w
}

func failedWaiter[Out any](err error) *Waiter[Out] {
	ctx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(ctx)
	w := &Waiter[Out]{g: g, cancel: cancel}
	g.Go(func() error { return err })
	return w
}
