package resume

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Forever disables the timeout of a wait operation.
const Forever time.Duration = -1

// waitPollInterval is how long a wait operation sleeps between attempts to
// claim the computation.
const waitPollInterval = time.Millisecond

// NextWait resumes the computation with the zero input value, waiting up to
// timeout for it to become suspended first. Pass Forever to wait without
// limit. It returns a *TimeoutError wrapping ErrWaitTimeout when the budget
// is exhausted, and ErrTerminated when the computation terminates or is
// reclaimed while waiting.
func (w Weak[In, Out]) NextWait(timeout time.Duration) (Result[Out], error) {
	return w.waitResume(resumption[In]{}, "next_wait", timeout)
}

// SendWait resumes the computation with v, waiting up to timeout for it to
// become suspended first. See NextWait for the timeout contract.
func (w Weak[In, Out]) SendWait(v In, timeout time.Duration) (Result[Out], error) {
	return w.waitResume(resumption[In]{value: v}, "send_wait", timeout)
}

// ThrowWait resumes the computation with err, waiting up to timeout for it to
// become suspended first. See NextWait for the timeout contract.
func (w Weak[In, Out]) ThrowWait(err error, timeout time.Duration) (Result[Out], error) {
	if err == nil {
		var zero Result[Out]
		return zero, throwNilError()
	}
	return w.waitResume(resumption[In]{err: err}, "throw_wait", timeout)
}

func (w Weak[In, Out]) waitResume(r resumption[In], op string, timeout time.Duration) (Result[Out], error) {
	c := w.ref.Value()
	if c == nil {
		var zero Result[Out]
		return zero, ErrTerminated
	}
	res, err := waitResumeComputation(context.Background(), c, w.cfg, w.mu, r, op, timeout)
	runtime.KeepAlive(c)
	return res, err
}

// NextWait resumes the computation with the zero input value, waiting up to
// timeout for it to become suspended first. See Weak.NextWait.
func (s Strong[In, Out]) NextWait(timeout time.Duration) (Result[Out], error) {
	return s.waitResume(resumption[In]{}, "next_wait", timeout)
}

// SendWait resumes the computation with v, waiting up to timeout for it to
// become suspended first. See Weak.NextWait for the timeout contract.
func (s Strong[In, Out]) SendWait(v In, timeout time.Duration) (Result[Out], error) {
	return s.waitResume(resumption[In]{value: v}, "send_wait", timeout)
}

// ThrowWait resumes the computation with err, waiting up to timeout for it to
// become suspended first. See Weak.NextWait for the timeout contract.
func (s Strong[In, Out]) ThrowWait(err error, timeout time.Duration) (Result[Out], error) {
	if err == nil {
		var zero Result[Out]
		return zero, throwNilError()
	}
	return s.waitResume(resumption[In]{err: err}, "throw_wait", timeout)
}

func (s Strong[In, Out]) waitResume(r resumption[In], op string, timeout time.Duration) (Result[Out], error) {
	if s.co == nil {
		var zero Result[Out]
		return zero, ErrTerminated
	}
	return waitResumeComputation(context.Background(), s.co, s.weak.cfg, s.weak.mu, r, op, timeout)
}

// waitResumeComputation polls until it claims the computation, the
// computation terminates, the timeout budget runs out, or ctx is canceled.
// Each attempt uses TryLock so a wait never blocks behind another operation's
// claim; only time spent polling counts against the budget, wall clock, the
// way a caller would measure it.
func waitResumeComputation[In, Out any](ctx context.Context, c *computation[In, Out], cfg handleConfig, mu *sync.Mutex, r resumption[In], op string, timeout time.Duration) (Result[Out], error) {
	var zero Result[Out]
	e := c.eng

	remaining := timeout
	for timeout < 0 || remaining > 0 {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		last := time.Now()
		if mu.TryLock() {
			claimed := e.state.CompareAndSwap(stateSuspended, stateRunning)
			closed := !claimed && e.state.Load() == stateClosed
			mu.Unlock()
			if claimed {
				if cfg.logger != nil {
					cfg.logger.Debug("resuming computation", zap.String("op", op))
				}
				return interpret(e.resume(r), cfg)
			}
			if closed {
				return zero, ErrTerminated
			}
		}

		time.Sleep(waitPollInterval)
		if timeout >= 0 {
			remaining -= time.Since(last)
		}
	}

	if cfg.logger != nil {
		cfg.logger.Debug("wait timed out",
			zap.String("op", op), zap.Duration("timeout", timeout))
	}
	return zero, &TimeoutError{Op: op, Timeout: timeout}
}
