package resume

import (
	"fmt"
	"runtime"
	"sync"
	"weak"

	"go.uber.org/zap"
)

// Body is the linear logic of a suspended computation. It receives a weak
// handle to itself and a yield function marking its suspension points, and
// finishes by returning a final value or an error.
//
// Holding a strong handle in the body's own persistent state is a foot-gun:
// the computation then keeps its own keep-alive reference reachable and can
// never be reclaimed. Convert to a strong handle only to pass it (or one of
// its bound operations) out to a callback API.
type Body[In, Out any] func(this Weak[In, Out], yield Yield[In, Out]) (Out, error)

// Yield suspends the computation, handing out to whichever resume call is in
// flight. It returns the value delivered by Next or Send, or the error
// delivered by Throw; the body may handle that error and continue, or return
// it to terminate. When the computation is closed, Yield panics with an
// error wrapping ErrClosed so deferred cleanup runs.
type Yield[In, Out any] func(out Out) (In, error)

// ResultKind discriminates what a resume operation observed.
type ResultKind uint8

const (
	// Yielded means the computation suspended again and Value holds what
	// it yielded.
	Yielded ResultKind = iota + 1
	// Completed means the computation terminated normally and Value holds
	// its final value.
	Completed
)

func (k ResultKind) String() string {
	switch k {
	case Yielded:
		return "yielded"
	case Completed:
		return "completed"
	default:
		return "invalid"
	}
}

// Result is the successful outcome of a resume operation. Errors raised
// inside the computation propagate through the error return of the
// operation instead.
type Result[Out any] struct {
	Value Out
	Kind  ResultKind
}

// Weak is a resumption handle that observes a computation without keeping it
// alive. All operations fail with ErrTerminated once the computation has
// been reclaimed.
//
// Handles are value types and comparable: two Weak handles are equal exactly
// when they were derived from the same computation and carry the same
// configuration. Conversions via WithStrongRef/WithWeakRef preserve the weak
// slot, the configuration and the wait mutex, so a round-tripped handle
// compares equal to the original.
type Weak[In, Out any] struct {
	ref weak.Pointer[computation[In, Out]]
	cfg handleConfig
	mu  *sync.Mutex
}

// Strong is a resumption handle that keeps its computation alive. Dropping
// the last Strong handle makes the computation eligible for reclamation.
type Strong[In, Out any] struct {
	weak Weak[In, Out]
	co   *computation[In, Out]
}

// Next resumes the computation with the zero input value.
func (w Weak[In, Out]) Next() (Result[Out], error) {
	return w.resume(resumption[In]{}, "next")
}

// Send resumes the computation, delivering v at its suspension point.
func (w Weak[In, Out]) Send(v In) (Result[Out], error) {
	return w.resume(resumption[In]{value: v}, "send")
}

// Throw resumes the computation, delivering err at its suspension point. The
// body may observe the error and continue, or return it, in which case Throw
// returns the same error.
func (w Weak[In, Out]) Throw(err error) (Result[Out], error) {
	if err == nil {
		var zero Result[Out]
		return zero, throwNilError()
	}
	return w.resume(resumption[In]{err: err}, "throw")
}

// Close requests forced termination. A suspended computation receives an
// ErrClosed panic at its suspension point; deferred cleanup inside the body
// runs before Close returns. Closing an already-terminated computation whose
// handle is still retrievable is a no-op. If the body swallows the signal
// and yields again, Close reports a contract violation wrapping
// ErrInvalidState.
func (w Weak[In, Out]) Close() error {
	c := w.ref.Value()
	if c == nil {
		return ErrTerminated
	}
	err := closeComputation(c, w.cfg, w.mu)
	runtime.KeepAlive(c)
	return err
}

// CanResume reports whether the computation is suspended and may be resumed.
func (w Weak[In, Out]) CanResume() bool {
	c := w.ref.Value()
	if c == nil {
		return false
	}
	ok := c.eng.state.Load() == stateSuspended
	runtime.KeepAlive(c)
	return ok
}

// HasTerminated reports whether the computation is unreachable or closed.
func (w Weak[In, Out]) HasTerminated() bool {
	c := w.ref.Value()
	if c == nil {
		return true
	}
	closed := c.eng.state.Load() == stateClosed
	runtime.KeepAlive(c)
	return closed
}

// WithWeakRef returns the handle itself.
func (w Weak[In, Out]) WithWeakRef() Weak[In, Out] {
	return w
}

// WithStrongRef returns an equivalent strong handle. If the computation has
// already been reclaimed the strong handle is empty and every operation on
// it fails with ErrTerminated.
func (w Weak[In, Out]) WithStrongRef() Strong[In, Out] {
	return Strong[In, Out]{weak: w, co: w.ref.Value()}
}

func (w Weak[In, Out]) resume(r resumption[In], op string) (Result[Out], error) {
	c := w.ref.Value()
	if c == nil {
		var zero Result[Out]
		return zero, ErrTerminated
	}
	res, err := resumeComputation(c, w.cfg, w.mu, r, op)
	runtime.KeepAlive(c)
	return res, err
}

// Next resumes the computation with the zero input value.
func (s Strong[In, Out]) Next() (Result[Out], error) {
	return s.resume(resumption[In]{}, "next")
}

// Send resumes the computation, delivering v at its suspension point.
func (s Strong[In, Out]) Send(v In) (Result[Out], error) {
	return s.resume(resumption[In]{value: v}, "send")
}

// Throw resumes the computation, delivering err at its suspension point.
func (s Strong[In, Out]) Throw(err error) (Result[Out], error) {
	if err == nil {
		var zero Result[Out]
		return zero, throwNilError()
	}
	return s.resume(resumption[In]{err: err}, "throw")
}

// Close requests forced termination. See Weak.Close.
func (s Strong[In, Out]) Close() error {
	if s.co == nil {
		return ErrTerminated
	}
	return closeComputation(s.co, s.weak.cfg, s.weak.mu)
}

// CanResume reports whether the computation is suspended and may be resumed.
func (s Strong[In, Out]) CanResume() bool {
	return s.co != nil && s.co.eng.state.Load() == stateSuspended
}

// HasTerminated reports whether the computation is unreachable or closed.
func (s Strong[In, Out]) HasTerminated() bool {
	return s.co == nil || s.co.eng.state.Load() == stateClosed
}

// WithStrongRef returns the handle itself.
func (s Strong[In, Out]) WithStrongRef() Strong[In, Out] {
	return s
}

// WithWeakRef returns the equivalent weak handle. The weak slot is the one
// allocated when the computation was started; conversions never allocate a
// new slot, so equality and the finalize hook binding survive round trips.
func (s Strong[In, Out]) WithWeakRef() Weak[In, Out] {
	return s.weak
}

func (s Strong[In, Out]) resume(r resumption[In], op string) (Result[Out], error) {
	if s.co == nil {
		var zero Result[Out]
		return zero, ErrTerminated
	}
	return resumeComputation(s.co, s.weak.cfg, s.weak.mu, r, op)
}

// resumeComputation performs the check-and-claim step under the handle mutex
// and, having won the state CAS, runs the computation on the calling
// goroutine. The mutex is never held across the body's execution: a resume
// issued from inside the computation fails fast on the CAS instead of
// deadlocking.
func resumeComputation[In, Out any](c *computation[In, Out], cfg handleConfig, mu *sync.Mutex, r resumption[In], op string) (Result[Out], error) {
	var zero Result[Out]
	e := c.eng

	mu.Lock()
	if !e.state.CompareAndSwap(stateSuspended, stateRunning) {
		st := e.state.Load()
		mu.Unlock()
		if st == stateClosed {
			return zero, ErrTerminated
		}
		return zero, ErrInvalidState
	}
	mu.Unlock()

	if cfg.logger != nil {
		cfg.logger.Debug("resuming computation", zap.String("op", op))
	}
	return interpret(e.resume(r), cfg)
}

func closeComputation[In, Out any](c *computation[In, Out], cfg handleConfig, mu *sync.Mutex) error {
	e := c.eng

	mu.Lock()
	if !e.state.CompareAndSwap(stateSuspended, stateRunning) {
		st := e.state.Load()
		mu.Unlock()
		if st == stateClosed {
			return nil
		}
		return ErrInvalidState
	}
	mu.Unlock()

	if cfg.logger != nil {
		cfg.logger.Debug("closing computation")
	}
	out := e.resume(resumption[In]{close: true})
	if !out.done {
		return fmt.Errorf("%w: computation ignored close", ErrInvalidState)
	}
	return out.err
}

// interpret maps an engine outcome to the public result surface.
func interpret[Out any](out outcome[Out], cfg handleConfig) (Result[Out], error) {
	var zero Result[Out]
	if !out.done {
		return Result[Out]{Kind: Yielded, Value: out.value}, nil
	}
	if out.err != nil {
		return zero, out.err
	}
	if cfg.propagateCompletion {
		return zero, &CompletionError[Out]{Value: out.value}
	}
	return Result[Out]{Kind: Completed, Value: out.value}, nil
}
