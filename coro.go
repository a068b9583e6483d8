package resume

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"
)

var _ unsafe.Pointer

// coroutine represents a native Go coroutine instance. It's an opaque
// struct used by the runtime functions.
type coroutine struct{}

//go:linkname newcoro runtime.newcoro
func newcoro(func(*coroutine)) *coroutine

//go:linkname coroswitch runtime.coroswitch
func coroswitch(*coroutine)

// Lifecycle states of a computation. Transitions only ever move forward:
// created -> running -> suspended -> running -> ... -> closed, and nothing
// leaves closed.
const (
	stateCreated int32 = iota
	stateRunning
	stateSuspended
	stateClosed
)

// resumption is the input delivered at a suspension point: a value for
// Send/Next, an error for Throw, or a close signal.
type resumption[In any] struct {
	value In
	err   error
	close bool
}

// outcome is what a resume call observes after control returns: either a
// yielded value, or termination with an optional final value or error.
type outcome[Out any] struct {
	value Out
	err   error
	done  bool
}

// engine is the cell shared between the runtime coroutine, the handles and
// the reclaim cleanup. It must never reference the owning *computation:
// strong handles are the only thing that keeps a computation reachable, and
// reclamation is driven by the computation becoming unreachable while the
// engine (and the parked coroutine) live on.
//
// The in and out slots are unsynchronized by design. A resumer gains
// exclusive access by winning the state CAS to stateRunning; the coroutine
// body then executes on the resumer's own goroutine via coroswitch, and the
// follow-up state is stored only after coroswitch returns, so no second
// resumer can observe the slots mid-transfer.
type engine[In, Out any] struct {
	state atomic.Int32
	coro  *coroutine
	in    resumption[In]
	out   outcome[Out]
}

// init creates the runtime coroutine for body. The coroutine does not start
// executing until the first resume.
func (e *engine[In, Out]) init(body Body[In, Out], this Weak[In, Out]) {
	e.coro = newcoro(func(c *coroutine) {
		done := false
		defer func() {
			if done {
				return
			}
			if p := recover(); p != nil {
				if err, ok := p.(error); ok && errors.Is(err, ErrClosed) {
					e.out = outcome[Out]{done: true}
				} else {
					e.out = outcome[Out]{done: true, err: newPanicError(p)}
				}
			} else {
				e.out = outcome[Out]{done: true}
			}
		}()

		yield := func(v Out) (In, error) {
			if e.state.Load() == stateClosed {
				panic(fmt.Errorf("%w", ErrClosed))
			}
			e.out = outcome[Out]{value: v}
			coroswitch(c)
			in := e.in
			if in.close {
				panic(fmt.Errorf("%w", ErrClosed))
			}
			return in.value, in.err
		}

		v, err := body(this, yield)
		done = true
		e.out = outcome[Out]{value: v, err: err, done: true}
	})
}

// resume transfers control into the coroutine and returns what it observed.
// The caller must have moved state to stateRunning beforehand (by winning
// the CAS from stateSuspended, or from stateCreated for the initial run);
// resume stores the follow-up state before returning.
func (e *engine[In, Out]) resume(r resumption[In]) outcome[Out] {
	e.in = r
	coroswitch(e.coro)
	out := e.out
	if out.done {
		e.state.Store(stateClosed)
	} else {
		e.state.Store(stateSuspended)
	}
	return out
}

// computation is the identity object that handles refer to. It owns nothing
// but the engine pointer; neither the engine nor the running coroutine may
// point back at it, or the computation could never become unreachable.
type computation[In, Out any] struct {
	eng *engine[In, Out]
}
