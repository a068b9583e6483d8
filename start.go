package resume

import (
	"fmt"
	"runtime"
	"sync"
	"weak"
)

// Start runs body on its own coroutine until the first suspension point (or
// completion) and returns a strong handle to it. The body receives a weak
// handle to itself as its first argument, before any resume call can be
// issued, and typically passes that handle (or a bound operation of a strong
// conversion) into callback-registration APIs.
//
// If the computation completes before ever suspending, Start still returns a
// handle; the handle reports HasTerminated. A completion error or body error
// raised during this first run is returned alongside it.
func Start[In, Out any](body Body[In, Out], opts ...Option) (Strong[In, Out], error) {
	c, h, out, err := launch(body, opts)
	if err != nil {
		return Strong[In, Out]{}, err
	}
	s := Strong[In, Out]{weak: h, co: c}
	if out.done {
		if out.err != nil {
			return s, out.err
		}
		if h.cfg.propagateCompletion {
			return s, &CompletionError[Out]{Value: out.value}
		}
	}
	return s, nil
}

// StartValue is Start for computations whose first yielded value is the
// caller's actual return value. It hands back that value together with only
// a weak handle: the computation stays alive solely through the strong
// references it registered with callback APIs before its first suspension
// point, and is reclaimed as soon as none remain.
func StartValue[In, Out any](body Body[In, Out], opts ...Option) (Out, Weak[In, Out], error) {
	var zero Out
	c, h, out, err := launch(body, opts)
	if err != nil {
		return zero, Weak[In, Out]{}, err
	}
	if out.done && out.err != nil {
		runtime.KeepAlive(c)
		return zero, h, out.err
	}
	if out.done && h.cfg.propagateCompletion {
		runtime.KeepAlive(c)
		return zero, h, &CompletionError[Out]{Value: out.value}
	}
	runtime.KeepAlive(c)
	return out.value, h, nil
}

func launch[In, Out any](body Body[In, Out], opts []Option) (*computation[In, Out], Weak[In, Out], outcome[Out], error) {
	var none outcome[Out]
	if body == nil {
		return nil, Weak[In, Out]{}, none, fmt.Errorf("%w: nil computation body", ErrInvalidArgument)
	}

	var cfg Config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	e := &engine[In, Out]{}
	c := &computation[In, Out]{eng: e}
	h := Weak[In, Out]{
		ref: weak.Make(c),
		cfg: handleConfig{propagateCompletion: cfg.PropagateCompletion, logger: cfg.Logger},
		mu:  &sync.Mutex{},
	}
	e.init(body, h)

	// The cleanup arguments reference the engine and the weak slot, never
	// the computation itself, so registration does not pin it.
	runtime.AddCleanup(c, reclaim[In, Out], reclaimArgs[In, Out]{
		eng:      e,
		finalize: cfg.Finalize,
		ref:      h,
	})

	if cfg.Logger != nil {
		cfg.Logger.Debug("starting computation")
	}
	e.state.CompareAndSwap(stateCreated, stateRunning)
	out := e.resume(resumption[In]{})
	return c, h, out, nil
}
