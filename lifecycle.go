package resume

// reclaimArgs is what the garbage collector hands to reclaim once a
// computation's identity object is unreachable. It must not reference the
// computation; the weak handle inside it is already dead when reclaim runs.
type reclaimArgs[In, Out any] struct {
	eng      *engine[In, Out]
	finalize func(Ref)
	ref      Weak[In, Out]
}

// reclaim runs after the last strong handle to a computation is gone. If the
// computation is still suspended it receives the same close signal Close
// would deliver, so deferred cleanup inside the body runs before its
// resources are released. The finalize hook fires afterwards, exactly once,
// whether or not the computation was still suspended.
func reclaim[In, Out any](a reclaimArgs[In, Out]) {
	e := a.eng
	log := a.ref.cfg.logger
	if e.state.CompareAndSwap(stateSuspended, stateRunning) {
		if log != nil {
			log.Debug("delivering close to reclaimed computation")
		}
		out := e.resume(resumption[In]{close: true})
		if !out.done {
			// Nothing can legally resume it anymore; the coroutine is
			// abandoned in its suspended state.
			if log != nil {
				log.Warn("reclaimed computation ignored close")
			}
		}
	}
	if a.finalize != nil {
		if log != nil {
			log.Debug("running finalize hook")
		}
		a.finalize(a.ref)
	}
}
