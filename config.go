package resume

import "go.uber.org/zap"

// Ref is the read-only view of a computation handed to a finalize hook. The
// hook always observes a dead slot: by the time it runs, the computation has
// been reclaimed, so HasTerminated reports true and CanResume reports false.
type Ref interface {
	CanResume() bool
	HasTerminated() bool
}

// Config controls how Start wires a computation. The record is fixed at
// construction time; handles never expose it for mutation.
type Config struct {
	// PropagateCompletion re-raises normal completion as a
	// *CompletionError carrying the final value, instead of returning the
	// value from the resume call that observed it.
	PropagateCompletion bool

	// Finalize is invoked exactly once, after the computation has been
	// reclaimed: the last strong handle is gone and any pending close
	// signal has been delivered. It fires whether the computation was
	// still suspended or had already terminated.
	Finalize func(Ref)

	// Logger receives debug events for every lifecycle transition. Nil
	// disables logging.
	Logger *zap.Logger
}

// Option configures Start.
type Option func(*Config)

// WithPropagateCompletion makes resume operations report completion as a
// *CompletionError instead of a Completed result.
func WithPropagateCompletion() Option {
	return func(c *Config) { c.PropagateCompletion = true }
}

// WithFinalize registers a one-shot hook fired when the computation is
// reclaimed while no strong handle exists.
func WithFinalize(hook func(Ref)) Option {
	return func(c *Config) { c.Finalize = hook }
}

// WithLogger attaches a structured logger to the computation and all handles
// derived from it.
func WithLogger(log *zap.Logger) Option {
	return func(c *Config) { c.Logger = log }
}

// handleConfig is the comparable slice of Config carried by every handle.
// Two handles compare equal only if they reference the same weak slot and
// carry the same handleConfig; the finalize hook binds to the computation,
// not the handle, and so does not participate.
type handleConfig struct {
	propagateCompletion bool
	logger              *zap.Logger
}
