package resume

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument is returned when a computation is started or
	// resumed with malformed arguments, such as a nil body or nil error.
	ErrInvalidArgument = errors.New("resume: invalid argument")

	// ErrInvalidState is returned when a resume is attempted while the
	// computation is already executing, or when a computation ignores a
	// close request. Resume calls never queue or block on a running
	// computation.
	ErrInvalidState = errors.New("resume: computation is executing")

	// ErrTerminated is returned by any operation on a computation that has
	// terminated or become unreachable.
	ErrTerminated = errors.New("resume: computation has already terminated")

	// ErrWaitTimeout reports that a wait operation exhausted its timeout
	// budget. The concrete error is a *TimeoutError.
	ErrWaitTimeout = errors.New("resume: wait timed out")

	// ErrClosed is delivered as a panic at the current suspension point
	// when a computation is closed or reclaimed, so that deferred cleanup
	// inside the body runs. Bodies may recover it to release resources but
	// must terminate as a result.
	ErrClosed = errors.New("resume: computation closed")

	// ErrCompleted marks completion signals propagated as errors. The
	// concrete error is a *CompletionError carrying the final value.
	ErrCompleted = errors.New("resume: computation completed")
)

func throwNilError() error {
	return fmt.Errorf("%w: Throw requires a non-nil error", ErrInvalidArgument)
}

// TimeoutError is returned by the wait operations when the computation did
// not become resumable within the configured timeout.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("resume: computation did not pause within %s (%s)", e.Timeout, e.Op)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrWaitTimeout
}

// CompletionError carries the computation's final value when completion
// propagation is enabled (see WithPropagateCompletion).
type CompletionError[Out any] struct {
	Value Out
}

func (e *CompletionError[Out]) Error() string {
	return fmt.Sprintf("resume: computation completed with %v", e.Value)
}

func (e *CompletionError[Out]) Is(target error) bool {
	return target == ErrCompleted
}

// ErrorKind categorizes errors for integration with external error handling.
type ErrorKind string

const (
	KindUnknown         ErrorKind = "Unknown"
	KindInvalidArgument ErrorKind = "InvalidArgument"
	KindInvalidState    ErrorKind = "InvalidState"
	KindTerminated      ErrorKind = "Terminated"
	KindTimeout         ErrorKind = "Timeout"
	KindCompletion      ErrorKind = "Completion"
	KindPropagated      ErrorKind = "Propagated"
)

// ClassifyError maps err to its ErrorKind. Errors that did not originate in
// this package are classified as KindPropagated: the only foreign errors a
// resume operation can return are those raised inside the computation.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrTerminated):
		return KindTerminated
	case errors.Is(err, ErrWaitTimeout):
		return KindTimeout
	case errors.Is(err, ErrCompleted):
		return KindCompletion
	default:
		return KindPropagated
	}
}
