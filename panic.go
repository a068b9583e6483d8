package resume

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// PanicError wraps a panic raised inside a computation body. It is returned
// (not re-panicked) by the resume operation that triggered the panic, and
// carries the stack captured at the panic site.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("%v", p.Value)
}

// ErrorWithStack formats the panic value together with the captured stack.
func (p *PanicError) ErrorWithStack() string {
	return fmt.Sprintf("%v\n\n%s", p.Value, p.Stack)
}

func (p *PanicError) Unwrap() error {
	err, ok := p.Value.(error)
	if !ok {
		return nil
	}
	return err
}

// DebugString walks the error chain and renders every PanicError with its
// stack, which is useful when computations nest.
func (p *PanicError) DebugString() string {
	var sb strings.Builder
	seen := make(map[error]bool)

	var unwrap func(error)
	unwrap = func(e error) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true

		if p, ok := e.(*PanicError); ok {
			sb.WriteString(p.ErrorWithStack())
		} else {
			sb.WriteString(e.Error())
		}

		if unwrapper, ok := e.(interface{ Unwrap() []error }); ok {
			for _, ue := range unwrapper.Unwrap() {
				unwrap(ue)
			}
		} else if ue := errors.Unwrap(e); ue != nil {
			unwrap(ue)
		}
	}

	unwrap(p)
	return sb.String()
}

func newPanicError(v any) error {
	return &PanicError{
		Value: v,
		Stack: debug.Stack(),
	}
}
