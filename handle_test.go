package resume

import (
	"errors"
	"testing"
)

func TestStartRunsToFirstYield(t *testing.T) {
	entered := false

	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		entered = true
		if this.CanResume() {
			t.Error("Expected CanResume to be false while executing")
		}
		_, _ = yield("ready")
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}

	if !entered {
		t.Error("Expected body to run before Start returned")
	}
	if !s.CanResume() {
		t.Error("Expected computation to be resumable")
	}
	if s.HasTerminated() {
		t.Error("Expected computation not to be terminated")
	}
}

func TestStartNilBody(t *testing.T) {
	_, err := Start[int, string](nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestSendAndCompletion(t *testing.T) {
	s, err := Start(func(this Weak[int, int], yield Yield[int, int]) (int, error) {
		total := 0
		for i := 0; i < 3; i++ {
			n, err := yield(total)
			if err != nil {
				t.Errorf("Expected no error from yield, got %v", err)
			}
			total += n
		}
		return total, nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}

	res, err := s.Send(1)
	if err != nil {
		t.Fatalf("Expected no error from Send, got %v", err)
	}
	if res.Kind != Yielded || res.Value != 1 {
		t.Errorf("Expected yielded 1, got %s %d", res.Kind, res.Value)
	}

	res, err = s.Send(2)
	if err != nil {
		t.Fatalf("Expected no error from Send, got %v", err)
	}
	if res.Kind != Yielded || res.Value != 3 {
		t.Errorf("Expected yielded 3, got %s %d", res.Kind, res.Value)
	}

	res, err = s.Send(39)
	if err != nil {
		t.Fatalf("Expected no error from Send, got %v", err)
	}
	if res.Kind != Completed || res.Value != 42 {
		t.Errorf("Expected completed 42, got %s %d", res.Kind, res.Value)
	}

	if !s.HasTerminated() {
		t.Error("Expected computation to be terminated")
	}
	if s.CanResume() {
		t.Error("Expected computation not to be resumable")
	}
}

func TestPropagateCompletion(t *testing.T) {
	s, err := Start(func(this Weak[int, int], yield Yield[int, int]) (int, error) {
		_, _ = yield(0)
		return 42, nil
	}, WithPropagateCompletion())
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}

	_, err = s.Next()
	if !errors.Is(err, ErrCompleted) {
		t.Fatalf("Expected ErrCompleted, got %v", err)
	}

	var cErr *CompletionError[int]
	if !errors.As(err, &cErr) {
		t.Fatalf("Expected *CompletionError, got %T", err)
	}
	if cErr.Value != 42 {
		t.Errorf("Expected completion value 42, got %d", cErr.Value)
	}
}

func TestThrowHandledByBody(t *testing.T) {
	boom := errors.New("boom")

	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		_, err := yield("ready")
		if !errors.Is(err, boom) {
			t.Errorf("Expected error to be boom, got %v", err)
		}
		_, _ = yield("caught")
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}

	res, err := s.Throw(boom)
	if err != nil {
		t.Fatalf("Expected no error from Throw, got %v", err)
	}
	if res.Kind != Yielded || res.Value != "caught" {
		t.Errorf("Expected yielded 'caught', got %s %q", res.Kind, res.Value)
	}
}

func TestThrowReturnedByBody(t *testing.T) {
	boom := errors.New("boom")

	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		_, err := yield("ready")
		return "", err
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}

	_, err = s.Throw(boom)
	if !errors.Is(err, boom) {
		t.Errorf("Expected error to be boom, got %v", err)
	}
	if !s.HasTerminated() {
		t.Error("Expected computation to be terminated")
	}
}

func TestThrowNilError(t *testing.T) {
	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		_, _ = yield("ready")
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}
	defer s.Close()

	_, err = s.Throw(nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if !s.CanResume() {
		t.Error("Expected computation to still be resumable")
	}
}

func TestResumeFromInsideBody(t *testing.T) {
	var innerErr error

	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		_, _ = yield("ready")
		_, innerErr = this.Next()
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}

	res, err := s.Next()
	if err != nil {
		t.Fatalf("Expected no error from Next, got %v", err)
	}
	if res.Kind != Completed {
		t.Errorf("Expected completed result, got %s", res.Kind)
	}
	if !errors.Is(innerErr, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState from re-entrant resume, got %v", innerErr)
	}
}

func TestClose(t *testing.T) {
	cleaned := false

	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		defer func() { cleaned = true }()
		_, _ = yield("ready")
		t.Error("computation should have been closed")
		return "", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Expected no error from Close, got %v", err)
	}
	if !cleaned {
		t.Error("Expected deferred cleanup to run during Close")
	}
	if !s.HasTerminated() {
		t.Error("Expected computation to be terminated")
	}

	// Closing a terminated computation is a no-op.
	if err := s.Close(); err != nil {
		t.Errorf("Expected no error from second Close, got %v", err)
	}

	_, err = s.Next()
	if !errors.Is(err, ErrTerminated) {
		t.Errorf("Expected ErrTerminated, got %v", err)
	}
}

func TestCloseIgnoredByBody(t *testing.T) {
	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		func() {
			defer func() { _ = recover() }()
			_, _ = yield("ready")
		}()
		_, _ = yield("still here")
		return "", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}

	err = s.Close()
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState, got %v", err)
	}
}

func TestStartCompletesWithoutYielding(t *testing.T) {
	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}
	if !s.HasTerminated() {
		t.Error("Expected computation to be terminated")
	}

	_, err = Start(func(this Weak[int, int], yield Yield[int, int]) (int, error) {
		return 42, nil
	}, WithPropagateCompletion())
	var cErr *CompletionError[int]
	if !errors.As(err, &cErr) {
		t.Fatalf("Expected *CompletionError, got %v", err)
	}
	if cErr.Value != 42 {
		t.Errorf("Expected completion value 42, got %d", cErr.Value)
	}
}

func TestStartValue(t *testing.T) {
	token, w, err := StartValue(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		_, _ = yield("token-1")
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from StartValue, got %v", err)
	}
	s := w.WithStrongRef()
	if token != "token-1" {
		t.Errorf("Expected first yield value 'token-1', got %q", token)
	}
	res, err := s.Next()
	if err != nil {
		t.Fatalf("Expected no error from Next, got %v", err)
	}
	if res.Kind != Completed || res.Value != "done" {
		t.Errorf("Expected completed 'done', got %s %q", res.Kind, res.Value)
	}
}

func TestHandleEquality(t *testing.T) {
	s, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		_, _ = yield("ready")
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}
	defer s.Close()

	w := s.WithWeakRef()
	if w != w.WithWeakRef() {
		t.Error("Expected weak handle to equal itself")
	}
	if w != w.WithStrongRef().WithWeakRef() {
		t.Error("Expected conversion round trip to preserve equality")
	}
	if s != w.WithStrongRef() {
		t.Error("Expected strong handles over the same computation to be equal")
	}
	if s != s.WithStrongRef() {
		t.Error("Expected strong handle to equal itself")
	}

	other, err := Start(func(this Weak[int, string], yield Yield[int, string]) (string, error) {
		_, _ = yield("ready")
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Expected no error from Start, got %v", err)
	}
	defer other.Close()

	if w == other.WithWeakRef() {
		t.Error("Expected handles of distinct computations to differ")
	}
}

func TestZeroStrongHandle(t *testing.T) {
	var s Strong[int, string]

	if s.CanResume() {
		t.Error("Expected zero handle not to be resumable")
	}
	if !s.HasTerminated() {
		t.Error("Expected zero handle to report terminated")
	}
	if _, err := s.Next(); !errors.Is(err, ErrTerminated) {
		t.Errorf("Expected ErrTerminated, got %v", err)
	}
	if err := s.Close(); !errors.Is(err, ErrTerminated) {
		t.Errorf("Expected ErrTerminated, got %v", err)
	}
}
