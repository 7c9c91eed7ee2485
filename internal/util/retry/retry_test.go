package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_FirstAttemptSucceeds(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got: %d", attempts)
	}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, WithInitialDelay(time.Millisecond))

	if err != nil {
		t.Errorf("expected success after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}
}

func TestDo_ExhaustsRetryBudget(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return errors.New("persistent")
	}, WithMaxRetries(2), WithInitialDelay(time.Millisecond))

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// MaxRetries counts retries after the first attempt.
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}
}

func TestDo_FatalNotRetried(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return Fatal(errors.New("bad request"))
	}, WithInitialDelay(time.Millisecond))

	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("fatal error must not be retried, got %d attempts", attempts)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, func() error {
		attempts++
		return errors.New("transient")
	}, WithInitialDelay(time.Millisecond))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before context check, got: %d", attempts)
	}
}

func TestDo_DelayCappedAtMaxDelay(t *testing.T) {
	start := time.Now()
	_ = Do(context.Background(), func() error {
		return errors.New("transient")
	},
		WithMaxRetries(3),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(2*time.Millisecond),
		WithMultiplier(100),
	)

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("max delay cap not applied, took %v", elapsed)
	}
}

func TestFatal_NilStaysNil(t *testing.T) {
	if Fatal(nil) != nil {
		t.Error("Fatal(nil) must return nil")
	}
}

func TestIsFatal_Wrapped(t *testing.T) {
	err := Fatal(errors.New("boom"))
	wrapped := errors.Join(errors.New("outer"), err)

	if !IsFatal(wrapped) {
		t.Error("IsFatal must see through wrapping")
	}
	if IsFatal(errors.New("plain")) {
		t.Error("plain error must not be fatal")
	}
}
