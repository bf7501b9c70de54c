package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestExecuteRunsOnceWithoutRetry(t *testing.T) {
	guard := NewGuard(Config{Enabled: true, MinRequests: 5})

	attempts := 0
	errTemp := errors.New("temporary")
	err := guard.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errTemp
	}, nil)
	if !errors.Is(err, errTemp) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	guard := NewGuard(Config{
		Enabled:          true,
		MinRequests:      2,
		FailureRatio:     0.5,
		OpenTimeout:      50 * time.Millisecond,
		HalfOpenMaxCalls: 1,
	})

	errTemp := errors.New("temporary")
	for i := 0; i < 2; i++ {
		err := guard.Execute(context.Background(), "op", func(context.Context) error {
			return errTemp
		}, nil)
		if !errors.Is(err, errTemp) {
			t.Fatalf("expected temporary error on iteration %d, got %v", i, err)
		}
	}

	err := guard.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("expected IsCircuitOpen to detect %v", err)
	}
	if guard.State("op") != gobreaker.StateOpen.String() {
		t.Fatalf("expected open state, got %s", guard.State("op"))
	}
}

func TestExecuteIgnoresFilteredFailures(t *testing.T) {
	guard := NewGuard(Config{Enabled: true, MinRequests: 1, FailureRatio: 0.1})

	errCaller := errors.New("bad request")
	for i := 0; i < 3; i++ {
		_ = guard.Execute(context.Background(), "op", func(context.Context) error {
			return errCaller
		}, func(err error) bool { return !errors.Is(err, errCaller) })
	}

	called := false
	err := guard.Execute(context.Background(), "op", func(context.Context) error {
		called = true
		return nil
	}, nil)
	if err != nil || !called {
		t.Fatalf("expected breaker to stay closed, err=%v called=%v", err, called)
	}
}

func TestExecuteDisabledBypassesBreaker(t *testing.T) {
	guard := NewGuard(Config{Enabled: false})
	for i := 0; i < 20; i++ {
		_ = guard.Execute(context.Background(), "op", func(context.Context) error { return errors.New("x") }, nil)
	}
	if guard.State("op") != gobreaker.StateClosed.String() {
		t.Fatalf("expected no breaker when disabled")
	}
}

func TestExecuteHonoursCancelledContext(t *testing.T) {
	guard := NewGuard(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := guard.Execute(ctx, "op", func(context.Context) error {
		t.Fatalf("must not run with cancelled context")
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
