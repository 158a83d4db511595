package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterFailureStreak(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, 5*time.Second, 1)
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker rejected request: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("state after one failure = %s, want closed", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("state after failure streak = %s, want open", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker allowed request, err = %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open probe rejected: %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("state after deadline = %s, want half_open", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("state after successful probe = %s, want closed", state)
	}
}

func TestCircuitBreaker_HalfOpenProbeLimit(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, time.Second, 2)
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe rejected: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe rejected: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("probe beyond limit allowed, err = %v", err)
	}

	b.RecordSuccess()
	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("state after all probes succeeded = %s, want closed", state)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, time.Second, 1)
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}
	b.RecordFailure()

	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("state after failed probe = %s, want open", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("reopened breaker allowed request, err = %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig_KeepsEnabledFlag(t *testing.T) {
	t.Parallel()

	normalized := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{})
	if normalized.Enabled {
		t.Fatal("zero-value config normalized to enabled")
	}
	defaults := DefaultCircuitBreakerConfig()
	if normalized.FailureThreshold != defaults.FailureThreshold {
		t.Fatalf("FailureThreshold = %d, want %d", normalized.FailureThreshold, defaults.FailureThreshold)
	}
	if normalized.OpenTimeout != defaults.OpenTimeout {
		t.Fatalf("OpenTimeout = %s, want %s", normalized.OpenTimeout, defaults.OpenTimeout)
	}
	if normalized.HalfOpenMaxReq != defaults.HalfOpenMaxReq {
		t.Fatalf("HalfOpenMaxReq = %d, want %d", normalized.HalfOpenMaxReq, defaults.HalfOpenMaxReq)
	}
}
