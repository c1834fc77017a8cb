package syncrun

import (
	"testing"
	"time"
)

func TestRun_Validate(t *testing.T) {
	run := Run{ID: "run-1", Trigger: TriggerHTTP, Status: StatusIdle}
	if err := run.Validate(); err != nil {
		t.Fatalf("expected valid run: %v", err)
	}

	run.Trigger = "cron"
	if err := run.Validate(); err == nil {
		t.Fatalf("expected invalid trigger error")
	}
}

func TestLease_HeldByAndExpired(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	lease := Lease{Name: LeaseName, Holder: "run-1", AcquiredAt: now, ExpiresAt: now.Add(time.Minute)}

	if !lease.HeldBy("run-1", now) {
		t.Fatalf("expected lease held by run-1")
	}
	if lease.HeldBy("run-2", now) {
		t.Fatalf("expected lease not held by run-2")
	}
	if lease.Expired(now) {
		t.Fatalf("expected lease to be active")
	}
	if !lease.Expired(now.Add(time.Minute)) {
		t.Fatalf("expected lease to expire at ExpiresAt")
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusReconciling.Terminal() {
		t.Fatalf("reconciling must not be terminal")
	}
	if !StatusFailed.Terminal() || !StatusCompleted.Terminal() {
		t.Fatalf("completed and failed must be terminal")
	}
}
