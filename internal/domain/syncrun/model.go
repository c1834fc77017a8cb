package syncrun

import (
	"fmt"
	"time"
)

// LeaseName guards the catalog sync so at most one pass is active.
const LeaseName = "course-sync"

type Status string

const (
	StatusIdle        Status = "idle"
	StatusFetching    Status = "fetching"
	StatusReconciling Status = "reconciling"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Trigger string

const (
	TriggerHTTP  Trigger = "http"
	TriggerQueue Trigger = "queue"
	TriggerCLI   Trigger = "cli"
)

func (t Trigger) Valid() bool {
	switch t {
	case TriggerHTTP, TriggerQueue, TriggerCLI:
		return true
	default:
		return false
	}
}

// Run is the observable status of one sync pass.
type Run struct {
	ID         string
	Trigger    Trigger
	Status     Status
	Total      int
	Processed  int
	Created    int
	Updated    int
	Skipped    int
	Failed     int
	ElapsedMs  int64
	LastError  string
	QueuedAt   time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
	TraceID    string
	SpanID     string
}

func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("sync run id is required")
	}
	if !r.Trigger.Valid() {
		return fmt.Errorf("invalid sync run trigger %q", r.Trigger)
	}
	if r.Status == "" {
		return fmt.Errorf("sync run status is required")
	}
	return nil
}

// Lease is an advisory lock row with an expiry so a crashed pass cannot block forever.
type Lease struct {
	Name       string
	Holder     string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

func (l Lease) HeldBy(holder string, now time.Time) bool {
	return l.Holder == holder && l.ExpiresAt.After(now)
}

func (l Lease) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
