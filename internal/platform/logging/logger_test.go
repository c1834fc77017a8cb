package logging

import (
	"context"
	"io"
	"testing"
)

type mirroredEntry struct {
	level Level
	msg   string
	args  []any
}

func TestSetMirror_ReceivesEnabledEntries(t *testing.T) {
	var got []mirroredEntry
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, mirroredEntry{level: level, msg: msg, args: args})
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger := NewConsole(LevelInfo, io.Discard)
	logger.DebugContext(context.Background(), "trackman page fetched", "skip", 0)
	logger.Info("sync pass completed", "created", 2)
	logger.WarnContext(context.Background(), "trackman course item malformed", "index", 1)

	if len(got) != 2 {
		t.Fatalf("expected 2 mirrored entries, got %d", len(got))
	}
	if got[0].msg != "sync pass completed" || got[0].level != LevelInfo {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if len(got[1].args) != 2 || got[1].args[0] != "index" {
		t.Fatalf("unexpected mirrored args: %+v", got[1].args)
	}
}

func TestSetMirror_NilRemovesMirror(t *testing.T) {
	calls := 0
	SetMirror(func(context.Context, Level, string, ...any) { calls++ })
	SetMirror(nil)

	NewConsole(LevelInfo, io.Discard).Error("store unavailable")
	if calls != 0 {
		t.Fatalf("expected no mirror calls after removal, got %d", calls)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
