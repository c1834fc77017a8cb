package app

import (
	"strings"
	"testing"
)

func TestFormatDBQueryForTrace(t *testing.T) {
	got := formatDBQueryForTrace("  SELECT id\n\tFROM courses\n   WHERE external_id = $1  ")
	if got != "SELECT id FROM courses WHERE external_id = $1" {
		t.Fatalf("unexpected normalized query: %q", got)
	}

	long := "SELECT " + strings.Repeat("x, ", 400) + "y FROM courses"
	got = formatDBQueryForTrace(long)
	if len(got) != maxTracedQueryLength+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated query of %d chars, got %d", maxTracedQueryLength+3, len(got))
	}
}
