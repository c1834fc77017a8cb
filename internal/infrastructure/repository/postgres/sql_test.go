package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/riskibarqy/golf-catalog/internal/domain/course"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation courses does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation courses does not exist")
		if isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestWrapCourseWriteError(t *testing.T) {
	t.Run("maps unique violation to duplicate key", func(t *testing.T) {
		pqErr := &pq.Error{Code: "23505", Constraint: "courses_name_location_key_key"}
		err := wrapCourseWriteError("insert course", fmt.Errorf("exec: %w", pqErr))
		if !errors.Is(err, course.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
	})

	t.Run("keeps other errors", func(t *testing.T) {
		err := wrapCourseWriteError("insert course", sql.ErrConnDone)
		if errors.Is(err, course.ErrDuplicateKey) {
			t.Fatalf("unexpected duplicate key mapping: %v", err)
		}
		if !errors.Is(err, sql.ErrConnDone) {
			t.Fatalf("expected wrapped cause, got %v", err)
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get course: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
}

func TestQuoteLiteral(t *testing.T) {
	got := quoteLiteral("o'hara")
	if got != "'o''hara'" {
		t.Fatalf("unexpected quoted literal: %s", got)
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("   ") != nil {
		t.Fatalf("expected nil for blank string")
	}
	if got := optionalString(" NJ "); got == nil || *got != "NJ" {
		t.Fatalf("unexpected optional string: %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
