package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert wheel run: %w", &pq.Error{Code: "23505", Message: "duplicate key value"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		err := &pq.Error{Code: "23503", Message: "foreign key violation"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fmt.Errorf("boom")) {
			t.Fatalf("expected false for plain error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get run: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(sql.ErrConnDone) {
		t.Fatalf("expected ErrConnDone not to be not found")
	}
}

func TestNullableConversions(t *testing.T) {
	if nullTimeToPtr(sql.NullTime{}) != nil {
		t.Fatalf("expected nil time for invalid NullTime")
	}
	local := time.Date(2026, 4, 1, 17, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	if got := nullTimeToPtr(sql.NullTime{Time: local, Valid: true}); got == nil || got.Location() != time.UTC || !got.Equal(local) {
		t.Fatalf("unexpected time conversion: %v", got)
	}

	if got := nullInt64ToPtr(sql.NullInt64{Int64: 7, Valid: true}); got == nil || *got != 7 {
		t.Fatalf("unexpected int conversion: %v", got)
	}
	if nullInt64ToPtr(sql.NullInt64{}) != nil {
		t.Fatalf("expected nil index for invalid NullInt64")
	}
	if nullStringValue(sql.NullString{String: "x"}) != "" {
		t.Fatalf("expected invalid NullString to read as empty")
	}
}

func TestChunkSizes(t *testing.T) {
	got := chunkSizes(2500, 1000)
	want := [][2]int{{0, 1000}, {1000, 2000}, {2000, 2500}}
	if len(got) != len(want) {
		t.Fatalf("unexpected chunks: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk %d: got %v want %v", i, got[i], want[i])
		}
	}
	if chunkSizes(0, 1000) != nil {
		t.Fatalf("expected no chunks for empty input")
	}
}
