package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/wheel"
)

func TestWheelRunFromRowKeepsSnapshotOrder(t *testing.T) {
	candidates := []wheel.Candidate{
		{ParticipantID: "u2", Tickets: 5},
		{ParticipantID: "u1", Tickets: 5},
		{ParticipantID: "u3", Tickets: 1},
	}
	raw, err := encodeCandidates(candidates)
	if err != nil {
		t.Fatalf("encode candidates: %v", err)
	}

	lockedAt := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	row := wheelRunTableModel{
		PublicID:            "run-1",
		CompetitionPublicID: "c1",
		Status:              string(wheel.StatusDone),
		LockedAt:            lockedAt,
		LockedBy:            "admin",
		RunAt:               sql.NullTime{Time: lockedAt.Add(time.Hour), Valid: true},
		Candidates:          raw,
		TotalTickets:        11,
		WinnerParticipantID: sql.NullString{String: "u1", Valid: true},
		WinnerTicketIndex:   sql.NullInt64{Int64: 6, Valid: true},
		Seed:                "seed",
		SeedCommitment:      "commitment",
		SnapshotDigest:      "digest",
	}

	run, err := wheelRunFromRow(row)
	if err != nil {
		t.Fatalf("map row: %v", err)
	}
	if len(run.Candidates) != 3 || run.Candidates[0] != candidates[0] || run.Candidates[2] != candidates[2] {
		t.Fatalf("unexpected candidates: %+v", run.Candidates)
	}
	if run.Status != wheel.StatusDone || run.WinnerID != "u1" || run.WinnerTicketIndex == nil || *run.WinnerTicketIndex != 6 {
		t.Fatalf("unexpected outcome fields: %+v", run)
	}
	if run.RunAt == nil || !run.RunAt.Equal(lockedAt.Add(time.Hour)) {
		t.Fatalf("unexpected run_at: %v", run.RunAt)
	}
}

func TestWheelRunFromRowReadyHasNoOutcome(t *testing.T) {
	run, err := wheelRunFromRow(wheelRunTableModel{PublicID: "run-2", Status: string(wheel.StatusReady)})
	if err != nil {
		t.Fatalf("map row: %v", err)
	}
	if run.RunAt != nil || run.WinnerTicketIndex != nil || run.WinnerID != "" || run.Candidates != nil {
		t.Fatalf("expected empty outcome for ready run: %+v", run)
	}
}

func TestWheelRunFromRowRejectsCorruptCandidates(t *testing.T) {
	if _, err := wheelRunFromRow(wheelRunTableModel{PublicID: "run-3", Candidates: []byte(`{"not":"a list"}`)}); err == nil {
		t.Fatalf("expected corrupt candidates to fail")
	}
}
