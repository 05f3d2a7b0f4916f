package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/ticket"
)

func TestLockCompetitionQuery(t *testing.T) {
	query, args, err := lockCompetitionQuery("spring-quiz-2026")
	if err != nil {
		t.Fatalf("build lock query: %v", err)
	}

	want := "SELECT public_id FROM competitions WHERE public_id = $1 FOR UPDATE"
	if query != want {
		t.Fatalf("unexpected lock query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 1 || args[0] != "spring-quiz-2026" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteSubmissionTicketQueryScopesToCompetition(t *testing.T) {
	query, args, err := deleteSubmissionTicketQuery("spring-quiz-2026", "sub-1")
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	want := "DELETE FROM tickets WHERE competition_public_id = $1 AND submission_public_id = $2"
	if query != want {
		t.Fatalf("unexpected delete query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != "spring-quiz-2026" || args[1] != "sub-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestReplaceForSubmissionRejectsForeignTicket(t *testing.T) {
	repo := NewTicketRepository(nil)
	row := ticket.Ticket{
		ID:            "t-1",
		CompetitionID: "open-trivia-2026",
		ParticipantID: "alice",
		SubmissionID:  "sub-1",
		Count:         1,
		CreatedAt:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	if err := repo.ReplaceForSubmission(context.Background(), "spring-quiz-2026", "sub-1", &row); err == nil {
		t.Fatalf("expected error for a ticket of another competition")
	}
}
