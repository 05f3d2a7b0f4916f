package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/contest-wheel/internal/domain/ticket"
)

// runLookup reports whether a competition already has a wheel run.
type runLookup interface {
	hasRun(competitionID string) bool
}

type TicketRepository struct {
	mu           sync.RWMutex
	bySubmission map[string]ticket.Ticket
	runs         runLookup
}

// NewTicketRepository returns an empty ledger. When runs is non-nil,
// ReplaceForCompetition refuses competitions that already have a run.
func NewTicketRepository(runs *WheelRepository) *TicketRepository {
	r := &TicketRepository{bySubmission: make(map[string]ticket.Ticket)}
	if runs != nil {
		r.runs = runs
	}
	return r
}

func (r *TicketRepository) ListByCompetition(_ context.Context, competitionID string) ([]ticket.Ticket, error) {
	return r.filter(func(item ticket.Ticket) bool {
		return item.CompetitionID == competitionID
	}), nil
}

func (r *TicketRepository) ListByParticipant(_ context.Context, competitionID, participantID string) ([]ticket.Ticket, error) {
	return r.filter(func(item ticket.Ticket) bool {
		return item.CompetitionID == competitionID && item.ParticipantID == participantID
	}), nil
}

func (r *TicketRepository) ReplaceForSubmission(_ context.Context, competitionID, submissionID string, next *ticket.Ticket) error {
	if next != nil {
		if err := next.Validate(); err != nil {
			return fmt.Errorf("invalid ticket: %w", err)
		}
		if next.SubmissionID != submissionID {
			return fmt.Errorf("ticket submission %s does not match %s", next.SubmissionID, submissionID)
		}
		if next.CompetitionID != competitionID {
			return fmt.Errorf("ticket %s belongs to competition %s", next.ID, next.CompetitionID)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bySubmission, submissionID)
	if next != nil {
		r.bySubmission[submissionID] = *next
	}
	return nil
}

func (r *TicketRepository) ReplaceForCompetition(_ context.Context, competitionID string, items []ticket.Ticket) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("invalid ticket: %w", err)
		}
		if item.CompetitionID != competitionID {
			return fmt.Errorf("ticket %s belongs to competition %s", item.ID, item.CompetitionID)
		}
		if _, dup := seen[item.SubmissionID]; dup {
			return fmt.Errorf("duplicate ticket for submission %s", item.SubmissionID)
		}
		seen[item.SubmissionID] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runs != nil && r.runs.hasRun(competitionID) {
		return ticket.ErrCompetitionLocked
	}
	for submissionID, item := range r.bySubmission {
		if item.CompetitionID == competitionID {
			delete(r.bySubmission, submissionID)
		}
	}
	for _, item := range items {
		r.bySubmission[item.SubmissionID] = item
	}
	return nil
}

func (r *TicketRepository) filter(keep func(ticket.Ticket) bool) []ticket.Ticket {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ticket.Ticket, 0)
	for _, item := range r.bySubmission {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SubmissionID < out[j].SubmissionID
	})
	return out
}
