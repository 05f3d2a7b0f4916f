package ticket

import (
	"context"
	"errors"
)

// ErrCompetitionLocked is returned by ReplaceForCompetition when the store
// already holds a wheel run for the competition.
var ErrCompetitionLocked = errors.New("competition wheel already locked")

// Repository persists the ticket ledger. Replace operations are atomic: a
// failure leaves the previous rows untouched.
type Repository interface {
	ListByCompetition(ctx context.Context, competitionID string) ([]Ticket, error)
	ListByParticipant(ctx context.Context, competitionID, participantID string) ([]Ticket, error)
	// ReplaceForSubmission deletes the submission's ticket and inserts next
	// when it is non-nil. It is exclusive with ReplaceForCompetition for the
	// same competition.
	ReplaceForSubmission(ctx context.Context, competitionID, submissionID string, next *Ticket) error
	// ReplaceForCompetition deletes every ticket of the competition and
	// bulk-inserts items.
	ReplaceForCompetition(ctx context.Context, competitionID string, items []Ticket) error
}
