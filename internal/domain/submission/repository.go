package submission

import "context"

// Filter narrows List. Empty fields are not applied.
type Filter struct {
	CompetitionID string
	FinalResult   FinalResult
}

// Repository describes submission reads needed by the ticket ledger and
// eligibility evaluation.
type Repository interface {
	GetByID(ctx context.Context, submissionID string) (Submission, bool, error)
	List(ctx context.Context, filter Filter) ([]Submission, error)
	CountCorrectByParticipant(ctx context.Context, competitionID, participantID string) (int, error)
}
