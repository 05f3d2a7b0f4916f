package wheel

import (
	"context"
	"errors"
)

var (
	// ErrRunExists is returned by CreateRun when the competition already has
	// a run in any status.
	ErrRunExists = errors.New("wheel run already exists for competition")
	// ErrRunNotReady is returned by CompleteRun when the run is no longer in
	// ready status.
	ErrRunNotReady = errors.New("wheel run is not ready")
)

// Repository persists wheel runs and winners. Implementations must enforce
// at most one run per competition and a single ready->done transition.
type Repository interface {
	GetRunByCompetition(ctx context.Context, competitionID string) (Run, bool, error)
	GetRunByID(ctx context.Context, runID string) (Run, bool, error)
	CreateRun(ctx context.Context, run Run) error
	// CompleteRun applies outcome to a ready run and stores winner in the
	// same atomic unit.
	CompleteRun(ctx context.Context, runID string, outcome Outcome, winner Winner) error
	ListWinnersByCompetition(ctx context.Context, competitionID string) ([]Winner, error)
}
