package usecase

import (
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/ticket"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrCompetitionNotFound  = errors.New("competition not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrRunNotFound          = errors.New("wheel run not found")
	ErrAlreadyLocked        = errors.New("wheel snapshot already locked")
	ErrNoEligibleCandidates = errors.New("no eligible candidates")
	ErrRunAlreadyExecuted   = errors.New("wheel run already executed")
	ErrRunNotDrawn          = errors.New("wheel run has not been drawn")
	ErrEmptyCandidatePool   = errors.New("candidate pool is empty")
	ErrSnapshotTampered     = errors.New("wheel snapshot does not match its lock record")

	ErrCompetitionLocked      = ticket.ErrCompetitionLocked
	ErrUnknownEligibilityMode = competition.ErrUnknownEligibilityMode

	// ErrStorage marks failures of the backing store, as opposed to refusals
	// decided by the draw rules. Test with crerr.Is.
	ErrStorage = errors.New("storage failure")
)

func storageError(err error, op string) error {
	return crerr.Mark(crerr.Wrap(err, op), ErrStorage)
}

// IsStorageError reports whether err was produced by a failing repository.
func IsStorageError(err error) bool {
	return crerr.Is(err, ErrStorage)
}
