package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/wheel"
	"github.com/riskibarqy/contest-wheel/internal/platform/id"
	"github.com/riskibarqy/contest-wheel/internal/platform/keylock"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type candidateSource interface {
	GetEligibleCandidates(ctx context.Context, competitionID string) ([]CandidateStanding, error)
}

// DrawResult is the completed run together with the winner record created
// by the draw.
type DrawResult struct {
	Run    wheel.Run
	Winner wheel.Winner
}

type WheelService struct {
	competitionRepo competition.Repository
	wheelRepo       wheel.Repository
	candidates      candidateSource
	idGen           id.Generator
	seeds           id.SeedSource
	locks           *keylock.Locker
	audit           AuditRecorder
	logger          *logging.Logger
	now             func() time.Time
}

func NewWheelService(
	competitionRepo competition.Repository,
	wheelRepo wheel.Repository,
	candidates candidateSource,
	idGen id.Generator,
	seeds id.SeedSource,
	locks *keylock.Locker,
	logger *logging.Logger,
) *WheelService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = keylock.New()
	}
	return &WheelService{
		competitionRepo: competitionRepo,
		wheelRepo:       wheelRepo,
		candidates:      candidates,
		idGen:           idGen,
		seeds:           seeds,
		locks:           locks,
		audit:           NewLogAuditRecorder(logger),
		logger:          logger,
		now:             time.Now,
	}
}

func (s *WheelService) SetAuditRecorder(audit AuditRecorder) {
	if audit != nil {
		s.audit = audit
	}
}

// LockWheelSnapshot freezes the eligible candidates of a competition into a
// ready run and commits to a fresh draw seed. It succeeds at most once per
// competition.
func (s *WheelService) LockWheelSnapshot(ctx context.Context, competitionID, lockedBy string) (wheel.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WheelService.LockWheelSnapshot",
		attribute.String("competition.id", competitionID))
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	lockedBy = strings.TrimSpace(lockedBy)
	if competitionID == "" || lockedBy == "" {
		return wheel.Run{}, fmt.Errorf("%w: competition id and locked_by are required", ErrInvalidInput)
	}

	unlock, err := s.locks.Lock(ctx, competitionID)
	if err != nil {
		return wheel.Run{}, fmt.Errorf("acquire competition lock: %w", err)
	}
	defer unlock()

	if _, err := loadCompetition(ctx, s.competitionRepo, competitionID); err != nil {
		return wheel.Run{}, err
	}

	_, exists, err := s.wheelRepo.GetRunByCompetition(ctx, competitionID)
	if err != nil {
		return wheel.Run{}, storageError(err, "get wheel run by competition")
	}
	if exists {
		return wheel.Run{}, fmt.Errorf("%w: competition=%s", ErrAlreadyLocked, competitionID)
	}

	standings, err := s.candidates.GetEligibleCandidates(ctx, competitionID)
	if err != nil {
		return wheel.Run{}, err
	}
	candidates := make([]wheel.Candidate, 0, len(standings))
	for _, standing := range standings {
		if !standing.Eligible || standing.Tickets <= 0 {
			continue
		}
		candidates = append(candidates, wheel.Candidate{
			ParticipantID: standing.ParticipantID,
			Tickets:       standing.Tickets,
		})
	}
	if len(candidates) == 0 {
		return wheel.Run{}, fmt.Errorf("%w: competition=%s", ErrNoEligibleCandidates, competitionID)
	}

	seed, err := s.seeds.NewSeed()
	if err != nil {
		return wheel.Run{}, fmt.Errorf("generate draw seed: %w", err)
	}
	commitment, err := wheel.Commitment(seed)
	if err != nil {
		return wheel.Run{}, fmt.Errorf("commit draw seed: %w", err)
	}
	runID, err := s.idGen.NewID()
	if err != nil {
		return wheel.Run{}, fmt.Errorf("generate wheel run id: %w", err)
	}

	run := wheel.Run{
		ID:             runID,
		CompetitionID:  competitionID,
		Status:         wheel.StatusReady,
		LockedAt:       s.now().UTC(),
		LockedBy:       lockedBy,
		Candidates:     candidates,
		TotalTickets:   wheel.SumTickets(candidates),
		Seed:           seed,
		SeedCommitment: commitment,
		SnapshotDigest: wheel.SnapshotDigest(competitionID, candidates),
	}
	if err := s.wheelRepo.CreateRun(ctx, run); err != nil {
		if errors.Is(err, wheel.ErrRunExists) {
			return wheel.Run{}, fmt.Errorf("%w: competition=%s", ErrAlreadyLocked, competitionID)
		}
		return wheel.Run{}, storageError(err, "create wheel run")
	}

	s.audit.Record(ctx, AuditEvent{
		Name:          AuditWheelLocked,
		CompetitionID: competitionID,
		Actor:         lockedBy,
		At:            run.LockedAt,
		Attributes: map[string]any{
			"run_id":          run.ID,
			"candidates":      len(run.Candidates),
			"total_tickets":   run.TotalTickets,
			"seed_commitment": run.SeedCommitment,
			"snapshot_digest": run.SnapshotDigest,
		},
	})

	return run, nil
}

// RunWheelDraw executes the single draw of a ready run against its frozen
// snapshot. Later calls fail with ErrRunAlreadyExecuted and change nothing.
func (s *WheelService) RunWheelDraw(ctx context.Context, runID string) (DrawResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WheelService.RunWheelDraw",
		attribute.String("wheel_run.id", runID))
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return DrawResult{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}

	run, err := s.getRun(ctx, runID)
	if err != nil {
		return DrawResult{}, err
	}

	unlock, err := s.locks.Lock(ctx, run.CompetitionID)
	if err != nil {
		return DrawResult{}, fmt.Errorf("acquire competition lock: %w", err)
	}
	defer unlock()

	// Re-read under the lock; a concurrent draw may have completed it.
	run, err = s.getRun(ctx, runID)
	if err != nil {
		return DrawResult{}, err
	}
	if !run.IsReady() {
		return DrawResult{}, fmt.Errorf("%w: run=%s status=%s", ErrRunAlreadyExecuted, runID, run.Status)
	}
	if len(run.Candidates) == 0 || run.TotalTickets <= 0 {
		return DrawResult{}, fmt.Errorf("%w: run=%s", ErrEmptyCandidatePool, runID)
	}
	if err := checkSnapshot(run); err != nil {
		return DrawResult{}, err
	}

	index, err := wheel.DrawTicketIndex(run.Seed, run.SnapshotDigest, run.TotalTickets)
	if err != nil {
		return DrawResult{}, fmt.Errorf("derive ticket index: %w", err)
	}
	owner, err := wheel.CandidateAt(run.Candidates, index)
	if err != nil {
		return DrawResult{}, fmt.Errorf("resolve ticket owner: %w", err)
	}
	winnerID, err := s.idGen.NewID()
	if err != nil {
		return DrawResult{}, fmt.Errorf("generate winner id: %w", err)
	}

	outcome := wheel.Outcome{
		RunAt:             s.now().UTC(),
		WinnerID:          owner.ParticipantID,
		WinnerTicketIndex: index,
	}
	winner := wheel.Winner{
		ID:            winnerID,
		CompetitionID: run.CompetitionID,
		ParticipantID: owner.ParticipantID,
		WheelRunID:    run.ID,
		RunAt:         outcome.RunAt,
		Notes: fmt.Sprintf("pool of %d candidates, %d tickets; winning ticket %d held by a candidate with %d tickets",
			len(run.Candidates), run.TotalTickets, index, owner.Tickets),
	}
	if err := s.wheelRepo.CompleteRun(ctx, run.ID, outcome, winner); err != nil {
		if errors.Is(err, wheel.ErrRunNotReady) {
			return DrawResult{}, fmt.Errorf("%w: run=%s", ErrRunAlreadyExecuted, runID)
		}
		return DrawResult{}, storageError(err, "complete wheel run")
	}

	done := run.Apply(outcome)
	s.audit.Record(ctx, AuditEvent{
		Name:          AuditWheelDrawn,
		CompetitionID: run.CompetitionID,
		At:            outcome.RunAt,
		Attributes: map[string]any{
			"run_id":              run.ID,
			"winner_id":           owner.ParticipantID,
			"winner_ticket_index": index,
			"total_tickets":       run.TotalTickets,
		},
	})

	return DrawResult{Run: done, Winner: winner}, nil
}

func (s *WheelService) GetRun(ctx context.Context, runID string) (wheel.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WheelService.GetRun")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return wheel.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	return s.getRun(ctx, runID)
}

func (s *WheelService) GetRunByCompetition(ctx context.Context, competitionID string) (wheel.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WheelService.GetRunByCompetition")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return wheel.Run{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if _, err := loadCompetition(ctx, s.competitionRepo, competitionID); err != nil {
		return wheel.Run{}, err
	}

	run, exists, err := s.wheelRepo.GetRunByCompetition(ctx, competitionID)
	if err != nil {
		return wheel.Run{}, storageError(err, "get wheel run by competition")
	}
	if !exists {
		return wheel.Run{}, fmt.Errorf("%w: competition=%s", ErrRunNotFound, competitionID)
	}
	return run, nil
}

// VerifyRun replays a completed run from its stored record. Ready runs are
// refused because replaying them would reveal the winner before the draw.
func (s *WheelService) VerifyRun(ctx context.Context, runID string) (wheel.Verification, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return wheel.Verification{}, err
	}
	if run.IsReady() {
		return wheel.Verification{}, fmt.Errorf("%w: run=%s", ErrRunNotDrawn, run.ID)
	}

	verification, err := wheel.Verify(run)
	if err != nil {
		return wheel.Verification{}, fmt.Errorf("%w: %v", ErrSnapshotTampered, err)
	}
	return verification, nil
}

func (s *WheelService) ListWinners(ctx context.Context, competitionID string) ([]wheel.Winner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WheelService.ListWinners")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if _, err := loadCompetition(ctx, s.competitionRepo, competitionID); err != nil {
		return nil, err
	}

	items, err := s.wheelRepo.ListWinnersByCompetition(ctx, competitionID)
	if err != nil {
		return nil, storageError(err, "list winners by competition")
	}
	return items, nil
}

func (s *WheelService) getRun(ctx context.Context, runID string) (wheel.Run, error) {
	run, exists, err := s.wheelRepo.GetRunByID(ctx, runID)
	if err != nil {
		return wheel.Run{}, storageError(err, "get wheel run by id")
	}
	if !exists {
		return wheel.Run{}, fmt.Errorf("%w: run=%s", ErrRunNotFound, runID)
	}
	return run, nil
}

// checkSnapshot refuses to draw from a run whose candidates, total or seed
// no longer match what was committed at lock time.
func checkSnapshot(run wheel.Run) error {
	if wheel.SumTickets(run.Candidates) != run.TotalTickets {
		return fmt.Errorf("%w: run=%s total mismatch", ErrSnapshotTampered, run.ID)
	}
	if wheel.SnapshotDigest(run.CompetitionID, run.Candidates) != run.SnapshotDigest {
		return fmt.Errorf("%w: run=%s digest mismatch", ErrSnapshotTampered, run.ID)
	}
	commitment, err := wheel.Commitment(run.Seed)
	if err != nil || commitment != run.SeedCommitment {
		return fmt.Errorf("%w: run=%s seed does not match commitment", ErrSnapshotTampered, run.ID)
	}
	return nil
}
