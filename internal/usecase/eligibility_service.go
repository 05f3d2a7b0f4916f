package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/question"
	"github.com/riskibarqy/contest-wheel/internal/domain/submission"
	"github.com/riskibarqy/contest-wheel/internal/domain/ticket"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultEligibilityWorkers = 8

// CandidateStanding is one participant holding tickets, with the
// eligibility verdict that decides whether they enter the snapshot.
type CandidateStanding struct {
	ParticipantID string
	Tickets       int64
	Eligible      bool
	Reason        string
}

type EligibilityService struct {
	competitionRepo competition.Repository
	questionRepo    question.Repository
	submissionRepo  submission.Repository
	ticketRepo      ticket.Repository
	logger          *logging.Logger
	workers         int
}

func NewEligibilityService(
	competitionRepo competition.Repository,
	questionRepo question.Repository,
	submissionRepo submission.Repository,
	ticketRepo ticket.Repository,
	workers int,
	logger *logging.Logger,
) *EligibilityService {
	if workers <= 0 {
		workers = defaultEligibilityWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EligibilityService{
		competitionRepo: competitionRepo,
		questionRepo:    questionRepo,
		submissionRepo:  submissionRepo,
		ticketRepo:      ticketRepo,
		logger:          logger,
		workers:         workers,
	}
}

func (s *EligibilityService) CheckEligibility(ctx context.Context, competitionID, participantID string) (competition.Eligibility, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EligibilityService.CheckEligibility",
		attribute.String("competition.id", competitionID))
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	participantID = strings.TrimSpace(participantID)
	if competitionID == "" || participantID == "" {
		return competition.Eligibility{}, fmt.Errorf("%w: competition id and participant id are required", ErrInvalidInput)
	}

	comp, err := loadCompetition(ctx, s.competitionRepo, competitionID)
	if err != nil {
		return competition.Eligibility{}, err
	}
	active, err := s.questionRepo.ListActiveByCompetition(ctx, competitionID)
	if err != nil {
		return competition.Eligibility{}, storageError(err, "list active questions")
	}
	if len(active) == 0 {
		return competition.EvaluateEligibility(comp.EligibilityRules, 0, 0)
	}

	correct, err := s.submissionRepo.CountCorrectByParticipant(ctx, competitionID, participantID)
	if err != nil {
		return competition.Eligibility{}, storageError(err, "count correct submissions")
	}

	return competition.EvaluateEligibility(comp.EligibilityRules, len(active), correct)
}

// GetEligibleCandidates lists every participant holding tickets in the
// competition, ordered by tickets descending then participant id. Callers
// filter on Eligible.
func (s *EligibilityService) GetEligibleCandidates(ctx context.Context, competitionID string) ([]CandidateStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EligibilityService.GetEligibleCandidates",
		attribute.String("competition.id", competitionID))
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	comp, err := loadCompetition(ctx, s.competitionRepo, competitionID)
	if err != nil {
		return nil, err
	}
	if err := comp.EligibilityRules.Validate(); err != nil {
		return nil, err
	}

	active, err := s.questionRepo.ListActiveByCompetition(ctx, competitionID)
	if err != nil {
		return nil, storageError(err, "list active questions")
	}
	rows, err := s.ticketRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, storageError(err, "list tickets by competition")
	}

	standings := aggregateTickets(rows)
	if len(standings) == 0 {
		return standings, nil
	}
	if err := s.evaluateStandings(ctx, comp, len(active), standings); err != nil {
		return nil, err
	}

	return standings, nil
}

// evaluateStandings fills the verdict of every standing, fetching correct
// counts concurrently on a bounded pool.
func (s *EligibilityService) evaluateStandings(ctx context.Context, comp competition.Competition, activeQuestions int, standings []CandidateStanding) error {
	if activeQuestions == 0 {
		for i := range standings {
			verdict, err := competition.EvaluateEligibility(comp.EligibilityRules, 0, 0)
			if err != nil {
				return err
			}
			standings[i].Eligible = verdict.Eligible
			standings[i].Reason = verdict.Reason
		}
		return nil
	}

	workerCount := s.workers
	if workerCount > len(standings) {
		workerCount = len(standings)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers  sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for i := range standings {
		i := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if ctx.Err() != nil {
				fail(ctx.Err())
				return
			}

			participantID := standings[i].ParticipantID
			correct, err := s.submissionRepo.CountCorrectByParticipant(ctx, comp.ID, participantID)
			if err != nil {
				fail(storageError(err, "count correct submissions"))
				return
			}
			verdict, err := competition.EvaluateEligibility(comp.EligibilityRules, activeQuestions, correct)
			if err != nil {
				fail(err)
				return
			}
			standings[i].Eligible = verdict.Eligible
			standings[i].Reason = verdict.Reason
		}); err != nil {
			workers.Done()
			fail(fmt.Errorf("submit task to worker pool: %w", err))
			break
		}
	}
	workers.Wait()

	if firstErr != nil && !errors.Is(firstErr, context.Canceled) {
		s.logger.WarnContext(ctx, "evaluate candidate eligibility failed",
			"competition_id", comp.ID,
			"candidates", len(standings),
			"error", firstErr,
		)
	}
	return firstErr
}

func aggregateTickets(rows []ticket.Ticket) []CandidateStanding {
	totals := make(map[string]int64)
	for _, row := range rows {
		if row.Count <= 0 {
			continue
		}
		totals[row.ParticipantID] += int64(row.Count)
	}

	out := make([]CandidateStanding, 0, len(totals))
	for participantID, tickets := range totals {
		out = append(out, CandidateStanding{ParticipantID: participantID, Tickets: tickets})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tickets != out[j].Tickets {
			return out[i].Tickets > out[j].Tickets
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out
}
