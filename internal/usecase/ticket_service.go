package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/submission"
	"github.com/riskibarqy/contest-wheel/internal/domain/ticket"
	"github.com/riskibarqy/contest-wheel/internal/domain/wheel"
	"github.com/riskibarqy/contest-wheel/internal/platform/id"
	"github.com/riskibarqy/contest-wheel/internal/platform/keylock"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// TicketUpsertResult reports the ledger state of one submission after an
// upsert. Ticket is nil when the submission earns nothing.
type TicketUpsertResult struct {
	SubmissionID string
	Ticket       *ticket.Ticket
	Count        int
	Reason       string
}

// RecalculationSummary compares the ledger of a competition before and
// after a full rebuild. Records count rows, Tickets sum their counts.
type RecalculationSummary struct {
	CompetitionID string
	BeforeTickets int
	AfterTickets  int
	BeforeRecords int
	AfterRecords  int
	Added         int
	Removed       int
	Updated       int
}

type TicketService struct {
	competitionRepo competition.Repository
	submissionRepo  submission.Repository
	ticketRepo      ticket.Repository
	wheelRepo       wheel.Repository
	idGen           id.Generator
	locks           *keylock.Locker
	audit           AuditRecorder
	logger          *logging.Logger
	now             func() time.Time
}

func NewTicketService(
	competitionRepo competition.Repository,
	submissionRepo submission.Repository,
	ticketRepo ticket.Repository,
	wheelRepo wheel.Repository,
	idGen id.Generator,
	locks *keylock.Locker,
	logger *logging.Logger,
) *TicketService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = keylock.New()
	}
	return &TicketService{
		competitionRepo: competitionRepo,
		submissionRepo:  submissionRepo,
		ticketRepo:      ticketRepo,
		wheelRepo:       wheelRepo,
		idGen:           idGen,
		locks:           locks,
		audit:           NewLogAuditRecorder(logger),
		logger:          logger,
		now:             time.Now,
	}
}

func (s *TicketService) SetAuditRecorder(audit AuditRecorder) {
	if audit != nil {
		s.audit = audit
	}
}

// UpsertTicketsForSubmissionID loads a reviewed submission and rewrites its
// ledger row.
func (s *TicketService) UpsertTicketsForSubmissionID(ctx context.Context, submissionID string) (TicketUpsertResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TicketService.UpsertTicketsForSubmissionID",
		attribute.String("submission.id", submissionID))
	defer span.End()

	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return TicketUpsertResult{}, fmt.Errorf("%w: submission id is required", ErrInvalidInput)
	}

	item, exists, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return TicketUpsertResult{}, storageError(err, "get submission by id")
	}
	if !exists {
		return TicketUpsertResult{}, fmt.Errorf("%w: submission=%s", ErrSubmissionNotFound, submissionID)
	}

	return s.UpsertTicketsForSubmission(ctx, item)
}

// UpsertTicketsForSubmission replaces the ledger row of a submission with
// the one its current review result earns. Repeating the call with the same
// submission leaves the ledger unchanged.
func (s *TicketService) UpsertTicketsForSubmission(ctx context.Context, item submission.Submission) (TicketUpsertResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TicketService.UpsertTicketsForSubmission",
		attribute.String("submission.id", item.ID),
		attribute.String("competition.id", item.CompetitionID))
	defer span.End()

	if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.CompetitionID) == "" {
		return TicketUpsertResult{}, fmt.Errorf("%w: submission id and competition id are required", ErrInvalidInput)
	}

	unlock, err := s.locks.Lock(ctx, item.CompetitionID)
	if err != nil {
		return TicketUpsertResult{}, fmt.Errorf("acquire competition lock: %w", err)
	}
	defer unlock()

	comp, err := s.getCompetition(ctx, item.CompetitionID)
	if err != nil {
		return TicketUpsertResult{}, err
	}

	computed := ticket.ComputeTicketCount(comp, item)
	result := TicketUpsertResult{SubmissionID: item.ID, Count: computed.Count, Reason: computed.Reason}

	var next *ticket.Ticket
	if computed.Count > 0 {
		ticketID, err := s.idGen.NewID()
		if err != nil {
			return TicketUpsertResult{}, fmt.Errorf("generate ticket id: %w", err)
		}
		row, _ := ticket.NewFromComputation(ticketID, item, computed, s.now().UTC())
		next = &row
		result.Ticket = &row
	}

	if err := s.ticketRepo.ReplaceForSubmission(ctx, item.CompetitionID, item.ID, next); err != nil {
		return TicketUpsertResult{}, storageError(err, "replace submission ticket")
	}

	s.audit.Record(ctx, AuditEvent{
		Name:          AuditTicketsUpserted,
		CompetitionID: item.CompetitionID,
		At:            s.now().UTC(),
		Attributes: map[string]any{
			"submission_id":  item.ID,
			"participant_id": item.ParticipantID,
			"ticket_count":   computed.Count,
		},
	})

	return result, nil
}

// RecalculateTicketsForCompetition rebuilds the whole ledger of a
// competition from its correct submissions. It is refused once a wheel run
// exists, because the snapshot must stay the only input of the draw.
func (s *TicketService) RecalculateTicketsForCompetition(ctx context.Context, competitionID string) (RecalculationSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TicketService.RecalculateTicketsForCompetition",
		attribute.String("competition.id", competitionID))
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return RecalculationSummary{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	unlock, err := s.locks.Lock(ctx, competitionID)
	if err != nil {
		return RecalculationSummary{}, fmt.Errorf("acquire competition lock: %w", err)
	}
	defer unlock()

	comp, err := s.getCompetition(ctx, competitionID)
	if err != nil {
		return RecalculationSummary{}, err
	}

	_, locked, err := s.wheelRepo.GetRunByCompetition(ctx, competitionID)
	if err != nil {
		return RecalculationSummary{}, storageError(err, "get wheel run by competition")
	}
	if locked {
		return RecalculationSummary{}, fmt.Errorf("%w: competition=%s", ErrCompetitionLocked, competitionID)
	}

	before, err := s.ticketRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return RecalculationSummary{}, storageError(err, "list tickets by competition")
	}
	correct, err := s.submissionRepo.List(ctx, submission.Filter{
		CompetitionID: competitionID,
		FinalResult:   submission.ResultCorrect,
	})
	if err != nil {
		return RecalculationSummary{}, storageError(err, "list correct submissions")
	}

	existing := make(map[string]ticket.Ticket, len(before))
	for _, row := range before {
		existing[row.SubmissionID] = row
	}

	now := s.now().UTC()
	after := make([]ticket.Ticket, 0, len(correct))
	for _, item := range correct {
		computed := ticket.ComputeTicketCount(comp, item)
		if computed.Count <= 0 {
			continue
		}
		previous, ok := existing[item.ID]
		if !ok {
			ticketID, err := s.idGen.NewID()
			if err != nil {
				return RecalculationSummary{}, fmt.Errorf("generate ticket id: %w", err)
			}
			row, _ := ticket.NewFromComputation(ticketID, item, computed, now)
			after = append(after, row)
			continue
		}
		// A reused row keeps its id and creation time.
		row, _ := ticket.NewFromComputation(previous.ID, item, computed, previous.CreatedAt)
		after = append(after, row)
	}

	if err := s.ticketRepo.ReplaceForCompetition(ctx, competitionID, after); err != nil {
		if errors.Is(err, ticket.ErrCompetitionLocked) {
			return RecalculationSummary{}, fmt.Errorf("%w: competition=%s", ErrCompetitionLocked, competitionID)
		}
		return RecalculationSummary{}, storageError(err, "replace competition tickets")
	}

	summary := summarizeRecalculation(competitionID, before, after)
	s.audit.Record(ctx, AuditEvent{
		Name:          AuditTicketsRecalculated,
		CompetitionID: competitionID,
		At:            now,
		Attributes: map[string]any{
			"before_tickets": summary.BeforeTickets,
			"after_tickets":  summary.AfterTickets,
			"added":          summary.Added,
			"removed":        summary.Removed,
			"updated":        summary.Updated,
		},
	})

	return summary, nil
}

// ListTickets returns the ledger of a competition, optionally narrowed to
// one participant.
func (s *TicketService) ListTickets(ctx context.Context, competitionID, participantID string) ([]ticket.Ticket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TicketService.ListTickets")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	participantID = strings.TrimSpace(participantID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if _, err := s.getCompetition(ctx, competitionID); err != nil {
		return nil, err
	}

	var (
		items []ticket.Ticket
		err   error
	)
	if participantID != "" {
		items, err = s.ticketRepo.ListByParticipant(ctx, competitionID, participantID)
	} else {
		items, err = s.ticketRepo.ListByCompetition(ctx, competitionID)
	}
	if err != nil {
		return nil, storageError(err, "list tickets")
	}
	return items, nil
}

func (s *TicketService) getCompetition(ctx context.Context, competitionID string) (competition.Competition, error) {
	return loadCompetition(ctx, s.competitionRepo, competitionID)
}

func loadCompetition(ctx context.Context, repo competition.Repository, competitionID string) (competition.Competition, error) {
	comp, exists, err := repo.GetByID(ctx, competitionID)
	if err != nil {
		return competition.Competition{}, storageError(err, "get competition by id")
	}
	if !exists {
		return competition.Competition{}, fmt.Errorf("%w: competition=%s", ErrCompetitionNotFound, competitionID)
	}
	return comp, nil
}

func summarizeRecalculation(competitionID string, before, after []ticket.Ticket) RecalculationSummary {
	summary := RecalculationSummary{
		CompetitionID: competitionID,
		BeforeTickets: ticket.Sum(before),
		AfterTickets:  ticket.Sum(after),
		BeforeRecords: len(before),
		AfterRecords:  len(after),
	}

	previous := make(map[string]ticket.Ticket, len(before))
	for _, row := range before {
		previous[row.SubmissionID] = row
	}
	for _, row := range after {
		old, ok := previous[row.SubmissionID]
		if !ok {
			summary.Added++
			continue
		}
		if old.Count != row.Count || old.Reason != row.Reason {
			summary.Updated++
		}
		delete(previous, row.SubmissionID)
	}
	summary.Removed = len(previous)

	return summary
}
