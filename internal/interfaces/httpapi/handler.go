package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
	"github.com/riskibarqy/contest-wheel/internal/usecase"
)

type Handler struct {
	ticketService      *usecase.TicketService
	eligibilityService *usecase.EligibilityService
	wheelService       *usecase.WheelService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	ticketService *usecase.TicketService,
	eligibilityService *usecase.EligibilityService,
	wheelService *usecase.WheelService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ticketService:      ticketService,
		eligibilityService: eligibilityService,
		wheelService:       wheelService,
		logger:             logger,
		validator:          validator.New(),
	}
}

type lockWheelRequest struct {
	LockedBy string `json:"locked_by" validate:"required,max=200"`
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// logFailure keeps refusals at warn level and reserves error for failures
// the caller cannot fix.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz", requestAttributes(r)...)
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) UpsertSubmissionTickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertSubmissionTickets", requestAttributes(r)...)
	defer span.End()

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	result, err := h.ticketService.UpsertTicketsForSubmissionID(ctx, submissionID)
	if err != nil {
		h.logFailure(ctx, "upsert submission tickets failed", err, "submission_id", submissionID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ticketUpsertToDTO(result))
}

func (h *Handler) RecalculateCompetitionTickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateCompetitionTickets", requestAttributes(r)...)
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	summary, err := h.ticketService.RecalculateTicketsForCompetition(ctx, competitionID)
	if err != nil {
		h.logFailure(ctx, "recalculate competition tickets failed", err, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recalculationSummaryDTO{
		CompetitionID: summary.CompetitionID,
		BeforeTickets: summary.BeforeTickets,
		AfterTickets:  summary.AfterTickets,
		BeforeRecords: summary.BeforeRecords,
		AfterRecords:  summary.AfterRecords,
		Added:         summary.Added,
		Removed:       summary.Removed,
		Updated:       summary.Updated,
	})
}

func (h *Handler) ListCompetitionTickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitionTickets", requestAttributes(r)...)
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	participantID := strings.TrimSpace(r.URL.Query().Get("participant_id"))
	rows, err := h.ticketService.ListTickets(ctx, competitionID, participantID)
	if err != nil {
		h.logFailure(ctx, "list competition tickets failed", err, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	items := make([]ticketDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ticketToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetParticipantEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParticipantEligibility", requestAttributes(r)...)
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	participantID := strings.TrimSpace(r.PathValue("participantID"))
	verdict, err := h.eligibilityService.CheckEligibility(ctx, competitionID, participantID)
	if err != nil {
		h.logFailure(ctx, "check eligibility failed", err,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eligibilityDTO{
		CompetitionID: competitionID,
		ParticipantID: participantID,
		Eligible:      verdict.Eligible,
		Reason:        verdict.Reason,
	})
}

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCandidates", requestAttributes(r)...)
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	standings, err := h.eligibilityService.GetEligibleCandidates(ctx, competitionID)
	if err != nil {
		h.logFailure(ctx, "list candidates failed", err, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	items := make([]candidateStandingDTO, 0, len(standings))
	for _, standing := range standings {
		items = append(items, candidateStandingDTO{
			ParticipantID: standing.ParticipantID,
			Tickets:       standing.Tickets,
			Eligible:      standing.Eligible,
			Reason:        standing.Reason,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) LockWheel(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockWheel", requestAttributes(r)...)
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	var req lockWheelRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.wheelService.LockWheelSnapshot(ctx, competitionID, req.LockedBy)
	if err != nil {
		h.logFailure(ctx, "lock wheel snapshot failed", err, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, wheelRunToDTO(run))
}

func (h *Handler) GetCompetitionWheel(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionWheel", requestAttributes(r)...)
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	run, err := h.wheelService.GetRunByCompetition(ctx, competitionID)
	if err != nil {
		h.logFailure(ctx, "get competition wheel failed", err, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, wheelRunToDTO(run))
}

func (h *Handler) ListWinners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWinners", requestAttributes(r)...)
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	winners, err := h.wheelService.ListWinners(ctx, competitionID)
	if err != nil {
		h.logFailure(ctx, "list winners failed", err, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	items := make([]winnerDTO, 0, len(winners))
	for _, item := range winners {
		items = append(items, winnerToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DrawWheel(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DrawWheel", requestAttributes(r)...)
	defer span.End()

	runID := strings.TrimSpace(r.PathValue("runID"))
	result, err := h.wheelService.RunWheelDraw(ctx, runID)
	if err != nil {
		h.logFailure(ctx, "run wheel draw failed", err, "run_id", runID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, drawResultDTO{
		Run:    wheelRunToDTO(result.Run),
		Winner: winnerToDTO(result.Winner),
	})
}

func (h *Handler) GetWheelRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWheelRun", requestAttributes(r)...)
	defer span.End()

	runID := strings.TrimSpace(r.PathValue("runID"))
	run, err := h.wheelService.GetRun(ctx, runID)
	if err != nil {
		h.logFailure(ctx, "get wheel run failed", err, "run_id", runID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, wheelRunToDTO(run))
}

func (h *Handler) VerifyWheelRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyWheelRun", requestAttributes(r)...)
	defer span.End()

	runID := strings.TrimSpace(r.PathValue("runID"))
	verification, err := h.wheelService.VerifyRun(ctx, runID)
	if err != nil {
		h.logFailure(ctx, "verify wheel run failed", err, "run_id", runID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, verificationDTO{
		RunID:             runID,
		Valid:             verification.Valid(),
		CommitmentMatches: verification.CommitmentMatches,
		DigestMatches:     verification.DigestMatches,
		TotalMatches:      verification.TotalMatches,
		TicketIndex:       verification.TicketIndex,
		WinnerID:          verification.WinnerID,
		WinnerMatches:     verification.WinnerMatches,
	})
}
