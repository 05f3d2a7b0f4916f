package httpapi

import (
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/ticket"
	"github.com/riskibarqy/contest-wheel/internal/domain/wheel"
	"github.com/riskibarqy/contest-wheel/internal/usecase"
)

type ticketDTO struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competition_id"`
	ParticipantID string `json:"participant_id"`
	SubmissionID  string `json:"submission_id"`
	QuestionID    string `json:"question_id,omitempty"`
	Count         int    `json:"count"`
	Reason        string `json:"reason"`
	CreatedAt     string `json:"created_at"`
}

type ticketUpsertDTO struct {
	SubmissionID string     `json:"submission_id"`
	Count        int        `json:"count"`
	Reason       string     `json:"reason"`
	Ticket       *ticketDTO `json:"ticket,omitempty"`
}

type recalculationSummaryDTO struct {
	CompetitionID string `json:"competition_id"`
	BeforeTickets int    `json:"before_tickets"`
	AfterTickets  int    `json:"after_tickets"`
	BeforeRecords int    `json:"before_records"`
	AfterRecords  int    `json:"after_records"`
	Added         int    `json:"added"`
	Removed       int    `json:"removed"`
	Updated       int    `json:"updated"`
}

type eligibilityDTO struct {
	CompetitionID string `json:"competition_id"`
	ParticipantID string `json:"participant_id"`
	Eligible      bool   `json:"eligible"`
	Reason        string `json:"reason"`
}

type candidateStandingDTO struct {
	ParticipantID string `json:"participant_id"`
	Tickets       int64  `json:"tickets"`
	Eligible      bool   `json:"eligible"`
	Reason        string `json:"reason"`
}

type wheelCandidateDTO struct {
	ParticipantID string `json:"participant_id"`
	Tickets       int64  `json:"tickets"`
}

type wheelRunDTO struct {
	ID                string              `json:"id"`
	CompetitionID     string              `json:"competition_id"`
	Status            string              `json:"status"`
	LockedAt          string              `json:"locked_at"`
	LockedBy          string              `json:"locked_by"`
	RunAt             string              `json:"run_at,omitempty"`
	Candidates        []wheelCandidateDTO `json:"candidates"`
	TotalTickets      int64               `json:"total_tickets"`
	WinnerID          string              `json:"winner_id,omitempty"`
	WinnerTicketIndex *int64              `json:"winner_ticket_index,omitempty"`
	Seed              string              `json:"seed,omitempty"`
	SeedCommitment    string              `json:"seed_commitment"`
	SnapshotDigest    string              `json:"snapshot_digest"`
}

type winnerDTO struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competition_id"`
	ParticipantID string `json:"participant_id"`
	WheelRunID    string `json:"wheel_run_id"`
	RunAt         string `json:"run_at"`
	Notes         string `json:"notes,omitempty"`
}

type drawResultDTO struct {
	Run    wheelRunDTO `json:"run"`
	Winner winnerDTO   `json:"winner"`
}

type verificationDTO struct {
	RunID             string `json:"run_id"`
	Valid             bool   `json:"valid"`
	CommitmentMatches bool   `json:"commitment_matches"`
	DigestMatches     bool   `json:"digest_matches"`
	TotalMatches      bool   `json:"total_matches"`
	TicketIndex       int64  `json:"ticket_index"`
	WinnerID          string `json:"winner_id"`
	WinnerMatches     bool   `json:"winner_matches"`
}

func ticketToDTO(v ticket.Ticket) ticketDTO {
	return ticketDTO{
		ID:            v.ID,
		CompetitionID: v.CompetitionID,
		ParticipantID: v.ParticipantID,
		SubmissionID:  v.SubmissionID,
		QuestionID:    v.QuestionID,
		Count:         v.Count,
		Reason:        v.Reason,
		CreatedAt:     formatTime(v.CreatedAt),
	}
}

func ticketUpsertToDTO(v usecase.TicketUpsertResult) ticketUpsertDTO {
	out := ticketUpsertDTO{
		SubmissionID: v.SubmissionID,
		Count:        v.Count,
		Reason:       v.Reason,
	}
	if v.Ticket != nil {
		row := ticketToDTO(*v.Ticket)
		out.Ticket = &row
	}
	return out
}

// wheelRunToDTO withholds the seed of a ready run. Publishing it before the
// draw would let anyone compute the winner in advance.
func wheelRunToDTO(v wheel.Run) wheelRunDTO {
	candidates := make([]wheelCandidateDTO, 0, len(v.Candidates))
	for _, c := range v.Candidates {
		candidates = append(candidates, wheelCandidateDTO{ParticipantID: c.ParticipantID, Tickets: c.Tickets})
	}

	out := wheelRunDTO{
		ID:             v.ID,
		CompetitionID:  v.CompetitionID,
		Status:         string(v.Status),
		LockedAt:       formatTime(v.LockedAt),
		LockedBy:       v.LockedBy,
		Candidates:     candidates,
		TotalTickets:   v.TotalTickets,
		WinnerID:       v.WinnerID,
		SeedCommitment: v.SeedCommitment,
		SnapshotDigest: v.SnapshotDigest,
	}
	if v.RunAt != nil {
		out.RunAt = formatTime(*v.RunAt)
	}
	if v.WinnerTicketIndex != nil {
		index := *v.WinnerTicketIndex
		out.WinnerTicketIndex = &index
	}
	if !v.IsReady() {
		out.Seed = v.Seed
	}
	return out
}

func winnerToDTO(v wheel.Winner) winnerDTO {
	return winnerDTO{
		ID:            v.ID,
		CompetitionID: v.CompetitionID,
		ParticipantID: v.ParticipantID,
		WheelRunID:    v.WheelRunID,
		RunAt:         formatTime(v.RunAt),
		Notes:         v.Notes,
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
