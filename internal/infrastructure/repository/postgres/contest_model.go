package postgres

import (
	"database/sql"
	"time"
)

var competitionColumns = []string{"public_id", "title", "rules", "published_at", "created_at"}

type competitionTableModel struct {
	PublicID    string       `db:"public_id"`
	Title       string       `db:"title"`
	Rules       []byte       `db:"rules"`
	PublishedAt sql.NullTime `db:"published_at"`
	CreatedAt   time.Time    `db:"created_at"`
}

var questionColumns = []string{"public_id", "competition_public_id", "title", "position", "active"}

type questionTableModel struct {
	PublicID            string `db:"public_id"`
	CompetitionPublicID string `db:"competition_public_id"`
	Title               string `db:"title"`
	Position            int    `db:"position"`
	Active              bool   `db:"active"`
}

var submissionColumns = []string{
	"public_id",
	"competition_public_id",
	"participant_id",
	"question_public_id",
	"final_result",
	"submitted_at",
}

type submissionTableModel struct {
	PublicID            string    `db:"public_id"`
	CompetitionPublicID string    `db:"competition_public_id"`
	ParticipantID       string    `db:"participant_id"`
	QuestionPublicID    string    `db:"question_public_id"`
	FinalResult         string    `db:"final_result"`
	SubmittedAt         time.Time `db:"submitted_at"`
}

var ticketColumns = []string{
	"public_id",
	"competition_public_id",
	"participant_id",
	"submission_public_id",
	"question_public_id",
	"ticket_count",
	"reason",
	"created_at",
}

type ticketTableModel struct {
	PublicID            string    `db:"public_id"`
	CompetitionPublicID string    `db:"competition_public_id"`
	ParticipantID       string    `db:"participant_id"`
	SubmissionPublicID  string    `db:"submission_public_id"`
	QuestionPublicID    string    `db:"question_public_id"`
	TicketCount         int       `db:"ticket_count"`
	Reason              string    `db:"reason"`
	CreatedAt           time.Time `db:"created_at"`
}

// ticketInsertModel mirrors ticketTableModel; the column order must match
// ticketColumns for bulk inserts.
type ticketInsertModel struct {
	PublicID            string    `db:"public_id"`
	CompetitionPublicID string    `db:"competition_public_id"`
	ParticipantID       string    `db:"participant_id"`
	SubmissionPublicID  string    `db:"submission_public_id"`
	QuestionPublicID    string    `db:"question_public_id"`
	TicketCount         int       `db:"ticket_count"`
	Reason              string    `db:"reason"`
	CreatedAt           time.Time `db:"created_at"`
}

var wheelRunColumns = []string{
	"public_id",
	"competition_public_id",
	"status",
	"locked_at",
	"locked_by",
	"run_at",
	"candidates",
	"total_tickets",
	"winner_participant_id",
	"winner_ticket_index",
	"seed",
	"seed_commitment",
	"snapshot_digest",
}

type wheelRunTableModel struct {
	PublicID            string         `db:"public_id"`
	CompetitionPublicID string         `db:"competition_public_id"`
	Status              string         `db:"status"`
	LockedAt            time.Time      `db:"locked_at"`
	LockedBy            string         `db:"locked_by"`
	RunAt               sql.NullTime   `db:"run_at"`
	Candidates          []byte         `db:"candidates"`
	TotalTickets        int64          `db:"total_tickets"`
	WinnerParticipantID sql.NullString `db:"winner_participant_id"`
	WinnerTicketIndex   sql.NullInt64  `db:"winner_ticket_index"`
	Seed                string         `db:"seed"`
	SeedCommitment      string         `db:"seed_commitment"`
	SnapshotDigest      string         `db:"snapshot_digest"`
}

type wheelRunInsertModel struct {
	PublicID            string    `db:"public_id"`
	CompetitionPublicID string    `db:"competition_public_id"`
	Status              string    `db:"status"`
	LockedAt            time.Time `db:"locked_at"`
	LockedBy            string    `db:"locked_by"`
	Candidates          []byte    `db:"candidates"`
	TotalTickets        int64     `db:"total_tickets"`
	Seed                string    `db:"seed"`
	SeedCommitment      string    `db:"seed_commitment"`
	SnapshotDigest      string    `db:"snapshot_digest"`
}

// candidateDocument is the jsonb element stored in wheel_runs.candidates.
type candidateDocument struct {
	ParticipantID string `json:"participant_id"`
	Tickets       int64  `json:"tickets"`
}

var winnerColumns = []string{
	"public_id",
	"competition_public_id",
	"participant_id",
	"wheel_run_public_id",
	"run_at",
	"notes",
}

type winnerTableModel struct {
	PublicID            string    `db:"public_id"`
	CompetitionPublicID string    `db:"competition_public_id"`
	ParticipantID       string    `db:"participant_id"`
	WheelRunPublicID    string    `db:"wheel_run_public_id"`
	RunAt               time.Time `db:"run_at"`
	Notes               string    `db:"notes"`
}
