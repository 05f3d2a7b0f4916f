package wheel

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusReady Status = "ready"
	StatusDone  Status = "done"
)

// Candidate is one frozen entry of a locked snapshot.
type Candidate struct {
	ParticipantID string
	Tickets       int64
}

// Run is the locked, single-shot draw record of one competition. The
// candidate snapshot, total and seed are fixed at lock time; only the
// outcome fields are written, once, by the draw.
type Run struct {
	ID                string
	CompetitionID     string
	Status            Status
	LockedAt          time.Time
	LockedBy          string
	RunAt             *time.Time
	Candidates        []Candidate
	TotalTickets      int64
	WinnerID          string
	WinnerTicketIndex *int64
	Seed              string
	SeedCommitment    string
	SnapshotDigest    string
}

func (r Run) IsReady() bool {
	return r.Status == StatusReady
}

// Clone returns a copy that shares no mutable state with r.
func (r Run) Clone() Run {
	copied := r
	copied.Candidates = append([]Candidate(nil), r.Candidates...)
	if r.RunAt != nil {
		runAt := *r.RunAt
		copied.RunAt = &runAt
	}
	if r.WinnerTicketIndex != nil {
		index := *r.WinnerTicketIndex
		copied.WinnerTicketIndex = &index
	}
	return copied
}

// Outcome is the patch applied to a run when its draw completes.
type Outcome struct {
	RunAt             time.Time
	WinnerID          string
	WinnerTicketIndex int64
}

// Apply returns r transitioned to done with the outcome recorded.
func (r Run) Apply(outcome Outcome) Run {
	done := r.Clone()
	runAt := outcome.RunAt
	index := outcome.WinnerTicketIndex
	done.Status = StatusDone
	done.RunAt = &runAt
	done.WinnerID = outcome.WinnerID
	done.WinnerTicketIndex = &index
	return done
}

// Winner is the audit record created exactly once per completed draw.
type Winner struct {
	ID            string
	CompetitionID string
	ParticipantID string
	WheelRunID    string
	RunAt         time.Time
	Notes         string
}

func (w Winner) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("winner id is required")
	}
	if w.CompetitionID == "" {
		return fmt.Errorf("competition id is required")
	}
	if w.ParticipantID == "" {
		return fmt.Errorf("participant id is required")
	}
	if w.WheelRunID == "" {
		return fmt.Errorf("wheel run id is required")
	}

	return nil
}

// SumTickets returns the ticket total of a snapshot.
func SumTickets(candidates []Candidate) int64 {
	var total int64
	for _, c := range candidates {
		total += c.Tickets
	}
	return total
}
