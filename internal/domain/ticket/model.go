package ticket

import (
	"fmt"
	"time"
)

// Ticket is the ledger row derived from one correct submission. Count is
// always > 0 for persisted rows.
type Ticket struct {
	ID            string
	CompetitionID string
	ParticipantID string
	SubmissionID  string
	QuestionID    string
	Count         int
	Reason        string
	CreatedAt     time.Time
}

func (t Ticket) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("ticket id is required")
	}
	if t.CompetitionID == "" {
		return fmt.Errorf("competition id is required")
	}
	if t.ParticipantID == "" {
		return fmt.Errorf("participant id is required")
	}
	if t.SubmissionID == "" {
		return fmt.Errorf("submission id is required")
	}
	if t.Count <= 0 {
		return fmt.Errorf("ticket count must be greater than zero")
	}

	return nil
}

// Sum returns the total ticket count of items.
func Sum(items []Ticket) int {
	total := 0
	for _, item := range items {
		total += item.Count
	}
	return total
}
