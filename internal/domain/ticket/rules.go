package ticket

import (
	"fmt"
	"strconv"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/submission"
)

const (
	reasonIncorrect = "incorrect answer"
	reasonNoRules   = "base 1 (no rules defined)"
)

// Computation is the ticket count earned by one submission and a
// human-readable account of how it was derived.
type Computation struct {
	Count  int
	Reason string
}

// ComputeTicketCount applies the competition ticket rules to a reviewed
// submission. It has no side effects.
//
// Early bonus tiers are scanned in stored order and the first tier whose
// [FromHours, ToHours) window contains the submission age wins, so
// overlapping tiers resolve to whichever is listed first.
func ComputeTicketCount(c competition.Competition, s submission.Submission) Computation {
	if !s.IsCorrect() {
		return Computation{Count: 0, Reason: reasonIncorrect}
	}

	rules := c.TicketRules
	if rules == nil {
		return Computation{Count: 1, Reason: reasonNoRules}
	}

	count := rules.BasePerCorrect
	reason := fmt.Sprintf("base %d", count)

	if rules.EarlyBonusMode == competition.EarlyBonusTiers && len(rules.Tiers) > 0 {
		hoursDiff := s.SubmittedAt.Sub(c.ReferenceTime()).Hours()
		if tier, ok := firstMatchingTier(rules.Tiers, hoursDiff); ok && tier.Bonus > 0 {
			count += tier.Bonus
			reason += fmt.Sprintf(" + early bonus %d (%s-%sh)", tier.Bonus, formatHours(tier.FromHours), formatHours(tier.ToHours))
		}
	}

	return Computation{Count: count, Reason: reason}
}

// NewFromComputation builds the ledger row for a submission. ok is false when
// the computation earns no tickets, in which case nothing must be persisted.
func NewFromComputation(id string, s submission.Submission, computed Computation, now time.Time) (Ticket, bool) {
	if computed.Count <= 0 {
		return Ticket{}, false
	}

	return Ticket{
		ID:            id,
		CompetitionID: s.CompetitionID,
		ParticipantID: s.ParticipantID,
		SubmissionID:  s.ID,
		QuestionID:    s.QuestionID,
		Count:         computed.Count,
		Reason:        computed.Reason,
		CreatedAt:     now,
	}, true
}

func firstMatchingTier(tiers []competition.BonusTier, hours float64) (competition.BonusTier, bool) {
	for _, tier := range tiers {
		if tier.Contains(hours) {
			return tier, true
		}
	}
	return competition.BonusTier{}, false
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
