package competition

import (
	"fmt"
	"time"
)

type EarlyBonusMode string

const (
	EarlyBonusNone  EarlyBonusMode = "none"
	EarlyBonusTiers EarlyBonusMode = "tiers"
)

type EligibilityMode string

const (
	EligibilityAllCorrect EligibilityMode = "all_correct"
	EligibilityMinCorrect EligibilityMode = "min_correct"
)

// BonusTier grants Bonus extra tickets to answers submitted within
// [FromHours, ToHours) of the competition reference time.
type BonusTier struct {
	FromHours float64
	ToHours   float64
	Bonus     int
}

// Contains reports whether hours falls inside the half-open tier window.
func (t BonusTier) Contains(hours float64) bool {
	return t.FromHours <= hours && hours < t.ToHours
}

// TicketRules describes how many tickets a correct answer earns.
// Tiers keep their stored order; when windows overlap the first match wins.
type TicketRules struct {
	BasePerCorrect int
	EarlyBonusMode EarlyBonusMode
	Tiers          []BonusTier
}

type EligibilityRules struct {
	Mode       EligibilityMode
	MinCorrect int
}

// Competition is a contest whose correct answers earn wheel tickets.
type Competition struct {
	ID               string
	Title            string
	TicketRules      *TicketRules
	EligibilityRules EligibilityRules
	PublishedAt      *time.Time
	CreatedAt        time.Time
}

// ReferenceTime is the anchor for early bonus windows: publication time,
// falling back to creation time for competitions never published.
func (c Competition) ReferenceTime() time.Time {
	if c.PublishedAt != nil && !c.PublishedAt.IsZero() {
		return *c.PublishedAt
	}
	return c.CreatedAt
}

// Clone returns a copy that shares no rules or timestamps with c.
func (c Competition) Clone() Competition {
	copied := c
	if c.TicketRules != nil {
		rules := *c.TicketRules
		rules.Tiers = append([]BonusTier(nil), c.TicketRules.Tiers...)
		copied.TicketRules = &rules
	}
	if c.PublishedAt != nil {
		published := *c.PublishedAt
		copied.PublishedAt = &published
	}
	return copied
}

func (c Competition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("competition id is required")
	}
	if c.CreatedAt.IsZero() {
		return fmt.Errorf("competition created at is required")
	}

	return nil
}
