package competition

import (
	"bytes"
	"errors"
	"fmt"

	sonic "github.com/bytedance/sonic"
)

var ErrInvalidRules = errors.New("invalid competition rules")

// RulesVersion is the schema version written by EncodeRules.
const RulesVersion = 2

// Rules is the normalized form of a stored rules document.
// A nil Ticket means the competition defines no ticket rules at all.
type Rules struct {
	Ticket      *TicketRules
	Eligibility EligibilityRules
}

func DefaultRules() Rules {
	return Rules{
		Eligibility: EligibilityRules{Mode: EligibilityAllCorrect},
	}
}

// rulesDocument accepts both stored shapes. Version 0/1 documents carry the
// legacy flat keys; version 2 documents nest ticket and eligibility rules.
type rulesDocument struct {
	Version          int                  `json:"version,omitempty"`
	TicketRules      *ticketRulesDoc      `json:"ticket_rules,omitempty"`
	EligibilityRules *eligibilityRulesDoc `json:"eligibility_rules,omitempty"`
	BasePerCorrect   *int                 `json:"base_per_correct,omitempty"`
	EarlyBonusMode   string               `json:"early_bonus_mode,omitempty"`
	EarlyBonusTiers  []tierDoc            `json:"early_bonus_tiers,omitempty"`
	EligibilityMode  string               `json:"eligibility_mode,omitempty"`
	MinCorrect       *int                 `json:"min_correct,omitempty"`
}

type ticketRulesDoc struct {
	BasePerCorrect *int           `json:"base_per_correct,omitempty"`
	EarlyBonus     *earlyBonusDoc `json:"early_bonus,omitempty"`
}

type earlyBonusDoc struct {
	Mode  string    `json:"mode"`
	Tiers []tierDoc `json:"tiers,omitempty"`
}

type tierDoc struct {
	FromHours float64 `json:"from_hours"`
	ToHours   float64 `json:"to_hours"`
	Bonus     int     `json:"bonus"`
}

type eligibilityRulesDoc struct {
	Mode       string `json:"mode"`
	MinCorrect int    `json:"min_correct"`
}

// DecodeRules normalizes a stored rules document of any supported version.
// Empty input yields DefaultRules.
func DecodeRules(raw []byte) (Rules, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return DefaultRules(), nil
	}

	var doc rulesDocument
	if err := sonic.Unmarshal(trimmed, &doc); err != nil {
		return Rules{}, fmt.Errorf("%w: decode document: %v", ErrInvalidRules, err)
	}

	switch doc.Version {
	case 0, 1:
		return normalizeLegacy(doc)
	case RulesVersion:
		return normalizeCurrent(doc)
	default:
		return Rules{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidRules, doc.Version)
	}
}

// EncodeRules always writes the current document version.
func EncodeRules(rules Rules) ([]byte, error) {
	doc := rulesDocument{
		Version: RulesVersion,
		EligibilityRules: &eligibilityRulesDoc{
			Mode:       string(rules.Eligibility.Mode),
			MinCorrect: rules.Eligibility.MinCorrect,
		},
	}
	if doc.EligibilityRules.Mode == "" {
		doc.EligibilityRules.Mode = string(EligibilityAllCorrect)
	}
	if rules.Ticket != nil {
		base := rules.Ticket.BasePerCorrect
		mode := rules.Ticket.EarlyBonusMode
		if mode == "" {
			mode = EarlyBonusNone
		}
		tiers := make([]tierDoc, 0, len(rules.Ticket.Tiers))
		for _, tier := range rules.Ticket.Tiers {
			tiers = append(tiers, tierDoc(tier))
		}
		doc.TicketRules = &ticketRulesDoc{
			BasePerCorrect: &base,
			EarlyBonus:     &earlyBonusDoc{Mode: string(mode), Tiers: tiers},
		}
	}

	out, err := sonic.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode rules document: %w", err)
	}
	return out, nil
}

func normalizeLegacy(doc rulesDocument) (Rules, error) {
	rules := DefaultRules()

	if doc.BasePerCorrect != nil || doc.EarlyBonusMode != "" || len(doc.EarlyBonusTiers) > 0 {
		ticketRules, err := normalizeTicketRules(doc.BasePerCorrect, doc.EarlyBonusMode, doc.EarlyBonusTiers)
		if err != nil {
			return Rules{}, err
		}
		rules.Ticket = ticketRules
	}

	minCorrect := 0
	if doc.MinCorrect != nil {
		minCorrect = *doc.MinCorrect
	}
	eligibility, err := normalizeEligibilityRules(doc.EligibilityMode, minCorrect)
	if err != nil {
		return Rules{}, err
	}
	rules.Eligibility = eligibility

	return rules, nil
}

func normalizeCurrent(doc rulesDocument) (Rules, error) {
	rules := DefaultRules()

	if doc.TicketRules != nil {
		mode := ""
		var tiers []tierDoc
		if doc.TicketRules.EarlyBonus != nil {
			mode = doc.TicketRules.EarlyBonus.Mode
			tiers = doc.TicketRules.EarlyBonus.Tiers
		}
		ticketRules, err := normalizeTicketRules(doc.TicketRules.BasePerCorrect, mode, tiers)
		if err != nil {
			return Rules{}, err
		}
		rules.Ticket = ticketRules
	}

	if doc.EligibilityRules != nil {
		eligibility, err := normalizeEligibilityRules(doc.EligibilityRules.Mode, doc.EligibilityRules.MinCorrect)
		if err != nil {
			return Rules{}, err
		}
		rules.Eligibility = eligibility
	}

	return rules, nil
}

func normalizeTicketRules(base *int, mode string, tiers []tierDoc) (*TicketRules, error) {
	out := &TicketRules{BasePerCorrect: 1, EarlyBonusMode: EarlyBonusNone}
	if base != nil {
		if *base < 0 {
			return nil, fmt.Errorf("%w: base_per_correct must be >= 0, got %d", ErrInvalidRules, *base)
		}
		out.BasePerCorrect = *base
	}

	switch EarlyBonusMode(mode) {
	case "", EarlyBonusNone:
		out.EarlyBonusMode = EarlyBonusNone
	case EarlyBonusTiers:
		out.EarlyBonusMode = EarlyBonusTiers
	default:
		return nil, fmt.Errorf("%w: unknown early bonus mode %q", ErrInvalidRules, mode)
	}

	out.Tiers = make([]BonusTier, 0, len(tiers))
	for i, tier := range tiers {
		if tier.FromHours >= tier.ToHours {
			return nil, fmt.Errorf("%w: tier %d window %v-%v is empty", ErrInvalidRules, i, tier.FromHours, tier.ToHours)
		}
		if tier.Bonus < 0 {
			return nil, fmt.Errorf("%w: tier %d bonus must be >= 0, got %d", ErrInvalidRules, i, tier.Bonus)
		}
		out.Tiers = append(out.Tiers, BonusTier(tier))
	}

	return out, nil
}

// normalizeEligibilityRules keeps unrecognized modes as-is so evaluation
// can refuse them explicitly instead of silently picking a default.
func normalizeEligibilityRules(mode string, minCorrect int) (EligibilityRules, error) {
	if minCorrect < 0 {
		return EligibilityRules{}, fmt.Errorf("%w: min_correct must be >= 0, got %d", ErrInvalidRules, minCorrect)
	}
	if mode == "" {
		mode = string(EligibilityAllCorrect)
	}

	return EligibilityRules{Mode: EligibilityMode(mode), MinCorrect: minCorrect}, nil
}
