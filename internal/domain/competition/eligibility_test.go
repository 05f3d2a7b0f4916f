package competition

import (
	"errors"
	"testing"
)

func TestEvaluateEligibility(t *testing.T) {
	tests := []struct {
		name     string
		rules    EligibilityRules
		active   int
		correct  int
		eligible bool
		reason   string
	}{
		{
			name:     "no active questions",
			rules:    EligibilityRules{Mode: EligibilityAllCorrect},
			active:   0,
			correct:  0,
			eligible: false,
			reason:   "No active questions",
		},
		{
			name:     "all correct",
			rules:    EligibilityRules{Mode: EligibilityAllCorrect},
			active:   3,
			correct:  3,
			eligible: true,
			reason:   "All questions correct",
		},
		{
			name:     "all correct shortfall",
			rules:    EligibilityRules{Mode: EligibilityAllCorrect},
			active:   3,
			correct:  2,
			eligible: false,
			reason:   "2/3 correct (need all)",
		},
		{
			name:     "min correct reached",
			rules:    EligibilityRules{Mode: EligibilityMinCorrect, MinCorrect: 3},
			active:   5,
			correct:  4,
			eligible: true,
			reason:   "4 correct (min 3)",
		},
		{
			name:     "min correct shortfall",
			rules:    EligibilityRules{Mode: EligibilityMinCorrect, MinCorrect: 3},
			active:   5,
			correct:  2,
			eligible: false,
			reason:   "2/3 correct",
		},
		{
			name:     "min zero always eligible",
			rules:    EligibilityRules{Mode: EligibilityMinCorrect, MinCorrect: 0},
			active:   2,
			correct:  0,
			eligible: true,
			reason:   "0 correct (min 0)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := EvaluateEligibility(tc.rules, tc.active, tc.correct)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Eligible != tc.eligible || got.Reason != tc.reason {
				t.Fatalf("unexpected verdict: got %+v, want eligible=%v reason=%q", got, tc.eligible, tc.reason)
			}
		})
	}
}

func TestEvaluateEligibilityUnknownMode(t *testing.T) {
	got, err := EvaluateEligibility(EligibilityRules{Mode: "majority"}, 3, 3)
	if !errors.Is(err, ErrUnknownEligibilityMode) {
		t.Fatalf("expected ErrUnknownEligibilityMode, got %v", err)
	}
	if got.Eligible || got.Reason != "Unknown eligibility mode" {
		t.Fatalf("unexpected verdict: %+v", got)
	}
}

func TestEligibilityRulesValidate(t *testing.T) {
	if err := (EligibilityRules{Mode: EligibilityMinCorrect}).Validate(); err != nil {
		t.Fatalf("expected min_correct to be valid, got %v", err)
	}
	if err := (EligibilityRules{Mode: "majority"}).Validate(); !errors.Is(err, ErrUnknownEligibilityMode) {
		t.Fatalf("expected ErrUnknownEligibilityMode, got %v", err)
	}
}
