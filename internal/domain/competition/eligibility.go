package competition

import (
	"errors"
	"fmt"
)

var ErrUnknownEligibilityMode = errors.New("unknown eligibility mode")

const (
	reasonNoActiveQuestions = "No active questions"
	reasonAllCorrect        = "All questions correct"
	reasonUnknownMode       = "Unknown eligibility mode"
)

// Eligibility is the draw-eligibility verdict for one participant.
type Eligibility struct {
	Eligible bool
	Reason   string
}

// Validate fails with ErrUnknownEligibilityMode for modes the evaluator does
// not implement.
func (r EligibilityRules) Validate() error {
	switch r.Mode {
	case EligibilityAllCorrect, EligibilityMinCorrect:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEligibilityMode, r.Mode)
	}
}

// EvaluateEligibility decides draw eligibility from the number of active
// questions and the participant's correct answers. An unrecognized mode
// returns a not-eligible verdict together with ErrUnknownEligibilityMode.
func EvaluateEligibility(rules EligibilityRules, activeQuestions, correct int) (Eligibility, error) {
	if activeQuestions <= 0 {
		return Eligibility{Eligible: false, Reason: reasonNoActiveQuestions}, nil
	}

	switch rules.Mode {
	case EligibilityAllCorrect:
		if correct == activeQuestions {
			return Eligibility{Eligible: true, Reason: reasonAllCorrect}, nil
		}
		return Eligibility{
			Eligible: false,
			Reason:   fmt.Sprintf("%d/%d correct (need all)", correct, activeQuestions),
		}, nil
	case EligibilityMinCorrect:
		if correct >= rules.MinCorrect {
			return Eligibility{
				Eligible: true,
				Reason:   fmt.Sprintf("%d correct (min %d)", correct, rules.MinCorrect),
			}, nil
		}
		return Eligibility{
			Eligible: false,
			Reason:   fmt.Sprintf("%d/%d correct", correct, rules.MinCorrect),
		}, nil
	default:
		return Eligibility{Eligible: false, Reason: reasonUnknownMode}, rules.Validate()
	}
}
