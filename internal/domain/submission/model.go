package submission

import "time"

type FinalResult string

const (
	ResultCorrect   FinalResult = "correct"
	ResultIncorrect FinalResult = "incorrect"
	ResultPending   FinalResult = "pending"
)

// Submission is one participant answer. Its FinalResult is owned by the
// review workflow; the draw core only reads it.
type Submission struct {
	ID            string
	CompetitionID string
	ParticipantID string
	QuestionID    string
	FinalResult   FinalResult
	SubmittedAt   time.Time
}

func (s Submission) IsCorrect() bool {
	return s.FinalResult == ResultCorrect
}
