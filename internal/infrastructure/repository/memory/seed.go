package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/question"
	"github.com/riskibarqy/contest-wheel/internal/domain/submission"
)

const (
	CompetitionIDSpringQuiz = "spring-quiz-2026"
	CompetitionIDOpenTrivia = "open-trivia-2026"
)

var seedPublishedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func SeedCompetitions() []competition.Competition {
	published := seedPublishedAt
	return []competition.Competition{
		{
			ID:    CompetitionIDSpringQuiz,
			Title: "Spring Quiz",
			TicketRules: &competition.TicketRules{
				BasePerCorrect: 1,
				EarlyBonusMode: competition.EarlyBonusTiers,
				Tiers: []competition.BonusTier{
					{FromHours: 0, ToHours: 24, Bonus: 2},
					{FromHours: 24, ToHours: 72, Bonus: 1},
				},
			},
			EligibilityRules: competition.EligibilityRules{Mode: competition.EligibilityAllCorrect},
			PublishedAt:      &published,
			CreatedAt:        published.Add(-24 * time.Hour),
		},
		{
			ID:               CompetitionIDOpenTrivia,
			Title:            "Open Trivia",
			EligibilityRules: competition.EligibilityRules{Mode: competition.EligibilityMinCorrect, MinCorrect: 2},
			CreatedAt:        published,
		},
	}
}

func SeedQuestions() []question.Question {
	out := make([]question.Question, 0, 6)
	for _, competitionID := range []string{CompetitionIDSpringQuiz, CompetitionIDOpenTrivia} {
		for position := 1; position <= 3; position++ {
			out = append(out, question.Question{
				ID:            fmt.Sprintf("%s-q%d", competitionID, position),
				CompetitionID: competitionID,
				Title:         fmt.Sprintf("Question %d", position),
				Position:      position,
				Active:        true,
			})
		}
	}
	return out
}

// SeedSubmissions gives every demo participant a different mix of correct
// answers and submission times.
func SeedSubmissions() []submission.Submission {
	type answer struct {
		participantID string
		correct       []bool
		afterHours    float64
	}
	answers := []answer{
		{participantID: "alice", correct: []bool{true, true, true}, afterHours: 2},
		{participantID: "bob", correct: []bool{true, true, true}, afterHours: 30},
		{participantID: "carol", correct: []bool{true, false, true}, afterHours: 5},
		{participantID: "dave", correct: []bool{true, true, true}, afterHours: 100},
	}

	out := make([]submission.Submission, 0, len(answers)*6)
	for _, competitionID := range []string{CompetitionIDSpringQuiz, CompetitionIDOpenTrivia} {
		for _, a := range answers {
			for i, ok := range a.correct {
				result := submission.ResultIncorrect
				if ok {
					result = submission.ResultCorrect
				}
				out = append(out, submission.Submission{
					ID:            fmt.Sprintf("%s-%s-q%d", competitionID, a.participantID, i+1),
					CompetitionID: competitionID,
					ParticipantID: a.participantID,
					QuestionID:    fmt.Sprintf("%s-q%d", competitionID, i+1),
					FinalResult:   result,
					SubmittedAt:   seedPublishedAt.Add(time.Duration(a.afterHours*float64(time.Hour)) + time.Duration(i)*time.Minute),
				})
			}
		}
	}
	return out
}
