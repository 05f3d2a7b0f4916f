package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/contest-wheel/internal/domain/question"
)

type QuestionRepository struct {
	mu                     sync.RWMutex
	questionsByCompetition map[string][]question.Question
}

func NewQuestionRepository(items []question.Question) *QuestionRepository {
	byCompetition := make(map[string][]question.Question)
	for _, item := range items {
		byCompetition[item.CompetitionID] = append(byCompetition[item.CompetitionID], item)
	}
	for _, list := range byCompetition {
		sortQuestions(list)
	}
	return &QuestionRepository{questionsByCompetition: byCompetition}
}

func (r *QuestionRepository) ListActiveByCompetition(_ context.Context, competitionID string) ([]question.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.questionsByCompetition[competitionID]
	out := make([]question.Question, 0, len(items))
	for _, item := range items {
		if item.Active {
			out = append(out, item)
		}
	}
	return out, nil
}

// Save inserts or replaces a question by id.
func (r *QuestionRepository) Save(_ context.Context, item question.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.questionsByCompetition[item.CompetitionID]
	for i := range list {
		if list[i].ID == item.ID {
			list[i] = item
			sortQuestions(list)
			return nil
		}
	}
	list = append(list, item)
	sortQuestions(list)
	r.questionsByCompetition[item.CompetitionID] = list
	return nil
}

func sortQuestions(items []question.Question) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
}
