package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
)

type CompetitionRepository struct {
	mu    sync.RWMutex
	items map[string]competition.Competition
}

func NewCompetitionRepository(items []competition.Competition) *CompetitionRepository {
	byID := make(map[string]competition.Competition, len(items))
	for _, item := range items {
		byID[item.ID] = item.Clone()
	}
	return &CompetitionRepository{items: byID}
}

func (r *CompetitionRepository) GetByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[competitionID]
	if !ok {
		return competition.Competition{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *CompetitionRepository) Save(_ context.Context, item competition.Competition) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item.Clone()
	return nil
}
