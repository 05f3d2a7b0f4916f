package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/question"
	basecache "github.com/riskibarqy/contest-wheel/internal/platform/cache"
)

// CompetitionRepository caches competition lookups, misses included. Rules
// are edited outside this service, so staleness is bounded by the store ttl.
type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store[cachedCompetition]
}

type cachedCompetition struct {
	value  competition.Competition
	exists bool
}

func NewCompetitionRepository(next competition.Repository, ttl time.Duration) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: basecache.NewStore[cachedCompetition](ttl)}
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, "competition:id:"+competitionID, func(ctx context.Context) (cachedCompetition, error) {
		item, exists, err := r.next.GetByID(ctx, competitionID)
		if err != nil {
			return cachedCompetition{}, err
		}
		return cachedCompetition{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return competition.Competition{}, false, err
	}
	return cached.value.Clone(), cached.exists, nil
}

type QuestionRepository struct {
	next  question.Repository
	cache *basecache.Store[[]question.Question]
}

func NewQuestionRepository(next question.Repository, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{next: next, cache: basecache.NewStore[[]question.Question](ttl)}
}

func (r *QuestionRepository) ListActiveByCompetition(ctx context.Context, competitionID string) ([]question.Question, error) {
	items, err := r.cache.GetOrLoad(ctx, "question:active:"+competitionID, func(ctx context.Context) ([]question.Question, error) {
		items, err := r.next.ListActiveByCompetition(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]question.Question(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]question.Question(nil), items...), nil
}
