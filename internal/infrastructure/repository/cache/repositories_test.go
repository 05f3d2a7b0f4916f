package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/question"
)

type countingCompetitionRepo struct {
	calls int
	item  competition.Competition
	err   error
}

func (r *countingCompetitionRepo) GetByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	r.calls++
	if r.err != nil {
		return competition.Competition{}, false, r.err
	}
	if competitionID != r.item.ID {
		return competition.Competition{}, false, nil
	}
	return r.item, true, nil
}

type countingQuestionRepo struct {
	calls int
	items []question.Question
}

func (r *countingQuestionRepo) ListActiveByCompetition(_ context.Context, _ string) ([]question.Question, error) {
	r.calls++
	return r.items, nil
}

func TestCompetitionRepositoryCachesHitsAndMisses(t *testing.T) {
	next := &countingCompetitionRepo{item: competition.Competition{
		ID:          "c1",
		TicketRules: &competition.TicketRules{BasePerCorrect: 2},
	}}
	repo := NewCompetitionRepository(next, time.Minute)
	ctx := context.Background()

	first, ok, err := repo.GetByID(ctx, "c1")
	if err != nil || !ok {
		t.Fatalf("expected competition, got ok=%v err=%v", ok, err)
	}
	first.TicketRules.BasePerCorrect = 99

	second, _, _ := repo.GetByID(ctx, "c1")
	if second.TicketRules.BasePerCorrect != 2 {
		t.Fatalf("cached value must not be shared with callers")
	}
	if _, ok, _ := repo.GetByID(ctx, "missing"); ok {
		t.Fatalf("expected miss")
	}
	if _, ok, _ := repo.GetByID(ctx, "missing"); ok {
		t.Fatalf("expected cached miss")
	}
	if next.calls != 2 {
		t.Fatalf("expected one load per key, got %d", next.calls)
	}
}

func TestCompetitionRepositoryDoesNotCacheErrors(t *testing.T) {
	next := &countingCompetitionRepo{err: errors.New("db down")}
	repo := NewCompetitionRepository(next, time.Minute)

	for i := 0; i < 2; i++ {
		if _, _, err := repo.GetByID(context.Background(), "c1"); err == nil {
			t.Fatalf("expected error")
		}
	}
	if next.calls != 2 {
		t.Fatalf("expected every failing call to reach the store, got %d", next.calls)
	}
}

func TestQuestionRepositoryCachesList(t *testing.T) {
	next := &countingQuestionRepo{items: []question.Question{{ID: "q1", Active: true}}}
	repo := NewQuestionRepository(next, time.Minute)

	items, err := repo.ListActiveByCompetition(context.Background(), "c1")
	if err != nil || len(items) != 1 {
		t.Fatalf("unexpected result: %+v %v", items, err)
	}
	items[0].ID = "mutated"

	again, _ := repo.ListActiveByCompetition(context.Background(), "c1")
	if again[0].ID != "q1" || next.calls != 1 {
		t.Fatalf("expected cached copy, got %+v after %d calls", again, next.calls)
	}
}
