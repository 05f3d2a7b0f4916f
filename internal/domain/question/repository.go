package question

import "context"

type Repository interface {
	ListActiveByCompetition(ctx context.Context, competitionID string) ([]Question, error)
}
