package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/contest-wheel/internal/domain/question"
	qb "github.com/riskibarqy/contest-wheel/internal/platform/querybuilder"
)

type QuestionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListActiveByCompetition(ctx context.Context, competitionID string) ([]question.Question, error) {
	query, args, err := qb.Select(questionColumns...).From("questions").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("active", true),
		).
		OrderBy("position", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active questions query: %w", err)
	}

	var rows []questionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}

	out := make([]question.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, question.Question{
			ID:            row.PublicID,
			CompetitionID: row.CompetitionPublicID,
			Title:         row.Title,
			Position:      row.Position,
			Active:        row.Active,
		})
	}
	return out, nil
}
