package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	qb "github.com/riskibarqy/contest-wheel/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	query, args, err := qb.Select(competitionColumns...).From("competitions").
		Where(qb.Eq("public_id", competitionID)).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build get competition by id query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition by id: %w", err)
	}

	item, err := competitionFromRow(row)
	if err != nil {
		return competition.Competition{}, false, err
	}
	return item, true, nil
}

func competitionFromRow(row competitionTableModel) (competition.Competition, error) {
	rules, err := competition.DecodeRules(row.Rules)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("decode rules of competition %s: %w", row.PublicID, err)
	}

	return competition.Competition{
		ID:               row.PublicID,
		Title:            row.Title,
		TicketRules:      rules.Ticket,
		EligibilityRules: rules.Eligibility,
		PublishedAt:      nullTimeToPtr(row.PublishedAt),
		CreatedAt:        row.CreatedAt.UTC(),
	}, nil
}

// lockCompetitionRow takes the row lock that serializes ledger rebuilds and
// wheel locks of one competition across processes.
func lockCompetitionRow(ctx context.Context, tx *sqlx.Tx, competitionID string) error {
	query, args, err := lockCompetitionQuery(competitionID)
	if err != nil {
		return err
	}

	var publicID string
	if err := tx.GetContext(ctx, &publicID, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("competition %s does not exist", competitionID)
		}
		return fmt.Errorf("lock competition row: %w", err)
	}
	return nil
}

func lockCompetitionQuery(competitionID string) (string, []any, error) {
	query, args, err := qb.Select("public_id").From("competitions").
		Where(qb.Eq("public_id", competitionID)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build lock competition query: %w", err)
	}
	return query, args, nil
}

func countWheelRuns(ctx context.Context, tx *sqlx.Tx, competitionID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("wheel_runs").
		Where(qb.Eq("competition_public_id", competitionID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count wheel runs query: %w", err)
	}

	var count int
	if err := tx.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count wheel runs: %w", err)
	}
	return count, nil
}
