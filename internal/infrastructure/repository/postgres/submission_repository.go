package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/contest-wheel/internal/domain/submission"
	qb "github.com/riskibarqy/contest-wheel/internal/platform/querybuilder"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (submission.Submission, bool, error) {
	query, args, err := qb.Select(submissionColumns...).From("submissions").
		Where(qb.Eq("public_id", submissionID)).
		ToSQL()
	if err != nil {
		return submission.Submission{}, false, fmt.Errorf("build get submission by id query: %w", err)
	}

	var row submissionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return submission.Submission{}, false, nil
		}
		return submission.Submission{}, false, fmt.Errorf("get submission by id: %w", err)
	}

	return submissionFromRow(row), true, nil
}

func (r *SubmissionRepository) List(ctx context.Context, filter submission.Filter) ([]submission.Submission, error) {
	conditions := make([]qb.Condition, 0, 2)
	if filter.CompetitionID != "" {
		conditions = append(conditions, qb.Eq("competition_public_id", filter.CompetitionID))
	}
	if filter.FinalResult != "" {
		conditions = append(conditions, qb.Eq("final_result", string(filter.FinalResult)))
	}

	query, args, err := qb.Select(submissionColumns...).From("submissions").
		Where(conditions...).
		OrderBy("submitted_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	out := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, submissionFromRow(row))
	}
	return out, nil
}

func (r *SubmissionRepository) CountCorrectByParticipant(ctx context.Context, competitionID, participantID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("submissions").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("participant_id", participantID),
			qb.Eq("final_result", string(submission.ResultCorrect)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count correct submissions query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count correct submissions: %w", err)
	}
	return count, nil
}

func submissionFromRow(row submissionTableModel) submission.Submission {
	return submission.Submission{
		ID:            row.PublicID,
		CompetitionID: row.CompetitionPublicID,
		ParticipantID: row.ParticipantID,
		QuestionID:    row.QuestionPublicID,
		FinalResult:   submission.FinalResult(row.FinalResult),
		SubmittedAt:   row.SubmittedAt.UTC(),
	}
}
