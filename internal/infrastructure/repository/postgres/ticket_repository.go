package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/contest-wheel/internal/domain/ticket"
	qb "github.com/riskibarqy/contest-wheel/internal/platform/querybuilder"
)

type TicketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) ListByCompetition(ctx context.Context, competitionID string) ([]ticket.Ticket, error) {
	return r.list(ctx, "list tickets by competition", qb.Eq("competition_public_id", competitionID))
}

func (r *TicketRepository) ListByParticipant(ctx context.Context, competitionID, participantID string) ([]ticket.Ticket, error) {
	return r.list(ctx, "list tickets by participant",
		qb.Eq("competition_public_id", competitionID),
		qb.Eq("participant_id", participantID),
	)
}

// ReplaceForSubmission swaps one submission's row under the same competition
// row lock that ReplaceForCompetition takes, so a concurrent rebuild cannot
// slip a row in between the delete and the insert.
func (r *TicketRepository) ReplaceForSubmission(ctx context.Context, competitionID, submissionID string, next *ticket.Ticket) error {
	if next != nil {
		if err := next.Validate(); err != nil {
			return fmt.Errorf("invalid ticket: %w", err)
		}
		if next.CompetitionID != competitionID || next.SubmissionID != submissionID {
			return fmt.Errorf("ticket %s does not belong to submission %s of competition %s",
				next.ID, submissionID, competitionID)
		}
	}

	deleteQuery, deleteArgs, err := deleteSubmissionTicketQuery(competitionID, submissionID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for ticket replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockCompetitionRow(ctx, tx, competitionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete submission ticket: %w", err)
	}

	if next != nil {
		insertQuery, insertArgs, err := qb.InsertModel("tickets", ticketInsertFromDomain(*next), "")
		if err != nil {
			return fmt.Errorf("build insert ticket query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert ticket: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ticket replace: %w", err)
	}
	return nil
}

// ReplaceForCompetition rebuilds the ledger under the competition row lock
// and refuses with ticket.ErrCompetitionLocked when a wheel run exists.
func (r *TicketRepository) ReplaceForCompetition(ctx context.Context, competitionID string, items []ticket.Ticket) error {
	rows := make([]any, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("invalid ticket: %w", err)
		}
		if item.CompetitionID != competitionID {
			return fmt.Errorf("ticket %s belongs to competition %s", item.ID, item.CompetitionID)
		}
		rows = append(rows, ticketInsertFromDomain(item))
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for ledger rebuild: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockCompetitionRow(ctx, tx, competitionID); err != nil {
		return err
	}
	runs, err := countWheelRuns(ctx, tx, competitionID)
	if err != nil {
		return err
	}
	if runs > 0 {
		return ticket.ErrCompetitionLocked
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("tickets").
		Where(qb.Eq("competition_public_id", competitionID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete competition tickets query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete competition tickets: %w", err)
	}

	for _, bounds := range chunkSizes(len(rows), insertChunkSize) {
		insertQuery, insertArgs, err := qb.InsertModels("tickets", rows[bounds[0]:bounds[1]], "")
		if err != nil {
			return fmt.Errorf("build bulk insert tickets query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("bulk insert tickets: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger rebuild: %w", err)
	}
	return nil
}

func (r *TicketRepository) list(ctx context.Context, op string, conditions ...qb.Condition) ([]ticket.Ticket, error) {
	query, args, err := qb.Select(ticketColumns...).From("tickets").
		Where(conditions...).
		OrderBy("created_at", "submission_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []ticketTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]ticket.Ticket, 0, len(rows))
	for _, row := range rows {
		out = append(out, ticket.Ticket{
			ID:            row.PublicID,
			CompetitionID: row.CompetitionPublicID,
			ParticipantID: row.ParticipantID,
			SubmissionID:  row.SubmissionPublicID,
			QuestionID:    row.QuestionPublicID,
			Count:         row.TicketCount,
			Reason:        row.Reason,
			CreatedAt:     row.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func deleteSubmissionTicketQuery(competitionID, submissionID string) (string, []any, error) {
	query, args, err := qb.DeleteFrom("tickets").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("submission_public_id", submissionID),
		).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build delete submission ticket query: %w", err)
	}
	return query, args, nil
}

func ticketInsertFromDomain(item ticket.Ticket) ticketInsertModel {
	return ticketInsertModel{
		PublicID:            item.ID,
		CompetitionPublicID: item.CompetitionID,
		ParticipantID:       item.ParticipantID,
		SubmissionPublicID:  item.SubmissionID,
		QuestionPublicID:    item.QuestionID,
		TicketCount:         item.Count,
		Reason:              item.Reason,
		CreatedAt:           item.CreatedAt.UTC(),
	}
}
