package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/contest-wheel/internal/domain/wheel"
	qb "github.com/riskibarqy/contest-wheel/internal/platform/querybuilder"
)

type WheelRepository struct {
	db *sqlx.DB
}

func NewWheelRepository(db *sqlx.DB) *WheelRepository {
	return &WheelRepository{db: db}
}

func (r *WheelRepository) GetRunByCompetition(ctx context.Context, competitionID string) (wheel.Run, bool, error) {
	return r.getRun(ctx, "get wheel run by competition", qb.Eq("competition_public_id", competitionID))
}

func (r *WheelRepository) GetRunByID(ctx context.Context, runID string) (wheel.Run, bool, error) {
	return r.getRun(ctx, "get wheel run by id", qb.Eq("public_id", runID))
}

// CreateRun inserts a ready run under the competition row lock. The unique
// index on competition_public_id turns a concurrent second lock into
// wheel.ErrRunExists.
func (r *WheelRepository) CreateRun(ctx context.Context, run wheel.Run) error {
	candidates, err := encodeCandidates(run.Candidates)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for wheel run create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockCompetitionRow(ctx, tx, run.CompetitionID); err != nil {
		return err
	}

	query, args, err := qb.InsertModel("wheel_runs", wheelRunInsertModel{
		PublicID:            run.ID,
		CompetitionPublicID: run.CompetitionID,
		Status:              string(run.Status),
		LockedAt:            run.LockedAt.UTC(),
		LockedBy:            run.LockedBy,
		Candidates:          candidates,
		TotalTickets:        run.TotalTickets,
		Seed:                run.Seed,
		SeedCommitment:      run.SeedCommitment,
		SnapshotDigest:      run.SnapshotDigest,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert wheel run query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return wheel.ErrRunExists
		}
		return fmt.Errorf("insert wheel run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return wheel.ErrRunExists
		}
		return fmt.Errorf("commit wheel run create: %w", err)
	}
	return nil
}

// CompleteRun moves a ready run to done and inserts its winner in one
// transaction. Zero updated rows means the run was already drawn.
func (r *WheelRepository) CompleteRun(ctx context.Context, runID string, outcome wheel.Outcome, winner wheel.Winner) error {
	if err := winner.Validate(); err != nil {
		return fmt.Errorf("invalid winner: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for wheel run complete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	updateQuery, updateArgs, err := qb.Update("wheel_runs").
		Set("status", string(wheel.StatusDone)).
		Set("run_at", outcome.RunAt.UTC()).
		Set("winner_participant_id", outcome.WinnerID).
		Set("winner_ticket_index", outcome.WinnerTicketIndex).
		Where(
			qb.Eq("public_id", runID),
			qb.Eq("status", string(wheel.StatusReady)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build complete wheel run query: %w", err)
	}
	result, err := tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return fmt.Errorf("complete wheel run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read completed wheel run rows: %w", err)
	}
	if affected == 0 {
		return wheel.ErrRunNotReady
	}

	insertQuery, insertArgs, err := qb.InsertModel("wheel_winners", winnerTableModel{
		PublicID:            winner.ID,
		CompetitionPublicID: winner.CompetitionID,
		ParticipantID:       winner.ParticipantID,
		WheelRunPublicID:    winner.WheelRunID,
		RunAt:               winner.RunAt.UTC(),
		Notes:               winner.Notes,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert winner query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		if isUniqueViolation(err) {
			return wheel.ErrRunNotReady
		}
		return fmt.Errorf("insert winner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit wheel run complete: %w", err)
	}
	return nil
}

func (r *WheelRepository) ListWinnersByCompetition(ctx context.Context, competitionID string) ([]wheel.Winner, error) {
	query, args, err := qb.Select(winnerColumns...).From("wheel_winners").
		Where(qb.Eq("competition_public_id", competitionID)).
		OrderBy("run_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list winners query: %w", err)
	}

	var rows []winnerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list winners: %w", err)
	}

	out := make([]wheel.Winner, 0, len(rows))
	for _, row := range rows {
		out = append(out, wheel.Winner{
			ID:            row.PublicID,
			CompetitionID: row.CompetitionPublicID,
			ParticipantID: row.ParticipantID,
			WheelRunID:    row.WheelRunPublicID,
			RunAt:         row.RunAt.UTC(),
			Notes:         row.Notes,
		})
	}
	return out, nil
}

func (r *WheelRepository) getRun(ctx context.Context, op string, condition qb.Condition) (wheel.Run, bool, error) {
	query, args, err := qb.Select(wheelRunColumns...).From("wheel_runs").
		Where(condition).
		ToSQL()
	if err != nil {
		return wheel.Run{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row wheelRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return wheel.Run{}, false, nil
		}
		return wheel.Run{}, false, fmt.Errorf("%s: %w", op, err)
	}

	run, err := wheelRunFromRow(row)
	if err != nil {
		return wheel.Run{}, false, err
	}
	return run, true, nil
}

func wheelRunFromRow(row wheelRunTableModel) (wheel.Run, error) {
	candidates, err := decodeCandidates(row.Candidates)
	if err != nil {
		return wheel.Run{}, fmt.Errorf("decode candidates of wheel run %s: %w", row.PublicID, err)
	}

	return wheel.Run{
		ID:                row.PublicID,
		CompetitionID:     row.CompetitionPublicID,
		Status:            wheel.Status(row.Status),
		LockedAt:          row.LockedAt.UTC(),
		LockedBy:          row.LockedBy,
		RunAt:             nullTimeToPtr(row.RunAt),
		Candidates:        candidates,
		TotalTickets:      row.TotalTickets,
		WinnerID:          nullStringValue(row.WinnerParticipantID),
		WinnerTicketIndex: nullInt64ToPtr(row.WinnerTicketIndex),
		Seed:              row.Seed,
		SeedCommitment:    row.SeedCommitment,
		SnapshotDigest:    row.SnapshotDigest,
	}, nil
}

func encodeCandidates(items []wheel.Candidate) ([]byte, error) {
	docs := make([]candidateDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, candidateDocument(item))
	}
	out, err := sonic.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode wheel candidates: %w", err)
	}
	return out, nil
}

func decodeCandidates(raw []byte) ([]wheel.Candidate, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []candidateDocument
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	out := make([]wheel.Candidate, 0, len(docs))
	for _, doc := range docs {
		out = append(out, wheel.Candidate(doc))
	}
	return out, nil
}
