package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atlaslife/goalvault/internal/logger"
	"github.com/atlaslife/goalvault/models"
)

// goalRecordRepository is the SQLite-backed implementation of
// [GoalRecordRepository]. It moves opaque ciphertext in and out of the
// "goals" table and keeps the owner's encrypted net-worth cache in step
// inside the same transaction, so no mutation is ever half-persisted.
type goalRecordRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewGoalRecordRepository constructs a [GoalRecordRepository] backed by the
// provided database connection and logger.
func NewGoalRecordRepository(db *DB, logger *logger.Logger) GoalRecordRepository {
	logger.Debug().Msg("creating goal record repository")
	return &goalRecordRepository{
		db:     db,
		logger: logger,
	}
}

// GetGoalRecords returns every encrypted goal record belonging to owner.
func (r *goalRecordRepository) GetGoalRecords(ctx context.Context, owner string) ([]models.GoalRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := selectGoalRecordsQuery(owner)
	if err != nil {
		log.Err(err).Str("func", "*goalRecordRepository.GetGoalRecords").Msg("error: building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*goalRecordRepository.GetGoalRecords").
			Str("owner", owner).
			Msg("failed to execute query for goal records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.GoalRecord

	for rows.Next() {
		var record models.GoalRecord
		var payload string

		if scanErr := rows.Scan(&record.ID, &record.Owner, &payload, &record.UpdatedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "*goalRecordRepository.GetGoalRecords").
				Str("owner", owner).
				Msg("failed to scan goal record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		record.Payload = models.CipheredPayload(payload)

		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*goalRecordRepository.GetGoalRecords").
			Str("owner", owner).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating goal record rows: %w", rowsErr)
	}

	return records, nil
}

// UpsertGoalRecord writes the record and the owner's recomputed encrypted
// net worth atomically: both land or neither does.
func (r *goalRecordRepository) UpsertGoalRecord(ctx context.Context, record models.GoalRecord, netWorth models.CipheredPayload) error {
	log := logger.FromContext(ctx)

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*goalRecordRepository.UpsertGoalRecord").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := upsertGoalRecordQuery(record)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*goalRecordRepository.UpsertGoalRecord").
			Str("goal_id", record.ID).
			Str("owner", record.Owner).
			Msg("failed to execute upsert for goal record")
		return fmt.Errorf("failed to save goal record (id=%s): %w", record.ID, err)
	}
	// the conflict update is owner-scoped: a write against an id held by a
	// different owner touches zero rows and must not look like success
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		log.Error().
			Str("func", "*goalRecordRepository.UpsertGoalRecord").
			Str("goal_id", record.ID).
			Str("owner", record.Owner).
			Msg("goal id belongs to a different owner")
		return ErrGoalNotFound
	}

	if err := updateNetWorthTx(ctx, tx, record.Owner, netWorth); err != nil {
		log.Err(err).
			Str("func", "*goalRecordRepository.UpsertGoalRecord").
			Str("owner", record.Owner).
			Msg("failed to update aggregate net worth")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// DeleteGoalRecord removes the record and updates the owner's encrypted net
// worth atomically. Deleting a record that does not exist is an error so
// callers can distinguish a stale id from success.
func (r *goalRecordRepository) DeleteGoalRecord(ctx context.Context, owner, goalID string, netWorth models.CipheredPayload) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*goalRecordRepository.DeleteGoalRecord").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := deleteGoalRecordQuery(owner, goalID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*goalRecordRepository.DeleteGoalRecord").
			Str("goal_id", goalID).
			Str("owner", owner).
			Msg("failed to execute delete for goal record")
		return fmt.Errorf("failed to delete goal record (id=%s): %w", goalID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrGoalNotFound
	}

	if err := updateNetWorthTx(ctx, tx, owner, netWorth); err != nil {
		log.Err(err).
			Str("func", "*goalRecordRepository.DeleteGoalRecord").
			Str("owner", owner).
			Msg("failed to update aggregate net worth")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// GetEncryptedNetWorth returns the stored aggregate ciphertext for owner.
func (r *goalRecordRepository) GetEncryptedNetWorth(ctx context.Context, owner string) (models.CipheredPayload, error) {
	log := logger.FromContext(ctx)

	query, args, err := selectNetWorthQuery(owner)
	if err != nil {
		log.Err(err).Str("func", "*goalRecordRepository.GetEncryptedNetWorth").Msg("error: building query")
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var netWorth string
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&netWorth); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}

		log.Err(err).Str("func", "*goalRecordRepository.GetEncryptedNetWorth").Msg("error: scanning error")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return models.CipheredPayload(netWorth), nil
}

// updateNetWorthTx applies the recomputed aggregate inside the caller's
// transaction. Zero affected rows means the owner row is gone.
func updateNetWorthTx(ctx context.Context, tx *sql.Tx, owner string, netWorth models.CipheredPayload) error {
	query, args, err := updateNetWorthQuery(owner, netWorth)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update net worth: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrUserNotFound
	}

	return nil
}
