package store

import (
	"context"

	"github.com/atlaslife/goalvault/models"
)

// UserRepository handles user account rows: creation, lookup, and the
// encrypted net-worth cache column.
type UserRepository interface {
	// CreateUser persists a new user record. A duplicate username yields
	// ErrUserAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByUsername retrieves the record for username, or
	// ErrUserNotFound.
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
}

// GoalRecordRepository handles encrypted goal records. It stores and
// retrieves ciphertext only; decryption happens a layer above.
//
// UpsertGoalRecord and DeleteGoalRecord take the owner's freshly recomputed
// encrypted net worth and apply both writes in a single transaction, so a
// goal mutation and its aggregate update are persisted all-or-nothing.
type GoalRecordRepository interface {
	// GetGoalRecords returns all of the owner's encrypted goal records.
	GetGoalRecords(ctx context.Context, owner string) ([]models.GoalRecord, error)

	// UpsertGoalRecord inserts or replaces one record by id and updates the
	// owner's encrypted net worth in the same transaction. An id already
	// held by a different owner yields ErrGoalNotFound.
	UpsertGoalRecord(ctx context.Context, record models.GoalRecord, netWorth models.CipheredPayload) error

	// DeleteGoalRecord removes the record and updates the owner's encrypted
	// net worth in the same transaction. A missing record yields
	// ErrGoalNotFound and leaves the net worth untouched.
	DeleteGoalRecord(ctx context.Context, owner, goalID string, netWorth models.CipheredPayload) error

	// GetEncryptedNetWorth returns the owner's stored aggregate ciphertext,
	// or ErrUserNotFound.
	GetEncryptedNetWorth(ctx context.Context, owner string) (models.CipheredPayload, error)
}
