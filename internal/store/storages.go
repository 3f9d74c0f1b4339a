package store

import (
	"context"
	"fmt"

	"github.com/atlaslife/goalvault/internal/config"
	"github.com/atlaslife/goalvault/internal/logger"
)

// Storages aggregates every repository backed by the embedded database.
type Storages struct {
	UserRepository       UserRepository
	GoalRecordRepository GoalRecordRepository

	db *DB
}

// NewStorages opens the SQLite database, applies pending migrations, and
// wires up all repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		GoalRecordRepository: NewGoalRecordRepository(db, log),
		db:                   db,
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
