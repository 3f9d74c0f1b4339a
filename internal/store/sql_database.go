package store

import (
	"database/sql"

	"github.com/atlaslife/goalvault/internal/logger"
	"github.com/atlaslife/goalvault/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
