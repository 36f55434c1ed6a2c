package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Versioned record keys. Records under older suffixes are not read.
const (
	ItemsKey    = "unearth.items.v3"
	ProgressKey = "unearth.progress.v3"

	// CorruptSuffix names the copy kept of a record that failed to decode.
	CorruptSuffix = ".corrupt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	alterStmts := []string{
		`ALTER TABLE kv ADD COLUMN updated_at DATETIME;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
