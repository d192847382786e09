package database

import (
	"context"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ DEFAULT NOW()
	);
`

// migrations contains all PostgreSQL database migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_schema_version_table",
		SQL:     schemaVersionSQL,
	},
	{
		Version: 2,
		Name:    "create_analyses_table",
		SQL: `
			CREATE TABLE IF NOT EXISTS analyses (
				id TEXT PRIMARY KEY,
				product_name TEXT NOT NULL,
				platform TEXT NOT NULL DEFAULT '',
				verdict TEXT NOT NULL,
				reality_score INTEGER NOT NULL,
				input JSONB NOT NULL,
				result JSONB NOT NULL,
				created_at TIMESTAMPTZ DEFAULT NOW(),
				updated_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
		`,
	},
	{
		Version: 3,
		Name:    "add_verdict_index",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_analyses_verdict ON analyses(verdict);
		`,
	},
}

// migrationLockID is the pg_advisory_xact_lock key serializing migrations
// across server replicas.
const migrationLockID = 7_366_615

// Migrate runs all pending PostgreSQL migrations. Each migration runs in its
// own transaction under an advisory lock, so concurrent starts apply it once.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	slog.Info("checking database schema", "current_version", currentVersion, "latest_version", latestVersion())

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}
		applied, err := db.applyMigration(ctx, m)
		if err != nil {
			return err
		}
		if applied {
			slog.Info("applied migration", "version", m.Version, "name", m.Name)
		}
	}

	slog.Info("all migrations complete", "version", latestVersion())
	return nil
}

// applyMigration reports false when another process recorded m first.
func (db *DB) applyMigration(ctx context.Context, m Migration) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockID); err != nil {
		return false, fmt.Errorf("failed to lock for migration %d: %w", m.Version, err)
	}

	var done bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM schema_version WHERE version = $1)", m.Version,
	).Scan(&done); err != nil {
		return false, fmt.Errorf("failed to check migration %d: %w", m.Version, err)
	}
	if done {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return false, fmt.Errorf("failed to run migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES ($1)", m.Version); err != nil {
		return false, fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return true, nil
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}
