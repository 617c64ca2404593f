package database

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	id             SERIAL PRIMARY KEY,
	migration_name VARCHAR(255) NOT NULL UNIQUE,
	applied_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, each one in its own transaction.
func Migrate(ctx context.Context, pool Pool, lg *logger.Logger) error {
	return migrate(ctx, pool, migrationFS, lg)
}

func migrate(ctx context.Context, pool Pool, fsys fs.FS, lg *logger.Logger) error {
	if _, err := pool.Exec(ctx, createMigrationsTable); err != nil {
		return errors.Wrap(err, "create migrations table")
	}

	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return errors.Wrap(err, "list migrations")
	}
	sort.Strings(files)

	applied, err := appliedMigrations(ctx, pool)
	if err != nil {
		return err
	}

	for _, file := range files {
		name := file[len("migrations/"):]
		if applied[name] {
			continue
		}
		body, err := fs.ReadFile(fsys, file)
		if err != nil {
			return errors.Wrapf(err, "read migration %s", name)
		}
		if err := applyMigration(ctx, pool, name, string(body)); err != nil {
			return err
		}
		lg.Info("migration_applied", map[string]any{"migration": name})
	}
	return nil
}

func appliedMigrations(ctx context.Context, pool Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT migration_name FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "list applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan migration name")
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func applyMigration(ctx context.Context, pool Pool, name, body string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return errors.Wrapf(err, "begin migration %s", name)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, body); err != nil {
		return errors.Wrapf(err, "run migration %s", name)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (migration_name) VALUES ($1)`, name); err != nil {
		return errors.Wrapf(err, "record migration %s", name)
	}
	return tx.Commit(ctx)
}
