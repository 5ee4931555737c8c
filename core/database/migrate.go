package database

import (
	"context"
	"io/fs"
	"sort"

	"mentor-scheduler/core/logger"
)

const migrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Migrate applies every *.sql file of fsys that is not yet recorded in
// schema_migrations, in lexical order, each in its own transaction.
func (d *Database) Migrate(ctx context.Context, fsys fs.FS) error {
	if err := d.ExecContext(ctx, migrationsTable); err != nil {
		logger.Error("Database:Migrate:CreateTable", err)
		return err
	}

	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	var applied []string
	if err := d.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		logger.Error("Database:Migrate:SelectApplied", err)
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, name := range names {
		if done[name] {
			continue
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}

		err = d.WithTx(ctx, func(tx *Tx) error {
			if err := tx.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			return tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name)
		})
		if err != nil {
			logger.Error("Database:Migrate:Apply", "version", name, "error", err)
			return err
		}
		logger.Info("Database:Migrate:Applied", "version", name)
	}

	return nil
}
