package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_uploads",
		SQL: `CREATE TABLE IF NOT EXISTS uploads (
  id            UUID        PRIMARY KEY,
  stored_name   TEXT        NOT NULL UNIQUE,
  original_name TEXT        NOT NULL,
  path          TEXT        NOT NULL,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  format        TEXT        NOT NULL,
  row_count     INTEGER     NOT NULL CHECK (row_count >= 0),
  columns       JSONB       NOT NULL DEFAULT '[]'::jsonb,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_uploads_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads (created_at);`,
	},
	{
		Name: "create_index_uploads_format",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_uploads_format ON uploads (format);`,
	},
}

// EnsureMigrated creates the upload ledger schema unless the 'uploads' table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.uploads') IS NOT NULL").Scan(&exists); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.InfoContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
