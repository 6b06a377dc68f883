package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/logger"
)

type migration struct {
	version  int
	name     string
	sqlite   []string
	postgres []string
}

// migrations are applied in order. Never edit a released entry; append a
// new version instead.
var migrations = []migration{
	{
		version: 1,
		name:    "habits and entries",
		sqlite: []string{
			`CREATE TABLE habits (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				name        TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				color       TEXT NOT NULL,
				created_at  TIMESTAMP NOT NULL,
				target_days TEXT NOT NULL DEFAULT '[]',
				is_active   BOOLEAN NOT NULL DEFAULT 1
			)`,
			`CREATE INDEX idx_habits_active ON habits (is_active)`,
			`CREATE TABLE entries (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				habit_id   INTEGER NOT NULL,
				date       TEXT NOT NULL,
				completed  BOOLEAN NOT NULL DEFAULT 0,
				notes      TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX idx_entries_habit ON entries (habit_id)`,
			`CREATE INDEX idx_entries_date ON entries (date)`,
		},
		postgres: []string{
			`CREATE TABLE habits (
				id          BIGSERIAL PRIMARY KEY,
				name        TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				color       TEXT NOT NULL,
				created_at  TIMESTAMPTZ NOT NULL,
				target_days TEXT NOT NULL DEFAULT '[]',
				is_active   BOOLEAN NOT NULL DEFAULT TRUE
			)`,
			`CREATE INDEX idx_habits_active ON habits (is_active)`,
			`CREATE TABLE entries (
				id         BIGSERIAL PRIMARY KEY,
				habit_id   BIGINT NOT NULL,
				date       TEXT NOT NULL,
				completed  BOOLEAN NOT NULL DEFAULT FALSE,
				notes      TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX idx_entries_habit ON entries (habit_id)`,
			`CREATE INDEX idx_entries_date ON entries (date)`,
		},
	},
}

// SchemaVersion is the newest schema this binary knows how to use.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

func (s *Store) currentVersion(ctx context.Context) (int, error) {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	err := s.db.GetContext(ctx, &version, `SELECT version FROM schema_version`)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

func (s *Store) migrate(ctx context.Context) error {
	current, err := s.currentVersion(ctx)
	if err != nil {
		return err
	}

	if current > SchemaVersion() {
		return fmt.Errorf("%w: database is at version %d, binary supports %d",
			domain.ErrSchemaMismatch, current, SchemaVersion())
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.name, err)
		}
		logger.Info("Applied migration", "version", m.version, "name", m.name)
	}

	return nil
}

func (s *Store) apply(ctx context.Context, m migration) error {
	stmts := m.sqlite
	if s.driver == DriverPostgres {
		stmts = m.postgres
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_version (version) VALUES (?)`), m.version); err != nil {
		return err
	}

	return tx.Commit()
}
