package database

import (
	"context"
	"fmt"
	"log"
)

// Migration is a forward-only schema change with one statement list per driver.
type Migration struct {
	Version    int
	Name       string
	Statements map[string][]string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_users",
		Statements: map[string][]string{
			DriverPostgres: {`
				CREATE TABLE IF NOT EXISTS users (
					id            TEXT PRIMARY KEY,
					email         TEXT NOT NULL UNIQUE,
					login         TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					created_at    TIMESTAMPTZ NOT NULL,
					updated_at    TIMESTAMPTZ NOT NULL
				)`,
			},
			DriverSQLite: {`
				CREATE TABLE IF NOT EXISTS users (
					id            TEXT PRIMARY KEY,
					email         TEXT NOT NULL UNIQUE,
					login         TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					created_at    DATETIME NOT NULL,
					updated_at    DATETIME NOT NULL
				)`,
			},
		},
	},
	{
		Version: 2,
		Name:    "create_customers_and_expenses",
		Statements: map[string][]string{
			DriverPostgres: {`
				CREATE TABLE IF NOT EXISTS customers (
					id         TEXT PRIMARY KEY,
					user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					name       TEXT NOT NULL,
					phone      TEXT NOT NULL DEFAULT '',
					balance    NUMERIC(14, 2) NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL,
					UNIQUE (user_id, name)
				)`, `
				CREATE TABLE IF NOT EXISTS expenses (
					id          TEXT PRIMARY KEY,
					customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
					reason      TEXT NOT NULL DEFAULT '',
					date        DATE NOT NULL,
					type        TEXT NOT NULL CHECK (type IN ('sent', 'received')),
					amount      NUMERIC(14, 2) NOT NULL,
					created_at  TIMESTAMPTZ NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_expenses_customer ON expenses (customer_id)`,
			},
			DriverSQLite: {`
				CREATE TABLE IF NOT EXISTS customers (
					id         TEXT PRIMARY KEY,
					user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					name       TEXT NOT NULL,
					phone      TEXT NOT NULL DEFAULT '',
					balance    TEXT NOT NULL DEFAULT '0',
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					UNIQUE (user_id, name)
				)`, `
				CREATE TABLE IF NOT EXISTS expenses (
					id          TEXT PRIMARY KEY,
					customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
					reason      TEXT NOT NULL DEFAULT '',
					date        DATETIME NOT NULL,
					type        TEXT NOT NULL CHECK (type IN ('sent', 'received')),
					amount      TEXT NOT NULL,
					created_at  DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_expenses_customer ON expenses (customer_id)`,
			},
		},
	},
	{
		Version: 3,
		Name:    "create_bond_registries",
		Statements: map[string][]string{
			DriverPostgres: {`
				CREATE TABLE IF NOT EXISTS bond_registries (
					id         TEXT PRIMARY KEY,
					user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					customer   TEXT NOT NULL,
					categories JSONB NOT NULL DEFAULT '[]',
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL,
					UNIQUE (customer, user_id)
				)`,
			},
			DriverSQLite: {`
				CREATE TABLE IF NOT EXISTS bond_registries (
					id         TEXT PRIMARY KEY,
					user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					customer   TEXT NOT NULL,
					categories TEXT NOT NULL DEFAULT '[]',
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					UNIQUE (customer, user_id)
				)`,
			},
		},
	},
}

// RunMigrations applies every migration newer than the recorded schema version.
func (s *DBService) RunMigrations(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err = s.DB.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}
		statements, ok := migration.Statements[s.Driver]
		if !ok {
			return fmt.Errorf("migration %d has no statements for driver %s", migration.Version, s.Driver)
		}

		log.Printf("Running migration %d: %s", migration.Version, migration.Name)

		tx, err := s.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		log.Printf("Migration %d completed", migration.Version)
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *DBService) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.DB.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	return version, err
}
