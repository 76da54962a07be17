package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					award_id TEXT NOT NULL,
					action_date DATETIME NOT NULL,
					amount REAL NOT NULL,
					outlay REAL,
					awarding_agency TEXT,
					funding_agency TEXT,
					cfda_number TEXT,
					cfda_title TEXT,
					recipient_name TEXT,
					recipient_city TEXT,
					recipient_state TEXT,
					recipient_county TEXT,
					action_type TEXT,
					ingested_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_award ON transactions(award_id)`,
				`CREATE INDEX idx_transactions_date ON transactions(action_date)`,

				`CREATE TABLE IF NOT EXISTS classifications (
					award_id TEXT PRIMARY KEY,
					run_id TEXT NOT NULL,
					label TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0,
					breakdown TEXT NOT NULL,
					total_obligation_pos REAL NOT NULL DEFAULT 0,
					total_deobligation_neg REAL NOT NULL DEFAULT 0,
					final_balance REAL NOT NULL DEFAULT 0,
					total_outlayed REAL NOT NULL DEFAULT 0,
					first_action_date DATETIME NOT NULL,
					last_action_date DATETIME NOT NULL,
					first_negative_date DATETIME,
					era_flag INTEGER NOT NULL DEFAULT 0,
					pre_era_flag INTEGER NOT NULL DEFAULT 0,
					cut_after_cutoff INTEGER NOT NULL DEFAULT 0,
					classified_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_classifications_label ON classifications(label)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "County demographics lookup",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS county_demographics (
					fips TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					population REAL NOT NULL DEFAULT 0,
					pct_minority REAL,
					pct_black REAL,
					pct_hispanic REAL,
					pct_asian REAL
				)
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Index deobligations by era",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_transactions_negative ON transactions(action_date) WHERE amount < 0`,
				`CREATE INDEX IF NOT EXISTS idx_classifications_era ON classifications(era_flag)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
