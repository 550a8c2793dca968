package storage

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// currentSchemaVersion is the current database schema version.
// Increment this when making schema changes and add migration logic.
const currentSchemaVersion = 3

// initSchema creates the required tables if they don't exist.
// Uses IF NOT EXISTS to make the operation idempotent.
func (s *SQLiteStore) initSchema() error {
	const schemaVersionTable = `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		);
	`

	if _, err := s.db.Exec(schemaVersionTable); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("check schema version: %w", err)
	}

	if version < 1 {
		if err := s.migrateToV1(); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if version < 2 {
		if err := s.migrateToV2(); err != nil {
			return fmt.Errorf("migrate to v2: %w", err)
		}
	}

	if version < 3 {
		if err := s.migrateToV3(); err != nil {
			return fmt.Errorf("migrate to v3: %w", err)
		}
	}

	return nil
}

// migrateToV1 creates the layouts table and its per-key entries.
func (s *SQLiteStore) migrateToV1() error {
	log.Printf("storage: applying migration to schema version 1")

	// Open sections are stored as a comma-separated list; entries carry one
	// row per key and slot ("state" or "remembered").
	const layoutsTable = `
		CREATE TABLE IF NOT EXISTS layouts (
			name TEXT PRIMARY KEY,
			sections TEXT NOT NULL DEFAULT '',
			saved_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS layout_entries (
			layout TEXT NOT NULL REFERENCES layouts(name) ON DELETE CASCADE,
			slot TEXT NOT NULL,
			key TEXT NOT NULL,
			kind TEXT NOT NULL,
			hunks TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (layout, slot, key)
		);
	`

	if _, err := s.db.Exec(layoutsTable); err != nil {
		return fmt.Errorf("create layouts tables: %w", err)
	}

	return s.recordMigration(1)
}

// migrateToV2 adds per-scope visibility levels.
func (s *SQLiteStore) migrateToV2() error {
	log.Printf("storage: applying migration to schema version 2")

	const levelsTable = `
		CREATE TABLE IF NOT EXISTS layout_levels (
			layout TEXT NOT NULL REFERENCES layouts(name) ON DELETE CASCADE,
			scope TEXT NOT NULL,
			level INTEGER NOT NULL,
			PRIMARY KEY (layout, scope)
		);
	`

	if _, err := s.db.Exec(levelsTable); err != nil {
		return fmt.Errorf("create layout_levels table: %w", err)
	}

	return s.recordMigration(2)
}

// migrateToV3 moves open sections out of the comma-separated
// layouts.sections column into one row per section, so section names may
// contain commas. The old column is left empty.
func (s *SQLiteStore) migrateToV3() error {
	log.Printf("storage: applying migration to schema version 3")

	const sectionsTable = `
		CREATE TABLE IF NOT EXISTS layout_sections (
			layout TEXT NOT NULL REFERENCES layouts(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (layout, position)
		);
	`

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(sectionsTable); err != nil {
		return fmt.Errorf("create layout_sections table: %w", err)
	}

	rows, err := tx.Query("SELECT name, sections FROM layouts WHERE sections != ''")
	if err != nil {
		return fmt.Errorf("read legacy sections: %w", err)
	}
	legacy := make(map[string][]string)
	for rows.Next() {
		var name, sections string
		if err := rows.Scan(&name, &sections); err != nil {
			rows.Close()
			return fmt.Errorf("scan legacy sections: %w", err)
		}
		legacy[name] = strings.Split(sections, ",")
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate legacy sections: %w", err)
	}
	rows.Close()

	for layout, names := range legacy {
		for i, name := range names {
			_, err := tx.Exec(
				"INSERT INTO layout_sections (layout, position, name) VALUES (?, ?, ?)",
				layout, i, name,
			)
			if err != nil {
				return fmt.Errorf("copy section %q of %s: %w", name, layout, err)
			}
		}
	}
	if _, err := tx.Exec("UPDATE layouts SET sections = ''"); err != nil {
		return fmt.Errorf("clear legacy sections: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return s.recordMigration(3)
}

func (s *SQLiteStore) recordMigration(version int) error {
	_, err := s.db.Exec(
		"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
		version,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return nil
}
