package storage

// layouts.go contains SQLiteStore methods for layout CRUD operations.

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
)

// maxLayouts is the maximum number of layouts to retain.
// Older layouts are deleted when this limit is exceeded.
const maxLayouts = 50

const (
	slotState      = "state"
	slotRemembered = "remembered"
)

// SaveLayout persists a layout, replacing any previous layout of the same name.
// Enforces retention: keeps only the most recent maxLayouts layouts.
func (s *SQLiteStore) SaveLayout(layout *Layout) error {
	if layout == nil {
		return errors.New("layout cannot be nil")
	}
	if layout.Name == "" {
		return errors.New("layout name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("storage: saving layout %s (%d states, %d remembered, %d sections)",
		layout.Name, len(layout.States), len(layout.Remembered), len(layout.Sections))

	savedAt := layout.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageSaveFailed, "begin transaction", err)
	}
	defer tx.Rollback()

	// Replacing the parent row cascades to entries and levels.
	if _, err := tx.Exec("DELETE FROM layouts WHERE name = ?", layout.Name); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageSaveFailed, "clear layout", err)
	}

	_, err = tx.Exec(
		"INSERT INTO layouts (name, saved_at) VALUES (?, ?)",
		layout.Name,
		savedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageSaveFailed, "insert layout", err)
	}

	for i, section := range layout.Sections {
		_, err := tx.Exec(
			"INSERT INTO layout_sections (layout, position, name) VALUES (?, ?, ?)",
			layout.Name, i, section,
		)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorageSaveFailed, fmt.Sprintf("insert section %q", section), err)
		}
	}

	const entryQuery = `
		INSERT INTO layout_entries (layout, slot, key, kind, hunks)
		VALUES (?, ?, ?, ?, ?)
	`
	for slot, entries := range map[string][]Entry{slotState: layout.States, slotRemembered: layout.Remembered} {
		for _, e := range entries {
			if _, err := tx.Exec(entryQuery, layout.Name, slot, e.Key, e.Kind, formatHunks(e.Hunks)); err != nil {
				return apperrors.Wrap(apperrors.CodeStorageSaveFailed, fmt.Sprintf("insert %s entry %s", slot, e.Key), err)
			}
		}
	}

	for scope, level := range layout.Levels {
		_, err := tx.Exec(
			"INSERT INTO layout_levels (layout, scope, level) VALUES (?, ?, ?)",
			layout.Name, scope, level,
		)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorageSaveFailed, fmt.Sprintf("insert level %q", scope), err)
		}
	}

	const cleanupQuery = `
		DELETE FROM layouts WHERE name IN (
			SELECT name FROM layouts ORDER BY saved_at DESC LIMIT -1 OFFSET ?
		)
	`
	if _, err := tx.Exec(cleanupQuery, maxLayouts); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageSaveFailed, "enforce layout retention", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageSaveFailed, "commit layout", err)
	}
	return nil
}

// LoadLayout retrieves a layout by name.
// Returns nil, nil if the layout does not exist.
func (s *SQLiteStore) LoadLayout(name string) (*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var savedAt string
	err := s.db.QueryRow("SELECT saved_at FROM layouts WHERE name = ?", name).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "get layout", err)
	}

	layout := &Layout{Name: name, Levels: make(map[string]int)}
	if layout.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "parse saved_at", err)
	}

	sectionRows, err := s.db.Query("SELECT name FROM layout_sections WHERE layout = ? ORDER BY position", name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "list layout sections", err)
	}
	defer sectionRows.Close()

	for sectionRows.Next() {
		var section string
		if err := sectionRows.Scan(&section); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "scan layout section", err)
		}
		layout.Sections = append(layout.Sections, section)
	}
	if err := sectionRows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "iterate layout sections", err)
	}

	rows, err := s.db.Query(`
		SELECT slot, key, kind, hunks FROM layout_entries
		WHERE layout = ?
		ORDER BY key
	`, name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "list layout entries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot, hunks string
		var e Entry
		if err := rows.Scan(&slot, &e.Key, &e.Kind, &hunks); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "scan layout entry", err)
		}
		if e.Hunks, err = parseHunks(hunks); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, fmt.Sprintf("parse hunks for %s", e.Key), err)
		}
		if slot == slotRemembered {
			layout.Remembered = append(layout.Remembered, e)
		} else {
			layout.States = append(layout.States, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "iterate layout entries", err)
	}

	levelRows, err := s.db.Query("SELECT scope, level FROM layout_levels WHERE layout = ?", name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "list layout levels", err)
	}
	defer levelRows.Close()

	for levelRows.Next() {
		var scope string
		var level int
		if err := levelRows.Scan(&scope, &level); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "scan layout level", err)
		}
		layout.Levels[scope] = level
	}
	if err := levelRows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "iterate layout levels", err)
	}

	return layout, nil
}

// ListLayouts returns layout names, most recently saved first.
func (s *SQLiteStore) ListLayouts() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT name FROM layouts ORDER BY saved_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "list layouts", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageQueryFailed, "scan layout name", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteLayout removes a layout. Deleting a missing layout is not an error.
func (s *SQLiteStore) DeleteLayout(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("storage: deleting layout %s", name)

	if _, err := s.db.Exec("DELETE FROM layouts WHERE name = ?", name); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageSaveFailed, "delete layout", err)
	}
	return nil
}

func formatHunks(hunks []int) string {
	sorted := slices.Sorted(slices.Values(hunks))
	parts := make([]string, len(sorted))
	for i, h := range sorted {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ",")
}

func parseHunks(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	hunks := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		hunks[i] = n
	}
	return hunks, nil
}
