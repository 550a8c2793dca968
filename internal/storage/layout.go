// Package storage persists view layouts so an interactive session can come
// back with the same sections open and the same files expanded.
package storage

import "time"

// Entry is one key's expansion state.
type Entry struct {
	Key   string // Cache key, e.g. "unstaged:main.go"
	Kind  string // collapsed, headers_only, partial_hunks, fully_expanded
	Hunks []int  // Expanded hunk indices, only for partial_hunks
}

// Layout is everything needed to rebuild what a view showed.
// Diff contents are never stored.
type Layout struct {
	Name       string
	States     []Entry
	Remembered []Entry
	Sections   []string       // Open section names
	Levels     map[string]int // Last applied level per scope
	SavedAt    time.Time
}
