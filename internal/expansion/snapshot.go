package expansion

import (
	"maps"
	"slices"
)

// Snapshot is a copy of a store's layout suitable for persisting. Diff
// contents are not part of it; restoring a snapshot only says what should be
// shown once the diffs are fetched again.
type Snapshot struct {
	States     map[string]State
	Remembered map[string]State
	Sections   []string
}

// Snapshot copies the store's layout.
func (s *Store) Snapshot() Snapshot {
	sections := make([]string, 0, len(s.sections))
	for name := range s.sections {
		sections = append(sections, name)
	}
	slices.Sort(sections)
	return Snapshot{
		States:     maps.Clone(s.states),
		Remembered: maps.Clone(s.remembered),
		Sections:   sections,
	}
}

// Restore replaces the store's layout with snap. Section memory is dropped.
func (s *Store) Restore(snap Snapshot) {
	s.states = make(map[string]State, len(snap.States))
	for k, v := range snap.States {
		s.Set(k, v)
	}
	s.remembered = make(map[string]State, len(snap.Remembered))
	for k, v := range snap.Remembered {
		s.Remember(k, v)
	}
	s.sections = make(map[string]bool, len(snap.Sections))
	for _, name := range snap.Sections {
		s.sections[name] = true
	}
	s.sectionMemory = make(map[string]map[string]State)
}
