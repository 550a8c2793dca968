package expansion

import "maps"

// Store holds expansion state per cache key, the remembered layout of
// collapsed targets, and which sections are open.
//
// A Store belongs to one view and is not safe for concurrent use; the view
// serializes all access on its loop.
type Store struct {
	states     map[string]State
	remembered map[string]State
	sections   map[string]bool
	// sectionMemory holds, per collapsed section, the states its files had
	// when the section was closed.
	sectionMemory map[string]map[string]State
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		states:        make(map[string]State),
		remembered:    make(map[string]State),
		sections:      make(map[string]bool),
		sectionMemory: make(map[string]map[string]State),
	}
}

// Get returns the state for key, Collapsed if it was never set.
func (s *Store) Get(key string) State {
	return s.states[key]
}

// Set stores the state for key. Setting Collapsed removes the entry.
func (s *Store) Set(key string, state State) {
	if state.IsCollapsed() {
		delete(s.states, key)
		return
	}
	s.states[key] = state
}

// Keys returns every key with a non-collapsed state.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.states))
	for k := range s.states {
		keys = append(keys, k)
	}
	return keys
}

// Remember records the layout to restore when key is expanded again.
// Only HeadersOnly and PartialHunks are worth remembering; anything else
// clears the memory since re-expansion defaults to FullyExpanded.
func (s *Store) Remember(key string, state State) {
	switch state.Kind() {
	case KindHeadersOnly, KindPartialHunks:
		s.remembered[key] = state
	default:
		delete(s.remembered, key)
	}
}

// Recall returns the remembered layout for key, if any.
func (s *Store) Recall(key string) (State, bool) {
	state, ok := s.remembered[key]
	return state, ok
}

// Forget drops the remembered layout for key.
func (s *Store) Forget(key string) {
	delete(s.remembered, key)
}

// ToggleHunk flips one hunk of a PartialHunks state. For any other state it
// is a no-op and returns false; callers collapsing a hunk out of
// FullyExpanded must use CollapseHunk.
func (s *Store) ToggleHunk(key string, index int) bool {
	state := s.states[key]
	if state.Kind() != KindPartialHunks {
		return false
	}
	s.states[key] = state.withHunk(index, !state.HunkExpanded(index))
	return true
}

// CollapseHunk moves a FullyExpanded target to PartialHunks with every hunk
// but index open. hunkCount is the number of hunks in the cached diff.
// The FullyExpanded value is replaced, never modified.
func (s *Store) CollapseHunk(key string, index, hunkCount int) bool {
	if s.states[key].Kind() != KindFullyExpanded {
		return false
	}
	hunks := make(map[int]bool, hunkCount)
	for i := 1; i <= hunkCount; i++ {
		hunks[i] = i != index
	}
	s.states[key] = PartialHunks(hunks)
	return true
}

// ExpandHunk moves a HeadersOnly target to PartialHunks with only index open.
func (s *Store) ExpandHunk(key string, index int) bool {
	if s.states[key].Kind() != KindHeadersOnly {
		return false
	}
	s.states[key] = PartialHunks(map[int]bool{index: true})
	return true
}

// SectionOpen reports whether a section's item list is visible.
func (s *Store) SectionOpen(section string) bool {
	return s.sections[section]
}

// SetSectionOpen opens or closes a section.
func (s *Store) SetSectionOpen(section string, open bool) {
	if open {
		s.sections[section] = true
		return
	}
	delete(s.sections, section)
}

// RememberSection records the file states of a section being closed.
// An empty snapshot clears any previous one.
func (s *Store) RememberSection(section string, snapshot map[string]State) {
	if len(snapshot) == 0 {
		delete(s.sectionMemory, section)
		return
	}
	s.sectionMemory[section] = maps.Clone(snapshot)
}

// SectionSnapshot returns a copy of section's snapshot without clearing it.
func (s *Store) SectionSnapshot(section string) map[string]State {
	return maps.Clone(s.sectionMemory[section])
}

// RecallSection returns and clears the snapshot taken when section closed.
func (s *Store) RecallSection(section string) map[string]State {
	snapshot := s.sectionMemory[section]
	delete(s.sectionMemory, section)
	return snapshot
}

// ForgetSectionEntry drops key from section's snapshot, if it has one.
func (s *Store) ForgetSectionEntry(section, key string) {
	snapshot, ok := s.sectionMemory[section]
	if !ok {
		return
	}
	delete(snapshot, key)
	if len(snapshot) == 0 {
		delete(s.sectionMemory, section)
	}
}

// Clear drops state and memory for the given keys.
func (s *Store) Clear(keys ...string) {
	for _, k := range keys {
		delete(s.states, k)
		delete(s.remembered, k)
	}
}

// ForgetSection drops the section snapshot without returning it.
func (s *Store) ForgetSection(section string) {
	delete(s.sectionMemory, section)
}
