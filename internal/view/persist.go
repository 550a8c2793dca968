package view

import (
	"log"
	"maps"
	"slices"
	"time"

	"github.com/pseudocoder/hunkstage/internal/expansion"
	"github.com/pseudocoder/hunkstage/internal/storage"
)

// LayoutStore persists layouts. *storage.SQLiteStore implements it.
type LayoutStore interface {
	SaveLayout(layout *storage.Layout) error
	LoadLayout(name string) (*storage.Layout, error)
}

// Snapshot captures the session's layout under name. Loaded diffs are not
// included.
func (s *Session) Snapshot(name string) *storage.Layout {
	snap := s.store.Snapshot()
	return &storage.Layout{
		Name:       name,
		States:     toEntries(snap.States),
		Remembered: toEntries(snap.Remembered),
		Sections:   snap.Sections,
		Levels:     maps.Clone(s.levels),
		SavedAt:    time.Now(),
	}
}

// Restore applies a saved layout. Sections, levels and remembered layouts
// apply immediately. Expanded targets are fetched as one batch and take
// their saved state when it completes; targets that no longer exist in the
// view, or whose fetch fails, stay collapsed.
func (s *Session) Restore(layout *storage.Layout) {
	states := fromEntries(layout.States)
	remembered := fromEntries(layout.Remembered)

	for _, t := range s.idx.targets(nil) {
		s.evict(t.key)
	}
	s.store.Restore(expansion.Snapshot{
		Remembered: remembered,
		Sections:   layout.Sections,
	})
	s.levels = maps.Clone(layout.Levels)
	if s.levels == nil {
		s.levels = make(map[string]int)
	}

	var ts []target
	for _, key := range slices.Sorted(maps.Keys(states)) {
		if t, ok := s.idx.byKey[key]; ok {
			ts = append(ts, t)
		}
	}
	s.load(ts, func(loaded []target) {
		for _, t := range loaded {
			s.store.Set(t.key, states[t.key])
		}
		s.render()
	})
}

// Save writes the session's layout to store.
func (s *Session) Save(store LayoutStore, name string) error {
	return store.SaveLayout(s.Snapshot(name))
}

// Load restores the layout saved under name. It reports false when there is
// none.
func (s *Session) Load(store LayoutStore, name string) (bool, error) {
	layout, err := store.LoadLayout(name)
	if err != nil {
		return false, err
	}
	if layout == nil {
		return false, nil
	}
	s.Restore(layout)
	return true, nil
}

func toEntries(states map[string]expansion.State) []storage.Entry {
	entries := make([]storage.Entry, 0, len(states))
	for _, key := range slices.Sorted(maps.Keys(states)) {
		st := states[key]
		e := storage.Entry{Key: key, Kind: st.Kind().String()}
		for h, open := range st.Hunks() {
			if open {
				e.Hunks = append(e.Hunks, h)
			}
		}
		slices.Sort(e.Hunks)
		entries = append(entries, e)
	}
	return entries
}

func fromEntries(entries []storage.Entry) map[string]expansion.State {
	states := make(map[string]expansion.State, len(entries))
	for _, e := range entries {
		kind, ok := expansion.ParseKind(e.Kind)
		if !ok {
			log.Printf("view: skipping %s with unknown state %q", e.Key, e.Kind)
			continue
		}
		switch kind {
		case expansion.KindHeadersOnly:
			states[e.Key] = expansion.HeadersOnly()
		case expansion.KindFullyExpanded:
			states[e.Key] = expansion.FullyExpanded()
		case expansion.KindPartialHunks:
			hunks := make(map[int]bool, len(e.Hunks))
			for _, h := range e.Hunks {
				hunks[h] = true
			}
			states[e.Key] = expansion.PartialHunks(hunks)
		}
	}
	return states
}
