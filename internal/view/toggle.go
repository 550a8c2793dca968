package view

import (
	"github.com/pseudocoder/hunkstage/internal/expansion"
)

// ToggleFile collapses an expanded target or expands a collapsed one.
//
// Collapsing remembers a hunk-granular layout (headers only, or a partial
// hunk map) and releases the loaded diff. Expanding always refetches; when
// the fetch succeeds the remembered layout is restored, otherwise the target
// opens fully expanded, or headers only if the diff is large. A failed fetch
// leaves the target collapsed.
//
// Commits switch between collapsed and expanded without fetching.
func (s *Session) ToggleFile(key string) error {
	t, err := s.idx.target(key)
	if err != nil {
		return err
	}

	if t.item.Kind == ItemCommit {
		if s.store.Get(key).IsCollapsed() {
			s.store.Set(key, expansion.FullyExpanded())
		} else {
			s.store.Set(key, expansion.Collapsed())
		}
		s.render()
		return nil
	}

	if cur := s.store.Get(key); !cur.IsCollapsed() {
		s.collapse(key, cur)
		s.render()
		return nil
	}

	s.loadOne(t, func() {
		next := expansion.FullyExpanded()
		if d, ok := s.Diff(key); ok && d.Stats().IsLarge() {
			next = expansion.HeadersOnly()
		}
		if remembered, ok := s.store.Recall(key); ok {
			next = remembered
			s.store.Forget(key)
		}
		s.settle(t, next)
		s.render()
	})
	return nil
}

// ExpandFile fully expands a target, ignoring and discarding any remembered
// layout. An already loaded diff is reused.
func (s *Session) ExpandFile(key string) error {
	t, err := s.idx.target(key)
	if err != nil {
		return err
	}
	s.load([]target{t}, func(loaded []target) {
		if len(loaded) == 0 {
			return
		}
		s.store.Forget(key)
		s.settle(t, expansion.FullyExpanded())
		s.render()
	})
	return nil
}

// settle gives a freshly loaded target its state. A section snapshot entry
// left behind by an earlier reopen no longer applies once it is loaded.
func (s *Session) settle(t target, state expansion.State) {
	s.store.Set(t.key, state)
	s.store.ForgetSectionEntry(t.section.Name, t.key)
}

// collapse remembers cur, collapses key and releases its diff.
func (s *Session) collapse(key string, cur expansion.State) {
	s.store.Remember(key, cur)
	s.store.Set(key, expansion.Collapsed())
	s.evict(key)
}

// ToggleHunk expands or collapses one hunk (1-based) of an expanded file.
//
// From fully expanded the hunk collapses and every other hunk stays open.
// From headers only the hunk opens and the rest stay closed. A collapsed
// file is left alone.
func (s *Session) ToggleHunk(key string, hunk int) error {
	if _, err := s.idx.target(key); err != nil {
		return err
	}
	cur := s.store.Get(key)
	if cur.IsCollapsed() {
		return nil
	}

	d, err := s.loaded(key)
	if err != nil {
		return err
	}
	if _, err := d.Hunk(hunk); err != nil {
		return err
	}

	var changed bool
	switch cur.Kind() {
	case expansion.KindFullyExpanded:
		changed = s.store.CollapseHunk(key, hunk, len(d.Hunks))
	case expansion.KindPartialHunks:
		changed = s.store.ToggleHunk(key, hunk)
	case expansion.KindHeadersOnly:
		changed = s.store.ExpandHunk(key, hunk)
	}
	if changed {
		s.render()
	}
	return nil
}

// ToggleHunkAt toggles the hunk that contains a display line (1-based) of
// key's diff.
func (s *Session) ToggleHunkAt(key string, displayIndex int) error {
	d, err := s.loaded(key)
	if err != nil {
		return err
	}
	hunk, _, err := locate(d, displayIndex)
	if err != nil {
		return err
	}
	return s.ToggleHunk(key, hunk)
}

// ToggleSection collapses an open section or reopens a closed one.
//
// Collapsing records the layout of every expanded entry in the section and
// collapses them all. Reopening fetches those entries again as one batch and
// restores their layout once every fetch has finished. The snapshot keeps
// every entry that was not restored, such as one whose fetch failed, so the
// next close and reopen tries it again.
func (s *Session) ToggleSection(name string) error {
	sec, err := s.idx.section(name)
	if err != nil {
		return err
	}

	if s.store.SectionOpen(name) {
		// Entries an earlier reopen did not restore are still recorded.
		snapshot := s.store.RecallSection(name)
		if snapshot == nil {
			snapshot = make(map[string]expansion.State)
		}
		for _, t := range s.idx.targets(sec) {
			if cur := s.store.Get(t.key); !cur.IsCollapsed() {
				snapshot[t.key] = cur
				s.store.Set(t.key, expansion.Collapsed())
			}
			s.evict(t.key)
		}
		s.store.RememberSection(name, snapshot)
		s.store.SetSectionOpen(name, false)
		s.render()
		return nil
	}

	s.store.SetSectionOpen(name, true)
	snapshot := s.store.SectionSnapshot(name)
	if len(snapshot) == 0 {
		s.render()
		return nil
	}

	var ts []target
	for _, t := range s.idx.targets(sec) {
		if _, ok := snapshot[t.key]; ok {
			ts = append(ts, t)
		}
	}
	s.load(ts, func(loaded []target) {
		for _, t := range loaded {
			s.settle(t, snapshot[t.key])
		}
		s.render()
	})
	return nil
}
