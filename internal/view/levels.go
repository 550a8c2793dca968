package view

import (
	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
	"github.com/pseudocoder/hunkstage/internal/expansion"
)

// Visibility levels.
const (
	LevelCollapsed = 1 // Target and everything under it collapsed
	LevelSections  = 2 // Sections open, diffs and commit bodies collapsed
	LevelHeaders   = 3 // Diffs loaded, hunk headers only
	LevelExpanded  = 4 // Diffs and commit bodies fully expanded
)

// NextLevel returns the level after cur, wrapping from 4 to 1.
func NextLevel(cur int) int {
	return cur%4 + 1
}

// Focus is where the cursor is. An empty Section means no scope-defining
// focus; an empty Path means the section header itself.
type Focus struct {
	Section string
	Path    string
}

// ScopeKind is the extent a level applies to.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeSection
	ScopeFile
)

// String returns the lowercase name of the scope kind.
func (k ScopeKind) String() string {
	switch k {
	case ScopeSection:
		return "section"
	case ScopeFile:
		return "file"
	default:
		return "global"
	}
}

// Scope is a resolved focus.
type Scope struct {
	Kind    ScopeKind
	Section string // Set for section and file scopes
	Key     string // Set for file scope
}

// String returns the key levels are recorded under.
func (sc Scope) String() string {
	switch sc.Kind {
	case ScopeSection:
		return "section:" + sc.Section
	case ScopeFile:
		return "file:" + sc.Key
	default:
		return ""
	}
}

// ResolveScope picks the scope a level applies to from focus.
//
// A file focus normally scopes to that file. Level 1 on a file scopes to its
// section instead, since collapsing only the file would leave it on screen.
func (s *Session) ResolveScope(focus Focus, level int) (Scope, error) {
	if focus.Section == "" {
		return Scope{Kind: ScopeGlobal}, nil
	}
	sec, err := s.idx.section(focus.Section)
	if err != nil {
		return Scope{}, err
	}
	if focus.Path == "" || level == LevelCollapsed {
		return Scope{Kind: ScopeSection, Section: sec.Name}, nil
	}
	for _, item := range sec.Items {
		if item.Path == focus.Path {
			return Scope{Kind: ScopeFile, Section: sec.Name, Key: Key(sec.Name, item)}, nil
		}
	}
	return Scope{}, apperrors.UnknownTarget(focus.Section + ":" + focus.Path)
}

// Level returns the last level applied to scope, or the initial level.
func (s *Session) Level(scope Scope) int {
	if l, ok := s.levels[scope.String()]; ok {
		return l
	}
	return s.opts.InitialLevel
}

// CycleLevel applies the level after the focused scope's current one.
//
// Level 1 on a file applies to its section, but the file still records it,
// so cycling from the same focus continues at level 2.
func (s *Session) CycleLevel(focus Focus) (int, error) {
	scope, err := s.ResolveScope(focus, 0)
	if err != nil {
		return 0, err
	}
	next := NextLevel(s.Level(scope))
	if err := s.SetLevel(focus, next); err != nil {
		return 0, err
	}
	s.levels[scope.String()] = next
	return next, nil
}

// SetLevel applies level to the scope resolved from focus.
//
// Levels 1 and 2 take effect immediately. Levels 3 and 4 first fetch every
// diff in scope that is not loaded; states change, and OnRender fires, once
// all of those fetches have finished. Targets whose fetch failed keep their
// previous state.
func (s *Session) SetLevel(focus Focus, level int) error {
	if level < LevelCollapsed || level > LevelExpanded {
		return apperrors.InvalidLevel(level)
	}
	scope, err := s.ResolveScope(focus, level)
	if err != nil {
		return err
	}
	s.levels[scope.String()] = level
	s.debugf("view: level %d on %s scope %q", level, scope.Kind, scope.String())

	sections, ts := s.scopeTargets(scope)

	switch level {
	case LevelCollapsed:
		for _, name := range sections {
			s.store.SetSectionOpen(name, false)
			s.store.ForgetSection(name)
		}
		for _, t := range ts {
			s.store.Clear(t.key)
			s.evict(t.key)
		}
		s.clearNestedLevels(scope)
		s.render()

	case LevelSections:
		for _, name := range sections {
			s.store.SetSectionOpen(name, true)
		}
		for _, t := range ts {
			s.store.Set(t.key, expansion.Collapsed())
			s.evict(t.key)
		}
		s.render()

	default:
		s.load(ts, func(loaded []target) {
			for _, name := range sections {
				s.store.SetSectionOpen(name, true)
			}
			for _, t := range loaded {
				s.settle(t, levelState(t, level))
			}
			s.render()
		})
	}
	return nil
}

// levelState is the state level 3 or 4 gives a loaded target.
func levelState(t target, level int) expansion.State {
	switch {
	case t.item.Kind == ItemCommit && level == LevelHeaders:
		return expansion.Collapsed()
	case t.item.Kind == ItemFile && level == LevelHeaders:
		return expansion.HeadersOnly()
	default:
		return expansion.FullyExpanded()
	}
}

// scopeTargets lists the sections a scope opens or closes and the targets
// nested in it.
func (s *Session) scopeTargets(scope Scope) ([]string, []target) {
	switch scope.Kind {
	case ScopeSection:
		sec := s.idx.byName[scope.Section]
		return []string{sec.Name}, s.idx.targets(sec)
	case ScopeFile:
		return []string{scope.Section}, []target{s.idx.byKey[scope.Key]}
	default:
		names := make([]string, len(s.idx.sections))
		for i, sec := range s.idx.sections {
			names[i] = sec.Name
		}
		return names, s.idx.targets(nil)
	}
}

// clearNestedLevels drops recorded levels for scopes inside scope.
func (s *Session) clearNestedLevels(scope Scope) {
	_, ts := s.scopeTargets(scope)
	for _, t := range ts {
		delete(s.levels, Scope{Kind: ScopeFile, Key: t.key}.String())
	}
	if scope.Kind == ScopeGlobal {
		for _, sec := range s.idx.sections {
			delete(s.levels, Scope{Kind: ScopeSection, Section: sec.Name}.String())
		}
	}
}
