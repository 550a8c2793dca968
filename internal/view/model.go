package view

import (
	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
)

// Well-known section names. Any other name is treated as a commit list or a
// plain unstaged-style section.
const (
	SectionUntracked = "untracked"
	SectionUnstaged  = "unstaged"
	SectionStaged    = "staged"
)

// ItemKind says what an entry in a section points at.
type ItemKind int

const (
	ItemFile      ItemKind = iota // A path with a diff
	ItemSubmodule                 // A submodule path with a recorded SHA
	ItemCommit                    // A commit; Path holds the SHA
)

// String returns the lowercase name of the kind.
func (k ItemKind) String() string {
	switch k {
	case ItemSubmodule:
		return "submodule"
	case ItemCommit:
		return "commit"
	default:
		return "file"
	}
}

// Item is one entry inside a section.
type Item struct {
	Kind ItemKind
	Path string
}

// Section is a named group of items, in display order.
type Section struct {
	Name  string
	Items []Item
}

// Staged reports whether patches built from this section unstage changes.
func (s Section) Staged() bool { return s.Name == SectionStaged }

// Key builds the cache key for an item in a section. Submodules are keyed by
// path alone so the same submodule shares one entry across sections.
func Key(section string, item Item) string {
	if item.Kind == ItemSubmodule {
		return "submodule:" + item.Path
	}
	return section + ":" + item.Path
}

// target is an item together with the section that holds it.
type target struct {
	section *Section
	item    Item
	key     string
}

func (t target) fetchable() bool { return t.item.Kind != ItemCommit }

// index maps cache keys and section names to their targets.
type index struct {
	sections []Section
	byName   map[string]*Section
	byKey    map[string]target
	order    []string // keys in display order
}

func newIndex(sections []Section) *index {
	idx := &index{
		sections: sections,
		byName:   make(map[string]*Section, len(sections)),
		byKey:    make(map[string]target),
	}
	for i := range idx.sections {
		sec := &idx.sections[i]
		idx.byName[sec.Name] = sec
		for _, item := range sec.Items {
			key := Key(sec.Name, item)
			if _, dup := idx.byKey[key]; dup {
				continue
			}
			idx.byKey[key] = target{section: sec, item: item, key: key}
			idx.order = append(idx.order, key)
		}
	}
	return idx
}

func (idx *index) section(name string) (*Section, error) {
	sec, ok := idx.byName[name]
	if !ok {
		return nil, apperrors.UnknownTarget("section " + name)
	}
	return sec, nil
}

func (idx *index) target(key string) (target, error) {
	t, ok := idx.byKey[key]
	if !ok {
		return target{}, apperrors.UnknownTarget(key)
	}
	return t, nil
}

// targets returns the targets inside sec, or every target when sec is nil.
func (idx *index) targets(sec *Section) []target {
	var out []target
	for _, key := range idx.order {
		t := idx.byKey[key]
		if sec == nil || t.section == sec {
			out = append(out, t)
		}
	}
	return out
}
