// Package expansion tracks how much of each diff target is shown: nothing,
// hunk headers only, a chosen set of hunks, or everything. It also remembers
// the last partial layout of a target across a collapse so that re-expanding
// restores it.
package expansion

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Kind is the tag of a State.
type Kind int

// State kinds.
const (
	KindCollapsed Kind = iota
	KindHeadersOnly
	KindPartialHunks
	KindFullyExpanded
)

func (k Kind) String() string {
	switch k {
	case KindCollapsed:
		return "collapsed"
	case KindHeadersOnly:
		return "headers_only"
	case KindPartialHunks:
		return "partial_hunks"
	case KindFullyExpanded:
		return "fully_expanded"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindCollapsed; k <= KindFullyExpanded; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindCollapsed, false
}

// State is the expansion of one target. The zero value is collapsed.
//
// Only KindPartialHunks carries a per-hunk map. HeadersOnly means every hunk
// is collapsed and FullyExpanded means every hunk is open, without listing
// them. States are values: the map is copied on the way in and out.
type State struct {
	kind  Kind
	hunks map[int]bool
}

// Collapsed returns the collapsed state.
func Collapsed() State { return State{kind: KindCollapsed} }

// HeadersOnly returns the state where hunk headers are shown and bodies are not.
func HeadersOnly() State { return State{kind: KindHeadersOnly} }

// FullyExpanded returns the state where every hunk is open.
func FullyExpanded() State { return State{kind: KindFullyExpanded} }

// PartialHunks returns a state with the given per-hunk expansion (1-based
// hunk index to expanded). Hunks absent from the map are collapsed.
func PartialHunks(hunks map[int]bool) State {
	return State{kind: KindPartialHunks, hunks: maps.Clone(nonNil(hunks))}
}

func nonNil(m map[int]bool) map[int]bool {
	if m == nil {
		return map[int]bool{}
	}
	return m
}

// Kind returns the state's tag.
func (s State) Kind() Kind { return s.kind }

// IsCollapsed reports whether nothing of the target is shown.
func (s State) IsCollapsed() bool { return s.kind == KindCollapsed }

// Hunks returns a copy of the per-hunk map. It is nil unless the state is
// KindPartialHunks.
func (s State) Hunks() map[int]bool {
	if s.kind != KindPartialHunks {
		return nil
	}
	return maps.Clone(s.hunks)
}

// HunkExpanded reports whether the 1-based hunk body is visible.
func (s State) HunkExpanded(index int) bool {
	switch s.kind {
	case KindFullyExpanded:
		return true
	case KindPartialHunks:
		return s.hunks[index]
	default:
		return false
	}
}

// Equal reports whether two states are the same variant with the same hunks.
func (s State) Equal(o State) bool {
	if s.kind != o.kind {
		return false
	}
	if s.kind != KindPartialHunks {
		return true
	}
	return maps.Equal(s.hunks, o.hunks)
}

// String renders the state for logs, e.g. "partial_hunks{1:false,2:true}".
func (s State) String() string {
	if s.kind != KindPartialHunks {
		return s.kind.String()
	}
	keys := slices.Sorted(maps.Keys(s.hunks))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d:%v", k, s.hunks[k]))
	}
	return s.kind.String() + "{" + strings.Join(parts, ",") + "}"
}

// withHunk returns a copy with one hunk set.
func (s State) withHunk(index int, expanded bool) State {
	next := maps.Clone(nonNil(s.hunks))
	next[index] = expanded
	return State{kind: KindPartialHunks, hunks: next}
}
