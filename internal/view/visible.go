package view

import (
	"github.com/pseudocoder/hunkstage/internal/expansion"
)

// LineKind tags a visible line.
type LineKind int

const (
	LineSection    LineKind = iota // Section header
	LineItem                       // File, submodule or commit entry
	LineSHA                        // Recorded submodule SHA
	LineHunkHeader                 // "@@ ... @@"
	LineDiff                       // Hunk body line
)

// Line is one visible line of the view.
type Line struct {
	Kind    LineKind
	Section string
	Key     string // Empty for section headers
	Hunk    int    // 1-based, for hunk headers and body lines
	Display int    // 1-based display index in the diff, for hunk lines
	Text    string
}

// Visible lists what the current state shows, in order. Expanded targets
// whose diff is not loaded (still fetching, or expired) show only their
// entry line.
func (s *Session) Visible() []Line {
	var out []Line
	for i := range s.idx.sections {
		sec := &s.idx.sections[i]
		out = append(out, Line{Kind: LineSection, Section: sec.Name, Text: sec.Name})
		if !s.store.SectionOpen(sec.Name) {
			continue
		}
		for _, item := range sec.Items {
			key := Key(sec.Name, item)
			out = append(out, Line{Kind: LineItem, Section: sec.Name, Key: key, Text: item.Path})
			out = s.appendBody(out, sec.Name, key, s.store.Get(key))
		}
	}
	return out
}

func (s *Session) appendBody(out []Line, section, key string, st expansion.State) []Line {
	if st.IsCollapsed() {
		return out
	}
	if sha, ok := s.SubmoduleSHA(key); ok {
		return append(out, Line{Kind: LineSHA, Section: section, Key: key, Text: sha})
	}
	d, ok := s.Diff(key)
	if !ok {
		return out
	}
	display := 0
	for i, h := range d.Hunks {
		hunk := i + 1
		display++
		out = append(out, Line{Kind: LineHunkHeader, Section: section, Key: key, Hunk: hunk, Display: display, Text: h.Header})
		if !st.HunkExpanded(hunk) {
			display += len(h.Lines)
			continue
		}
		for _, l := range h.Lines {
			display++
			out = append(out, Line{Kind: LineDiff, Section: section, Key: key, Hunk: hunk, Display: display, Text: l})
		}
	}
	return out
}
