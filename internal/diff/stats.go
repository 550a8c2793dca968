package diff

import "strings"

// Stats contains size metrics for a parsed diff.
type Stats struct {
	Hunks        int
	LineCount    int
	AddedLines   int
	DeletedLines int
}

// Large diff thresholds for presentation warnings.
const (
	// LargeDiffLineThreshold is the display line count above which a diff
	// should start in headers-only mode rather than fully expanded.
	LargeDiffLineThreshold = 2000
)

// Stats computes added/deleted counts over the hunk bodies. Header lines such
// as "+++ b/file" are never counted because they are not part of any hunk.
func (d *DiffData) Stats() Stats {
	s := Stats{
		Hunks:     len(d.Hunks),
		LineCount: len(d.DisplayLines),
	}
	for _, h := range d.Hunks {
		for _, line := range h.Lines {
			switch {
			case strings.HasPrefix(line, "+"):
				s.AddedLines++
			case strings.HasPrefix(line, "-"):
				s.DeletedLines++
			}
		}
	}
	return s
}

// IsLarge reports whether the diff exceeds LargeDiffLineThreshold.
func (s Stats) IsLarge() bool {
	return s.LineCount > LargeDiffLineThreshold
}
