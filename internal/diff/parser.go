package diff

import "strings"

// Parse splits the lines of one file's diff into header and hunks.
//
// Lines before the first hunk header form the header. Each hunk header starts
// a new hunk and everything up to the next header belongs to it. No prefix
// validation is done here; a diff with no hunks at all (pure rename, mode
// change, binary) is valid and yields an empty Hunks slice.
func Parse(lines []string) *DiffData {
	d := &DiffData{}
	var current *Hunk

	for _, line := range lines {
		if IsHunkHeader(line) {
			d.Hunks = append(d.Hunks, Hunk{Header: line})
			current = &d.Hunks[len(d.Hunks)-1]
			continue
		}
		if current == nil {
			d.Header = append(d.Header, line)
			continue
		}
		current.Lines = append(current.Lines, line)
	}

	d.DisplayLines = make([]string, 0, len(d.Hunks))
	for _, h := range d.Hunks {
		d.DisplayLines = append(d.DisplayLines, h.Header)
		d.DisplayLines = append(d.DisplayLines, h.Lines...)
	}
	return d
}

// ParseText parses raw diff output. A single trailing newline is not treated
// as an extra empty line.
func ParseText(text string) *DiffData {
	return Parse(SplitLines(text))
}

// SplitLines splits diff output into lines without their terminators.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
