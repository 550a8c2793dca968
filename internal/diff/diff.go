// Package diff parses unified diff text for a single file into an addressable
// structure of hunks. The parsed form keeps every input line verbatim so that
// patches synthesized from it reproduce the original header and body bytes.
package diff

import (
	"regexp"
	"strconv"

	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
)

// hunkHeaderRegex matches unified diff hunk headers like:
// @@ -1,5 +1,7 @@
// @@ -0,0 +1,10 @@ (new file)
// @@ -3 +3 @@ func name() (counts omitted)
var hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// DiffData is the parsed form of one file's diff.
type DiffData struct {
	// Header holds every line before the first hunk header
	// (diff --git, index, ---, +++ and any extended headers).
	Header []string

	// Hunks are in source order.
	Hunks []Hunk

	// DisplayLines is each hunk's header followed by its body, in hunk order.
	// It exists to translate a cursor position into hunk coordinates.
	DisplayLines []string
}

// Hunk is one contiguous changed region.
type Hunk struct {
	// Header is the "@@ ... @@" line exactly as it appeared.
	Header string

	// Lines is the hunk body. Each line starts with ' ', '+', '-' or '\'.
	Lines []string
}

// HunkRange is the decoded position information of a hunk header.
type HunkRange struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
}

// IsHunkHeader reports whether line starts a new hunk.
func IsHunkHeader(line string) bool {
	return hunkHeaderRegex.MatchString(line)
}

// ParseHunkHeader decodes a hunk header. Omitted counts default to 1, which is
// what the unified format means by "-12" without ",N".
func ParseHunkHeader(header string) (HunkRange, bool) {
	matches := hunkHeaderRegex.FindStringSubmatch(header)
	if matches == nil {
		return HunkRange{}, false
	}

	var r HunkRange
	r.OldStart, _ = strconv.Atoi(matches[1])
	r.OldCount = 1
	if matches[2] != "" {
		r.OldCount, _ = strconv.Atoi(matches[2])
	}
	r.NewStart, _ = strconv.Atoi(matches[3])
	r.NewCount = 1
	if matches[4] != "" {
		r.NewCount, _ = strconv.Atoi(matches[4])
	}
	return r, true
}

// Hunk returns the hunk at the 1-based index.
func (d *DiffData) Hunk(index int) (*Hunk, error) {
	if index < 1 || index > len(d.Hunks) {
		return nil, apperrors.HunkOutOfRange(index, len(d.Hunks))
	}
	return &d.Hunks[index-1], nil
}

// Lines reassembles header and hunks. For any input with at least one hunk
// this equals the input that was parsed.
func (d *DiffData) Lines() []string {
	out := make([]string, 0, len(d.Header)+len(d.DisplayLines))
	out = append(out, d.Header...)
	for _, h := range d.Hunks {
		out = append(out, h.Header)
		out = append(out, h.Lines...)
	}
	return out
}

// Locate maps a 1-based display index to a 1-based hunk index and a line
// index within that hunk. Line 0 is the hunk header itself.
func (d *DiffData) Locate(displayIndex int) (hunk, line int, ok bool) {
	if displayIndex < 1 || displayIndex > len(d.DisplayLines) {
		return 0, 0, false
	}
	offset := 0
	for i, h := range d.Hunks {
		size := 1 + len(h.Lines)
		if displayIndex <= offset+size {
			return i + 1, displayIndex - offset - 1, true
		}
		offset += size
	}
	return 0, 0, false
}

// DisplayIndex is the inverse of Locate. It returns 0 when the coordinates
// do not exist.
func (d *DiffData) DisplayIndex(hunk, line int) int {
	if hunk < 1 || hunk > len(d.Hunks) {
		return 0
	}
	if line < 0 || line > len(d.Hunks[hunk-1].Lines) {
		return 0
	}
	offset := 0
	for _, h := range d.Hunks[:hunk-1] {
		offset += 1 + len(h.Lines)
	}
	return offset + 1 + line
}
