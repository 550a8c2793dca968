// Package patch synthesizes applicable unified-diff patches from a parsed
// file diff: either one whole hunk, or a subset of the lines inside a hunk.
//
// Patches produced here are meant to be piped to a patch-apply step such as
// "git apply --cached" (staging) or "git apply --cached --reverse"
// (unstaging). This package never applies anything itself.
package patch

import "strings"

// Patch is the text of a single-file patch, one element per line.
type Patch struct {
	Lines []string
}

// String renders the patch. The result always ends with a newline because
// git apply rejects a final line without one.
func (p Patch) String() string {
	if len(p.Lines) == 0 {
		return ""
	}
	return strings.Join(p.Lines, "\n") + "\n"
}
