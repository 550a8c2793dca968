package patch

import "github.com/pseudocoder/hunkstage/internal/diff"

// Hunk extracts the 1-based hunk as a standalone patch: the full original
// header followed by that one hunk, verbatim. The original hunk header already
// has the right counts so nothing is recomputed.
//
// Example output:
//
//	diff --git a/file.txt b/file.txt
//	index abc123..def456 100644
//	--- a/file.txt
//	+++ b/file.txt
//	@@ -1,4 +1,4 @@
//	-old line
//	+new line
//	 context
func Hunk(d *diff.DiffData, index int) (Patch, error) {
	h, err := d.Hunk(index)
	if err != nil {
		return Patch{}, err
	}

	lines := make([]string, 0, len(d.Header)+1+len(h.Lines))
	lines = append(lines, d.Header...)
	lines = append(lines, h.Header)
	lines = append(lines, h.Lines...)
	return Patch{Lines: lines}, nil
}
