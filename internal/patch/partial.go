package patch

import (
	"fmt"

	"github.com/pseudocoder/hunkstage/internal/diff"
	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
)

// Partial builds a patch that carries only the selected lines of one hunk.
//
// selected holds 1-based positions in d.DisplayLines; positions outside the
// target hunk are ignored. reverse is true when the patch will be applied in
// reverse, i.e. when unstaging from the index.
//
// Unselected lines are rewritten so the patch still applies against the side
// it targets:
//
//	prefix  staging (reverse=false)   unstaging (reverse=true)
//	'+'     omitted                   becomes context
//	'-'     becomes context           omitted
//
// Selected '+'/'-' lines and context lines are kept as they are. The new hunk
// header reuses the original start positions with recomputed counts.
//
// When the result would contain no '+' or '-' line, ok is false and no patch
// is returned. That is a no-op, not a failure: callers must skip the apply
// step.
func Partial(d *diff.DiffData, index int, selected []int, reverse bool) (p Patch, ok bool, err error) {
	h, err := d.Hunk(index)
	if err != nil {
		return Patch{}, false, err
	}

	offset := headerOffset(d, index)
	if offset == 0 {
		return Patch{}, false, apperrors.Internal(fmt.Sprintf("hunk %d header missing from display lines", index), nil)
	}

	isSelected := make(map[int]bool, len(selected))
	for _, s := range selected {
		isSelected[s] = true
	}

	r, valid := diff.ParseHunkHeader(h.Header)
	if !valid {
		return Patch{}, false, apperrors.PatchInvalid(fmt.Errorf("malformed hunk header %q", h.Header))
	}

	var (
		body     []string
		oldCount int
		newCount int
		changed  bool
		keptPrev bool
	)

	for i, line := range h.Lines {
		chosen := isSelected[offset+i+1]

		// Some tools strip the space from empty context lines.
		prefix := byte(' ')
		if line != "" {
			prefix = line[0]
		}

		switch prefix {
		case ' ':
			body = append(body, line)
			oldCount++
			newCount++
			keptPrev = true

		case '+':
			switch {
			case chosen:
				body = append(body, line)
				newCount++
				changed = true
				keptPrev = true
			case reverse:
				body = append(body, " "+line[1:])
				oldCount++
				newCount++
				keptPrev = true
			default:
				keptPrev = false
			}

		case '-':
			switch {
			case chosen:
				body = append(body, line)
				oldCount++
				changed = true
				keptPrev = true
			case !reverse:
				body = append(body, " "+line[1:])
				oldCount++
				newCount++
				keptPrev = true
			default:
				keptPrev = false
			}

		case '\\':
			// "\ No newline at end of file" annotates the line before it.
			if keptPrev {
				body = append(body, line)
			}

		default:
			return Patch{}, false, apperrors.PatchInvalid(
				fmt.Errorf("hunk %d line %d has unknown prefix %q", index, i+1, line[:1]))
		}
	}

	if !changed {
		return Patch{}, false, nil
	}

	lines := make([]string, 0, len(d.Header)+1+len(body))
	lines = append(lines, d.Header...)
	lines = append(lines, fmt.Sprintf("@@ -%d,%d +%d,%d @@", r.OldStart, oldCount, r.NewStart, newCount))
	lines = append(lines, body...)
	return Patch{Lines: lines}, true, nil
}

// headerOffset returns the 1-based display position of the index-th hunk
// header, or 0 if there are fewer headers than that.
func headerOffset(d *diff.DiffData, index int) int {
	seen := 0
	for i, line := range d.DisplayLines {
		if diff.IsHunkHeader(line) {
			seen++
			if seen == index {
				return i + 1
			}
		}
	}
	return 0
}
