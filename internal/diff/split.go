package diff

import "strings"

// SplitFiles cuts multi-file diff output into one line slice per file, at
// each "diff --git " line. Input without such lines is returned whole, and
// anything before the first one is dropped.
func SplitFiles(lines []string) [][]string {
	var files [][]string
	start := -1
	for i, line := range lines {
		if !strings.HasPrefix(line, "diff --git ") {
			continue
		}
		if start >= 0 {
			files = append(files, lines[start:i:i])
		}
		start = i
	}
	if start < 0 {
		if len(lines) == 0 {
			return nil
		}
		return [][]string{lines}
	}
	return append(files, lines[start:])
}
