package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -10,3 +10,4 @@
 context1
-removedA
+addedB
+addedC
 context2
`

const sampleHeader = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
`

func runWithArgs(args []string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// withStdin feeds text to commands that read the diff from stdin.
func withStdin(t *testing.T, text string) {
	t.Helper()
	prev := stdin
	stdin = strings.NewReader(text)
	t.Cleanup(func() { stdin = prev })
}

func writeDiff(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "change.diff")
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		t.Fatalf("write diff: %v", err)
	}
	return path
}

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestRunUsage(t *testing.T) {
	code, out, _ := runWithArgs([]string{"hunkstage"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("expected usage output, got %q", out)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, out, _ := runWithArgs([]string{"hunkstage", "nope"})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("expected unknown command output, got %q", out)
	}
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runWithArgs([]string{"hunkstage", "version"})
	if code != 0 || out != "hunkstage dev\n" {
		t.Fatalf("version = (%d, %q)", code, out)
	}
}

func TestRunLayoutsMissingSubcommand(t *testing.T) {
	code, out, _ := runWithArgs([]string{"hunkstage", "layouts"})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out, "Usage: hunkstage layouts") {
		t.Fatalf("expected layouts usage, got %q", out)
	}
}

func TestParseJSON(t *testing.T) {
	withStdin(t, sampleDiff)

	code, out, errOut := runWithArgs([]string{"hunkstage", "parse", "--json"})
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}

	var got []FileSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got) != 1 {
		t.Fatalf("got %d files, want 1", len(got))
	}
	f := got[0]
	if f.Name != "main.go" || f.Status != "modified" {
		t.Errorf("file = %s (%s)", f.Name, f.Status)
	}
	if f.Added != 2 || f.Deleted != 1 {
		t.Errorf("counts = +%d -%d, want +2 -1", f.Added, f.Deleted)
	}
	if len(f.Hunks) != 1 || f.Hunks[0].OldStart != 10 || f.Hunks[0].NewCount != 4 || f.Hunks[0].Display != 1 {
		t.Errorf("hunks = %+v", f.Hunks)
	}
}

func TestParseHuman(t *testing.T) {
	path := writeDiff(t, sampleDiff)

	code, out, _ := runWithArgs([]string{"hunkstage", "parse", "--file", path})
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, "main.go") || !strings.Contains(out, "+2 -1") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestParseEmptyInput(t *testing.T) {
	withStdin(t, "")

	code, out, _ := runWithArgs([]string{"hunkstage", "parse"})
	if code != 0 || !strings.Contains(out, "No changes.") {
		t.Errorf("parse of empty input = (%d, %q)", code, out)
	}
}

func TestHunk(t *testing.T) {
	withStdin(t, sampleDiff)

	code, out, errOut := runWithArgs([]string{"hunkstage", "hunk", "--verify", "1"})
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != sampleDiff {
		t.Errorf("hunk patch =\n%s\nwant\n%s", out, sampleDiff)
	}
}

func TestHunkOutOfRange(t *testing.T) {
	withStdin(t, sampleDiff)

	code, _, errOut := runWithArgs([]string{"hunkstage", "hunk", "2"})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "hunk.out_of_range") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestLinesStaging(t *testing.T) {
	withStdin(t, sampleDiff)

	code, out, errOut := runWithArgs([]string{"hunkstage", "lines", "--verify", "4"})
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := sampleHeader + "@@ -10,3 +10,4 @@\n context1\n removedA\n+addedB\n context2\n"
	if out != want {
		t.Errorf("lines patch =\n%s\nwant\n%s", out, want)
	}
}

func TestLinesUnstaging(t *testing.T) {
	withStdin(t, sampleDiff)

	code, out, errOut := runWithArgs([]string{"hunkstage", "lines", "--reverse", "3"})
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := sampleHeader + "@@ -10,5 +10,4 @@\n context1\n-removedA\n addedB\n addedC\n context2\n"
	if out != want {
		t.Errorf("lines patch =\n%s\nwant\n%s", out, want)
	}
}

func TestLinesNoChange(t *testing.T) {
	withStdin(t, sampleDiff)

	code, out, errOut := runWithArgs([]string{"hunkstage", "lines", "2", "6"})
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if out != "" {
		t.Errorf("expected no patch, got %q", out)
	}
	if !strings.Contains(errOut, "nothing to apply") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestLinesOutOfRange(t *testing.T) {
	withStdin(t, sampleDiff)

	code, _, errOut := runWithArgs([]string{"hunkstage", "lines", "40"})
	if code != 1 || !strings.Contains(errOut, "selection.out_of_range") {
		t.Errorf("lines 40 = (%d, %q)", code, errOut)
	}
}

func TestLinesInvalidIndex(t *testing.T) {
	code, _, errOut := runWithArgs([]string{"hunkstage", "lines", "x"})
	if code != 1 || !strings.Contains(errOut, "invalid display index") {
		t.Errorf("lines x = (%d, %q)", code, errOut)
	}
}

func TestShowLevels(t *testing.T) {
	isolateHome(t)
	path := writeDiff(t, sampleDiff)

	tests := []struct {
		level    string
		contains []string
		excludes []string
	}{
		{"1", []string{"unstaged\n"}, []string{"main.go"}},
		{"2", []string{"unstaged\n", "  main.go\n"}, []string{"@@"}},
		{"3", []string{"  main.go\n", "   1 @@ -10,3 +10,4 @@"}, []string{"addedB"}},
		{"4", []string{"   1 @@ -10,3 +10,4 @@", "   4 +addedB"}, nil},
	}
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			code, out, errOut := runWithArgs([]string{"hunkstage", "show", "--file", path, "--level", tt.level})
			if code != 0 {
				t.Fatalf("exit %d: %s", code, errOut)
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestShowInvalidLevel(t *testing.T) {
	isolateHome(t)
	withStdin(t, sampleDiff)

	code, _, errOut := runWithArgs([]string{"hunkstage", "show", "--level", "7"})
	if code != 1 || !strings.Contains(errOut, "state.invalid_level") {
		t.Errorf("show --level 7 = (%d, %q)", code, errOut)
	}
}

func TestShowSaveRequiresLayout(t *testing.T) {
	code, _, errOut := runWithArgs([]string{"hunkstage", "show", "--save"})
	if code != 1 || !strings.Contains(errOut, "--save requires --layout") {
		t.Errorf("show --save = (%d, %q)", code, errOut)
	}
}

func TestShowLayoutRoundTrip(t *testing.T) {
	isolateHome(t)
	path := writeDiff(t, sampleDiff)
	db := filepath.Join(t.TempDir(), "state", "layouts.db")

	code, _, errOut := runWithArgs([]string{"hunkstage", "show", "--file", path, "--state-db", db,
		"--level", "4", "--layout", "repo", "--save"})
	if code != 0 {
		t.Fatalf("save exit %d: %s", code, errOut)
	}

	code, out, errOut := runWithArgs([]string{"hunkstage", "show", "--file", path, "--state-db", db, "--layout", "repo"})
	if code != 0 {
		t.Fatalf("restore exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "+addedB") {
		t.Errorf("restored layout should be fully expanded:\n%s", out)
	}

	code, out, _ = runWithArgs([]string{"hunkstage", "layouts", "list", "--state-db", db})
	if code != 0 || strings.TrimSpace(out) != "repo" {
		t.Errorf("layouts list = (%d, %q)", code, out)
	}

	code, out, _ = runWithArgs([]string{"hunkstage", "layouts", "delete", "--state-db", db, "repo"})
	if code != 0 || !strings.Contains(out, "Deleted layout repo") {
		t.Errorf("layouts delete = (%d, %q)", code, out)
	}

	code, _, errOut = runWithArgs([]string{"hunkstage", "layouts", "delete", "--state-db", db, "repo"})
	if code != 1 || !strings.Contains(errOut, "layout not found") {
		t.Errorf("second delete = (%d, %q)", code, errOut)
	}
}

func TestLayoutsListNoDatabase(t *testing.T) {
	isolateHome(t)

	code, out, _ := runWithArgs([]string{"hunkstage", "layouts", "list"})
	if code != 0 || !strings.Contains(out, "No saved layouts.") {
		t.Errorf("layouts list = (%d, %q)", code, out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")

	code, out, errOut := runWithArgs([]string{"hunkstage", "config", "init", "--config", path})
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, path) {
		t.Errorf("stdout = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written: %v", err)
	}
}
