package patch

import (
	"reflect"
	"testing"

	"github.com/pseudocoder/hunkstage/internal/diff"
	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
)

var exampleHeader = []string{
	"diff --git a/f.txt b/f.txt",
	"index 1111111..2222222 100644",
	"--- a/f.txt",
	"+++ b/f.txt",
}

// exampleDiff has one hunk. Display indices: header 1, context1 2,
// removedA 3, addedB 4, addedC 5, context2 6.
func exampleDiff() *diff.DiffData {
	lines := append([]string{}, exampleHeader...)
	lines = append(lines,
		"@@ -10,3 +10,3 @@",
		" context1",
		"-removedA",
		"+addedB",
		"+addedC",
		" context2",
	)
	return diff.Parse(lines)
}

func hunkPart(p Patch) []string {
	return p.Lines[len(exampleHeader):]
}

func TestPartial_StagingSelectedAddition(t *testing.T) {
	p, ok, err := Partial(exampleDiff(), 1, []int{4}, false)
	if err != nil {
		t.Fatalf("Partial() error: %v", err)
	}
	if !ok {
		t.Fatal("expected a patch")
	}

	want := []string{
		"@@ -10,3 +10,4 @@",
		" context1",
		" removedA",
		"+addedB",
		" context2",
	}
	if got := hunkPart(p); !reflect.DeepEqual(got, want) {
		t.Errorf("hunk = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(p.Lines[:len(exampleHeader)], exampleHeader) {
		t.Errorf("header not preserved: %q", p.Lines[:len(exampleHeader)])
	}
}

func TestPartial_UnstagingSelectedDeletion(t *testing.T) {
	p, ok, err := Partial(exampleDiff(), 1, []int{3}, true)
	if err != nil {
		t.Fatalf("Partial() error: %v", err)
	}
	if !ok {
		t.Fatal("expected a patch")
	}

	want := []string{
		"@@ -10,5 +10,4 @@",
		" context1",
		"-removedA",
		" addedB",
		" addedC",
		" context2",
	}
	if got := hunkPart(p); !reflect.DeepEqual(got, want) {
		t.Errorf("hunk = %q, want %q", got, want)
	}
}

func TestPartial_NoOp(t *testing.T) {
	tests := []struct {
		name     string
		selected []int
		reverse  bool
	}{
		{"empty selection staging", nil, false},
		{"empty selection unstaging", nil, true},
		{"context only", []int{2, 6}, false},
		{"hunk header only", []int{1}, true},
		{"outside the hunk", []int{42}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok, err := Partial(exampleDiff(), 1, tt.selected, tt.reverse)
			if err != nil {
				t.Fatalf("Partial() error: %v", err)
			}
			if ok {
				t.Errorf("expected no patch, got %q", p.Lines)
			}
			if len(p.Lines) != 0 {
				t.Errorf("no-op result should carry no lines")
			}
		})
	}
}

func TestPartial_AllSelectedMatchesHunk(t *testing.T) {
	d := diff.ParseText(twoHunkDiff)
	headerLen := len(d.Header)

	for _, reverse := range []bool{false, true} {
		// Hunk 2's header is display index 6; its body is 7 through 10.
		p, ok, err := Partial(d, 2, []int{7, 8, 9, 10}, reverse)
		if err != nil || !ok {
			t.Fatalf("Partial() = ok %v, err %v", ok, err)
		}
		full, _ := Hunk(d, 2)

		if !reflect.DeepEqual(p.Lines[headerLen+1:], full.Lines[headerLen+1:]) {
			t.Errorf("reverse=%v: body %q, want %q", reverse, p.Lines[headerLen+1:], full.Lines[headerLen+1:])
		}
		got, _ := diff.ParseHunkHeader(p.Lines[headerLen])
		want, _ := diff.ParseHunkHeader(full.Lines[headerLen])
		if got != want {
			t.Errorf("reverse=%v: range %+v, want %+v", reverse, got, want)
		}
	}
}

func TestPartial_SecondHunkOffsets(t *testing.T) {
	d := diff.ParseText(twoHunkDiff)

	// Selecting display index 2 ("-line1" in hunk 1) must not leak into hunk 2.
	_, ok, err := Partial(d, 2, []int{2}, false)
	if err != nil {
		t.Fatalf("Partial() error: %v", err)
	}
	if ok {
		t.Error("selection from hunk 1 produced a patch for hunk 2")
	}
}

func TestPartial_NoNewlineMarker(t *testing.T) {
	lines := append([]string{}, exampleHeader...)
	lines = append(lines,
		"@@ -1,2 +1,2 @@",
		" keep",
		"-old",
		`\ No newline at end of file`,
		"+new",
		`\ No newline at end of file`,
	)
	d := diff.Parse(lines)

	// Stage only the deletion: "+new" and its marker are dropped, "-old"
	// keeps its marker.
	p, ok, err := Partial(d, 1, []int{3}, false)
	if err != nil || !ok {
		t.Fatalf("Partial() = ok %v, err %v", ok, err)
	}
	want := []string{
		"@@ -1,2 +1,1 @@",
		" keep",
		"-old",
		`\ No newline at end of file`,
	}
	if got := hunkPart(p); !reflect.DeepEqual(got, want) {
		t.Errorf("hunk = %q, want %q", got, want)
	}
}

func TestPartial_EmptyContextLine(t *testing.T) {
	d := diff.Parse([]string{"--- a/f", "+++ b/f", "@@ -1,2 +1,3 @@", "", "+x", " y"})

	p, ok, err := Partial(d, 1, []int{3}, false)
	if err != nil || !ok {
		t.Fatalf("Partial() = ok %v, err %v", ok, err)
	}
	if p.Lines[2] != "@@ -1,2 +1,3 @@" {
		t.Errorf("empty line not counted as context: %q", p.Lines[2])
	}
	if p.Lines[3] != "" {
		t.Errorf("empty line should be kept as is, got %q", p.Lines[3])
	}
}

func TestPartial_UnknownPrefix(t *testing.T) {
	d := diff.Parse([]string{"@@ -1,1 +1,1 @@", "?what", "+x"})

	_, _, err := Partial(d, 1, []int{3}, false)
	if !apperrors.IsCode(err, apperrors.CodePatchInvalid) {
		t.Errorf("error = %v, want %s", err, apperrors.CodePatchInvalid)
	}
}

func TestPartial_OutOfRange(t *testing.T) {
	_, ok, err := Partial(exampleDiff(), 2, []int{4}, false)
	if !apperrors.IsCode(err, apperrors.CodeHunkOutOfRange) {
		t.Errorf("error = %v, want %s", err, apperrors.CodeHunkOutOfRange)
	}
	if ok {
		t.Error("out of range must not report a patch")
	}
}

func TestPartial_OmittedCountsDefaultToOne(t *testing.T) {
	d := diff.Parse([]string{"--- a/f", "+++ b/f", "@@ -5 +5 @@", "-a", "+b"})

	p, ok, err := Partial(d, 1, []int{2, 3}, false)
	if err != nil || !ok {
		t.Fatalf("Partial() = ok %v, err %v", ok, err)
	}
	if p.Lines[2] != "@@ -5,1 +5,1 @@" {
		t.Errorf("header = %q", p.Lines[2])
	}
}
