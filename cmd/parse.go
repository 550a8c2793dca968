package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pseudocoder/hunkstage/internal/diff"
)

// FileSummary is the parse output for one file.
type FileSummary struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	Binary  bool          `json:"binary,omitempty"`
	Added   int           `json:"added"`
	Deleted int           `json:"deleted"`
	Large   bool          `json:"large,omitempty"`
	Hunks   []HunkSummary `json:"hunks"`
}

// HunkSummary describes one hunk and where its header sits in the display.
type HunkSummary struct {
	Index    int    `json:"index"`
	Display  int    `json:"display"`
	Header   string `json:"header"`
	OldStart int    `json:"old_start"`
	OldCount int    `json:"old_count"`
	NewStart int    `json:"new_start"`
	NewCount int    `json:"new_count"`
}

func summarize(lines []string) (FileSummary, error) {
	d := diff.Parse(lines)
	meta, err := d.Meta()
	if err != nil {
		return FileSummary{}, err
	}
	stats := d.Stats()

	fs := FileSummary{
		Name:    meta.Name(),
		Status:  fileStatus(meta),
		Binary:  meta.IsBinary,
		Added:   stats.AddedLines,
		Deleted: stats.DeletedLines,
		Large:   stats.IsLarge(),
		Hunks:   []HunkSummary{},
	}
	for i, h := range d.Hunks {
		r, _ := diff.ParseHunkHeader(h.Header)
		fs.Hunks = append(fs.Hunks, HunkSummary{
			Index:    i + 1,
			Display:  d.DisplayIndex(i+1, 0),
			Header:   h.Header,
			OldStart: r.OldStart,
			OldCount: r.OldCount,
			NewStart: r.NewStart,
			NewCount: r.NewCount,
		})
	}
	return fs, nil
}

func fileStatus(m diff.Meta) string {
	switch {
	case m.IsNew:
		return "new"
	case m.IsDelete:
		return "deleted"
	case m.IsRename:
		return "renamed"
	case m.IsCopy:
		return "copied"
	case m.OldMode != 0 && m.NewMode != 0 && m.OldMode != m.NewMode:
		return "mode changed"
	default:
		return "modified"
	}
}

func runParse(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(stderr)

	file := fs.String("file", "", "Read the diff from this file instead of stdin")
	jsonOut := fs.Bool("json", false, "Output in JSON format")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hunkstage parse [options]\n\nSummarize every file in a diff.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	lines, err := readDiff(*file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	summaries := []FileSummary{}
	for _, fl := range diff.SplitFiles(lines) {
		s, err := summarize(fl)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		summaries = append(summaries, s)
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summaries); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if len(summaries) == 0 {
		fmt.Fprintln(stdout, "No changes.")
		return 0
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t+%d -%d\t%d hunks\n", s.Name, s.Status, s.Added, s.Deleted, len(s.Hunks))
		for _, h := range s.Hunks {
			fmt.Fprintf(w, "  %d\t%s\tline %d\t\n", h.Index, h.Header, h.Display)
		}
	}
	w.Flush()
	return 0
}
