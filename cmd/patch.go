package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
	"github.com/pseudocoder/hunkstage/internal/patch"
)

func runHunk(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hunk", flag.ContinueOnError)
	fs.SetOutput(stderr)

	file := fs.String("file", "", "Read the diff from this file instead of stdin")
	verify := fs.Bool("verify", false, "Check the patch parses before printing it")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hunkstage hunk [options] <n>\n\nPrint the patch for hunk n (1-based) of the first file in the diff.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}
	index, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid hunk index %q\n", fs.Arg(0))
		return 1
	}

	lines, err := readDiff(*file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	d, err := firstFile(lines)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	p, err := patch.Hunk(d, index)
	if err != nil {
		printCodedError(stderr, err)
		return 1
	}
	return emitPatch(p, *verify, stdout, stderr)
}

func runLines(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lines", flag.ContinueOnError)
	fs.SetOutput(stderr)

	file := fs.String("file", "", "Read the diff from this file instead of stdin")
	reverse := fs.Bool("reverse", false, "Build an unstaging patch (applied in reverse against the index)")
	verify := fs.Bool("verify", false, "Check the patch parses before printing it")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hunkstage lines [options] <display-index>...\n\n"+
			"Print the patch for the selected lines. Display indices are 1-based\n"+
			"positions among the hunk headers and hunk lines of the first file;\n"+
			"the hunk is the one holding the first index.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 1
	}
	selected := make([]int, 0, fs.NArg())
	for _, a := range fs.Args() {
		n, err := strconv.Atoi(a)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid display index %q\n", a)
			return 1
		}
		selected = append(selected, n)
	}

	lines, err := readDiff(*file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	d, err := firstFile(lines)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	hunk, _, ok := d.Locate(selected[0])
	if !ok {
		printCodedError(stderr, apperrors.SelectionOutOfRange(selected[0], len(d.DisplayLines)))
		return 1
	}
	p, ok, err := patch.Partial(d, hunk, selected, *reverse)
	if err != nil {
		printCodedError(stderr, err)
		return 1
	}
	if !ok {
		fmt.Fprintln(stderr, "Selection makes no change; nothing to apply.")
		return 0
	}
	return emitPatch(p, *verify, stdout, stderr)
}

func emitPatch(p patch.Patch, verify bool, stdout, stderr io.Writer) int {
	if verify {
		if err := patch.Verify(p); err != nil {
			printCodedError(stderr, err)
			return 1
		}
	}
	fmt.Fprint(stdout, p.String())
	return 0
}

func printCodedError(w io.Writer, err error) {
	code, message := apperrors.ToCodeAndMessage(err)
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
}
