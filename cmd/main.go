package main

import (
	"fmt"
	"io"
	"os"
)

// Version is set at build time via -ldflags.
// Example: go build -ldflags="-X main.Version=v0.1.0" ./cmd
var Version = "dev"

// stdin is read when no --file is given. Tests replace it.
var stdin io.Reader = os.Stdin

const usage = `hunkstage - stage and unstage diffs by hunk or by line

Usage:
  hunkstage <command> [options]

Commands:
  parse             Summarize a diff: files, hunks and line counts
  hunk <n>          Print the patch that stages hunk n
  lines <i>...      Print the patch that stages the selected display lines
  show              Print the visible lines of a diff at a visibility level
  layouts list      List saved view layouts
  layouts delete <name>  Delete a saved view layout
  config init       Write a default config file
  version           Print the version

Diff text is read from --file, or from stdin when --file is not given.
Run 'hunkstage <command> --help' for more information on a command.
`

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprint(stdout, usage)
		return 0
	}

	switch args[1] {
	case "parse":
		return runParse(args[2:], stdout, stderr)
	case "hunk":
		return runHunk(args[2:], stdout, stderr)
	case "lines":
		return runLines(args[2:], stdout, stderr)
	case "show":
		return runShow(args[2:], stdout, stderr)
	case "layouts":
		if len(args) < 3 {
			fmt.Fprintln(stdout, "Usage: hunkstage layouts <list|delete>")
			return 1
		}
		switch args[2] {
		case "list":
			return runLayoutsList(args[3:], stdout, stderr)
		case "delete":
			return runLayoutsDelete(args[3:], stdout, stderr)
		default:
			fmt.Fprintf(stdout, "Unknown layouts command: %s\n", args[2])
			return 1
		}
	case "config":
		if len(args) < 3 || args[2] != "init" {
			fmt.Fprintln(stdout, "Usage: hunkstage config init [--config <path>]")
			return 1
		}
		return runConfigInit(args[3:], stdout, stderr)
	case "--help", "-h", "help":
		fmt.Fprint(stdout, usage)
		return 0
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "hunkstage %s\n", Version)
		return 0
	default:
		fmt.Fprintf(stdout, "Unknown command: %s\n", args[1])
		fmt.Fprint(stdout, usage)
		return 1
	}
}
