package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pseudocoder/hunkstage/internal/config"
	"github.com/pseudocoder/hunkstage/internal/diff"
)

// readDiff reads diff text from path, or from stdin when path is empty.
func readDiff(path string) ([]string, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read diff: %w", err)
	}
	return diff.SplitLines(string(data)), nil
}

// firstFile parses the first file of a possibly multi-file diff.
func firstFile(lines []string) (*diff.DiffData, error) {
	files := diff.SplitFiles(lines)
	if len(files) == 0 {
		return nil, fmt.Errorf("no diff input")
	}
	return diff.Parse(files[0]), nil
}

// loadConfig loads the config, printing the error on failure.
func loadConfig(path string, stderr io.Writer) (*config.Config, bool) {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, false
	}
	return cfg, true
}
