package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/pseudocoder/hunkstage/internal/config"
)

// runConfigInit writes the default config file unless one exists.
func runConfigInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	path := fs.String("config", "", "Path to config file (default: ~/.hunkstage/config.toml)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *path == "" {
		var err error
		*path, err = config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if err := config.WriteDefault(*path); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Config: %s\n", *path)
	return 0
}
