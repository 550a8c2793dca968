package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pseudocoder/hunkstage/internal/config"
	"github.com/pseudocoder/hunkstage/internal/storage"
)

// defaultStateDBPath returns ~/.hunkstage/layouts.db.
func defaultStateDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".hunkstage", config.DefaultStateDBName), nil
}

// openLayoutStore resolves the database path from the flag, the config file
// and the default, in that order. ok is false with no error when the
// database does not exist yet.
func openLayoutStore(dbPath, configPath string, stderr io.Writer) (store *storage.SQLiteStore, ok bool, failed bool) {
	if dbPath == "" {
		cfg, loaded := loadConfig(configPath, stderr)
		if !loaded {
			return nil, false, true
		}
		dbPath = cfg.StateDB
	}
	if dbPath == "" {
		var err error
		dbPath, err = defaultStateDBPath()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return nil, false, true
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, false, false
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to open storage: %v\n", err)
		return nil, false, true
	}
	return store, true, false
}

func runLayoutsList(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("layouts list", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbPath := fs.String("state-db", "", "Layout database (default: state_db from config, then ~/.hunkstage/layouts.db)")
	configPath := fs.String("config", "", "Path to config file (default: ~/.hunkstage/config.toml)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hunkstage layouts list [options]\n\nList saved layouts, newest first.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	store, ok, failed := openLayoutStore(*dbPath, *configPath, stderr)
	if failed {
		return 1
	}
	if !ok {
		fmt.Fprintln(stdout, "No saved layouts.")
		return 0
	}
	defer store.Close()

	names, err := store.ListLayouts()
	if err != nil {
		printCodedError(stderr, err)
		return 1
	}
	if len(names) == 0 {
		fmt.Fprintln(stdout, "No saved layouts.")
		return 0
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return 0
}

func runLayoutsDelete(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("layouts delete", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbPath := fs.String("state-db", "", "Layout database (default: state_db from config, then ~/.hunkstage/layouts.db)")
	configPath := fs.String("config", "", "Path to config file (default: ~/.hunkstage/config.toml)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hunkstage layouts delete [options] <name>\n\nDelete a saved layout.\n\nOptions:\n")
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
	name := fs.Arg(0)

	store, ok, failed := openLayoutStore(*dbPath, *configPath, stderr)
	if failed {
		return 1
	}
	if !ok {
		fmt.Fprintf(stderr, "Error: layout not found: %s\n", name)
		return 1
	}
	defer store.Close()

	layout, err := store.LoadLayout(name)
	if err != nil {
		printCodedError(stderr, err)
		return 1
	}
	if layout == nil {
		fmt.Fprintf(stderr, "Error: layout not found: %s\n", name)
		return 1
	}
	if err := store.DeleteLayout(name); err != nil {
		printCodedError(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "Deleted layout %s\n", name)
	return 0
}
