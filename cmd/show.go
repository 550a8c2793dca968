package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pseudocoder/hunkstage/internal/diff"
	"github.com/pseudocoder/hunkstage/internal/loop"
	"github.com/pseudocoder/hunkstage/internal/source"
	"github.com/pseudocoder/hunkstage/internal/storage"
	"github.com/pseudocoder/hunkstage/internal/view"
)

// showTimeout bounds how long show waits for the view to settle.
const showTimeout = 30 * time.Second

// ShowConfig holds the options for the show command.
type ShowConfig struct {
	ConfigPath string
	File       string
	Level      int
	Staged     bool
	StateDB    string
	Layout     string
	Save       bool
}

func runShow(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := &ShowConfig{}
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to config file (default: ~/.hunkstage/config.toml)")
	fs.StringVar(&cfg.File, "file", "", "Read the diff from this file instead of stdin")
	fs.IntVar(&cfg.Level, "level", 0, "Visibility level 1-4 (default: initial_level from config)")
	fs.BoolVar(&cfg.Staged, "staged", false, "Treat the diff as staged changes")
	fs.StringVar(&cfg.StateDB, "state-db", "", "Layout database (default: state_db from config)")
	fs.StringVar(&cfg.Layout, "layout", "", "Restore the named layout instead of applying a level")
	fs.BoolVar(&cfg.Save, "save", false, "Save the resulting layout under --layout")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hunkstage show [options]\n\nPrint what a status view shows for a diff.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if cfg.Save && cfg.Layout == "" {
		fmt.Fprintln(stderr, "Error: --save requires --layout")
		return 1
	}

	fileCfg, ok := loadConfig(cfg.ConfigPath, stderr)
	if !ok {
		return 1
	}
	if cfg.Level == 0 {
		cfg.Level = fileCfg.InitialLevel
	}
	if cfg.StateDB == "" {
		cfg.StateDB = fileCfg.StateDB
	}
	if cfg.Layout != "" && cfg.StateDB == "" {
		fmt.Fprintln(stderr, "Error: --layout requires --state-db or state_db in config")
		return 1
	}

	lines, err := readDiff(cfg.File)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	section := view.Section{Name: view.SectionUnstaged}
	if cfg.Staged {
		section.Name = view.SectionStaged
	}
	mem := source.NewMemory()
	for i, fl := range diff.SplitFiles(lines) {
		meta, err := diff.Parse(fl).Meta()
		name := meta.Name()
		if err != nil || name == "" {
			name = fmt.Sprintf("file-%d", i+1)
		}
		mem.Add(name, cfg.Staged, fl)
		section.Items = append(section.Items, view.Item{Kind: view.ItemFile, Path: name})
	}

	var store *storage.SQLiteStore
	if cfg.StateDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.StateDB), 0700); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		store, err = storage.NewSQLiteStore(cfg.StateDB)
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to open storage: %v\n", err)
			return 1
		}
		defer store.Close()
	}

	lp := loop.New(0)
	lp.Start()
	defer lp.Stop()

	fetcher := source.NewFetcher(mem, lp, source.FetcherConfig{
		Options: source.Options{
			ContextLines:     fileCfg.ContextLines,
			IgnoreWhitespace: fileCfg.IgnoreWhitespace,
		},
		MaxParallel: fileCfg.MaxParallelFetches,
		Timeout:     fileCfg.FetchTimeout(),
	})

	var (
		session  *view.Session
		setupErr error
		rendered = make(chan struct{}, 1)
	)
	lp.Call(func() {
		session = view.New([]view.Section{section}, fetcher, view.OptionsFromConfig(fileCfg))
		session.OnRender = func() {
			select {
			case rendered <- struct{}{}:
			default:
			}
		}
		session.OnError = func(key string, err error) {
			fmt.Fprintf(stderr, "Warning: %s: %v\n", key, err)
		}

		if cfg.Layout != "" && !cfg.Save {
			found, err := session.Load(store, cfg.Layout)
			if err != nil || found {
				setupErr = err
				return
			}
			fmt.Fprintf(stderr, "No layout named %s; applying level %d.\n", cfg.Layout, cfg.Level)
		}
		setupErr = session.SetLevel(view.Focus{}, cfg.Level)
	})
	if setupErr != nil {
		printCodedError(stderr, setupErr)
		return 1
	}

	select {
	case <-rendered:
	case <-time.After(showTimeout):
		fmt.Fprintln(stderr, "Error: timed out waiting for diffs")
		return 1
	}

	var visible []view.Line
	var saveErr error
	lp.Call(func() {
		visible = session.Visible()
		if cfg.Save {
			saveErr = session.Save(store, cfg.Layout)
		}
		session.Close()
	})
	if saveErr != nil {
		printCodedError(stderr, saveErr)
		return 1
	}

	printLines(stdout, visible)
	return 0
}

func printLines(w io.Writer, lines []view.Line) {
	for _, l := range lines {
		switch l.Kind {
		case view.LineSection:
			fmt.Fprintf(w, "%s\n", l.Text)
		case view.LineItem:
			fmt.Fprintf(w, "  %s\n", l.Text)
		case view.LineSHA:
			fmt.Fprintf(w, "    %s\n", l.Text)
		default:
			fmt.Fprintf(w, "    %4d %s\n", l.Display, l.Text)
		}
	}
}
