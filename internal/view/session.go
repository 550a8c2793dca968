// Package view owns the state of one open status view: which sections are
// open, which diffs are loaded and how far each one is expanded.
//
// A Session is not safe for concurrent use. Every method, and every fetch
// completion, must run on the same goroutine; the Fetcher's Scheduler is
// expected to deliver completions there (see package loop).
package view

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/pseudocoder/hunkstage/internal/config"
	"github.com/pseudocoder/hunkstage/internal/diff"
	"github.com/pseudocoder/hunkstage/internal/expansion"
	"github.com/pseudocoder/hunkstage/internal/source"
)

// Options configures a Session.
type Options struct {
	// InitialLevel is the level every scope reports before one is applied.
	InitialLevel int

	// CacheTTL expires loaded diffs. Zero keeps them until collapsed.
	CacheTTL time.Duration

	// VerifyPatches re-parses every synthesized patch before returning it.
	VerifyPatches bool

	// Debug enables verbose logging.
	Debug bool
}

// OptionsFromConfig builds session options from a loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InitialLevel:  cfg.InitialLevel,
		CacheTTL:      cfg.DiffCacheTTL(),
		VerifyPatches: cfg.VerifyPatches,
		Debug:         cfg.Debug(),
	}
}

// Session is one open view.
type Session struct {
	// ID identifies the session in logs.
	ID string

	// OnRender is called after any change that affects what is visible.
	OnRender func()

	// OnError is called when a fetch started by the session fails. The
	// failed target keeps its previous state.
	OnError func(key string, err error)

	idx     *index
	store   *expansion.Store
	diffs   *cache.Cache // key -> *diff.DiffData, or string SHA for submodules

	// gens counts evictions per key. A fetch started before the latest
	// eviction of its key is stale.
	gens map[string]uint64

	fetcher *source.Fetcher
	levels  map[string]int // scope key -> last applied level
	opts    Options

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New opens a session over sections. Every target starts collapsed; the
// sections themselves start open when InitialLevel is 2 or more.
func New(sections []Section, fetcher *source.Fetcher, opts Options) *Session {
	if opts.InitialLevel == 0 {
		opts.InitialLevel = config.DefaultInitialLevel
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := time.Duration(0)
	if ttl > 0 {
		cleanup = 2 * ttl
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:      uuid.NewString(),
		idx:     newIndex(sections),
		store:   expansion.NewStore(),
		diffs:   cache.New(ttl, cleanup),
		gens:    make(map[string]uint64),
		fetcher: fetcher,
		levels:  make(map[string]int),
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
	}
	if opts.InitialLevel >= 2 {
		for _, sec := range sections {
			s.store.SetSectionOpen(sec.Name, true)
		}
	}
	log.Printf("view: session %s opened (%d sections, %d targets)", s.ID, len(sections), len(s.idx.order))
	return s
}

// Close cancels in-flight fetches and drops every loaded diff. Completions
// that arrive afterwards are ignored.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.diffs.Flush()
	log.Printf("view: session %s closed", s.ID)
}

// Sections returns the sections the session was opened with.
func (s *Session) Sections() []Section {
	return s.idx.sections
}

// State returns the expansion state of key.
func (s *Session) State(key string) expansion.State {
	return s.store.Get(key)
}

// Remembered returns the state that re-expanding key would restore.
func (s *Session) Remembered(key string) (expansion.State, bool) {
	return s.store.Recall(key)
}

// SectionOpen reports whether the named section is expanded.
func (s *Session) SectionOpen(name string) bool {
	return s.store.SectionOpen(name)
}

// Diff returns the loaded diff for key.
func (s *Session) Diff(key string) (*diff.DiffData, bool) {
	v, ok := s.diffs.Get(key)
	if !ok {
		return nil, false
	}
	d, ok := v.(*diff.DiffData)
	return d, ok
}

// SubmoduleSHA returns the loaded recorded SHA for a submodule key.
func (s *Session) SubmoduleSHA(key string) (string, bool) {
	v, ok := s.diffs.Get(key)
	if !ok {
		return "", false
	}
	sha, ok := v.(string)
	return sha, ok
}

// Cached reports whether anything is loaded for key.
func (s *Session) Cached(key string) bool {
	_, ok := s.diffs.Get(key)
	return ok
}

// evict releases key's diff. Fetches for key already in flight become
// stale and their results are dropped.
func (s *Session) evict(key string) {
	if _, ok := s.diffs.Get(key); ok {
		s.debugf("view: evicting %s", key)
	}
	s.diffs.Delete(key)
	s.gens[key]++
}

// stale reports whether a fetch for key started at generation gen was
// overtaken by an eviction.
func (s *Session) stale(key string, gen uint64) bool {
	if s.gens[key] == gen {
		return false
	}
	s.debugf("view: dropping stale fetch for %s", key)
	return true
}

// storeResult records a successful fetch result in the cache.
func (s *Session) storeResult(res source.Result) {
	if res.Request.Kind == source.KindSubmodule {
		s.diffs.SetDefault(res.Request.Key, res.SHA)
		return
	}
	s.diffs.SetDefault(res.Request.Key, diff.Parse(res.Lines))
}

func (s *Session) request(t target) source.Request {
	req := source.Request{Key: t.key, Path: t.item.Path}
	switch {
	case t.item.Kind == ItemSubmodule:
		req.Kind = source.KindSubmodule
	case t.section.Name == SectionUntracked:
		req.Kind = source.KindUntracked
	default:
		req.Kind = source.KindDiff
		req.Staged = t.section.Staged()
	}
	return req
}

func (s *Session) render() {
	if s.OnRender != nil {
		s.OnRender()
	}
}

func (s *Session) fail(key string, err error) {
	log.Printf("view: %s: %v", key, err)
	if s.OnError != nil {
		s.OnError(key, err)
	}
}

func (s *Session) debugf(format string, args ...any) {
	if s.opts.Debug {
		log.Printf(format, args...)
	}
}
