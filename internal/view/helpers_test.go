package view_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pseudocoder/hunkstage/internal/source"
	"github.com/pseudocoder/hunkstage/internal/source/sourcetest"
	"github.com/pseudocoder/hunkstage/internal/view"
)

// twoHunks is a diff whose display lines are:
//
//	1 @@ -1,2 +1,2 @@   2 " one"   3 "-two"    4 "+TWO"
//	5 @@ -10,2 +10,3 @@ 6 " ten"   7 "+eleven" 8 " twelve"
func twoHunks(path string) []string {
	return []string{
		"diff --git a/" + path + " b/" + path,
		"index 1111111..2222222 100644",
		"--- a/" + path,
		"+++ b/" + path,
		"@@ -1,2 +1,2 @@",
		" one",
		"-two",
		"+TWO",
		"@@ -10,2 +10,3 @@",
		" ten",
		"+eleven",
		" twelve",
	}
}

type harness struct {
	src     *sourcetest.Source
	sched   *sourcetest.Scheduler
	session *view.Session
	renders int
	errs    map[string]error
}

func newHarness(t *testing.T, sections []view.Section, opts view.Options) *harness {
	t.Helper()
	h := &harness{
		src:   sourcetest.New(),
		sched: sourcetest.NewScheduler(),
		errs:  make(map[string]error),
	}
	fetcher := source.NewFetcher(h.src, h.sched, source.FetcherConfig{})
	h.session = view.New(sections, fetcher, opts)
	h.session.OnRender = func() { h.renders++ }
	h.session.OnError = func(key string, err error) { h.errs[key] = err }
	t.Cleanup(h.session.Close)
	return h
}

func files(paths ...string) []view.Item {
	items := make([]view.Item, len(paths))
	for i, p := range paths {
		items[i] = view.Item{Kind: view.ItemFile, Path: p}
	}
	return items
}

// expand opens key fully and waits for its fetch.
func (h *harness) expand(t *testing.T, key string) {
	t.Helper()
	require.NoError(t, h.session.ExpandFile(key))
	if !h.session.Cached(key) {
		h.sched.RunNext(t)
	}
	require.True(t, h.session.Cached(key), "%s should be loaded", key)
}

// gatedSource answers each FetchDiff call through its own channel, so tests
// decide the order in which individual calls complete.
type gatedSource struct {
	mu    sync.Mutex
	gates []chan []string
}

func (g *gatedSource) FetchDiff(ctx context.Context, _ string, _ bool, _ source.Options) ([]string, error) {
	ch := make(chan []string, 1)
	g.mu.Lock()
	g.gates = append(g.gates, ch)
	g.mu.Unlock()
	select {
	case lines := <-ch:
		return lines, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedSource) FetchDiffUntracked(context.Context, string, source.Options) ([]string, error) {
	return nil, errors.New("not supported")
}

func (g *gatedSource) FetchSubmoduleRecordedSHA(context.Context, string, source.Options) (string, error) {
	return "", errors.New("not supported")
}

func (g *gatedSource) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.gates)
}

func (g *gatedSource) answer(i int, lines []string) {
	g.mu.Lock()
	ch := g.gates[i]
	g.mu.Unlock()
	ch <- lines
}
