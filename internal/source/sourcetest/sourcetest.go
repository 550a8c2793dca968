// Package sourcetest provides a scriptable DiffSource and a manual Scheduler
// for tests of code built on package source.
package sourcetest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pseudocoder/hunkstage/internal/source"
)

// Response is what the fake returns for one path.
type Response struct {
	Lines []string
	SHA   string
	Err   error
}

// Source is a DiffSource backed by a map. Paths can be held so that tests
// control the order in which fetches complete.
type Source struct {
	mu        sync.Mutex
	responses map[string]Response // keyed by Key(path, kind, staged)
	gates     map[string]chan struct{}
	calls     atomic.Int64
	log       []string
}

// New returns an empty fake source. Unknown paths fail.
func New() *Source {
	return &Source{
		responses: make(map[string]Response),
		gates:     make(map[string]chan struct{}),
	}
}

// Key builds the lookup key used by Set and Hold.
func Key(path string, kind source.Kind, staged bool) string {
	return fmt.Sprintf("%s/%s/%v", kind, path, staged)
}

// Set scripts the response for a diff fetch.
func (s *Source) Set(path string, staged bool, lines ...string) {
	s.SetResponse(Key(path, source.KindDiff, staged), Response{Lines: lines})
}

// SetResponse scripts a response for the given key.
func (s *Source) SetResponse(key string, r Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[key] = r
}

// Hold makes fetches for key block until Release is called.
func (s *Source) Hold(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gates[key] = make(chan struct{})
}

// Release unblocks fetches for key.
func (s *Source) Release(key string) {
	s.mu.Lock()
	gate := s.gates[key]
	delete(s.gates, key)
	s.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Calls returns how many fetches were issued.
func (s *Source) Calls() int {
	return int(s.calls.Load())
}

// CallLog returns the keys fetched, in call order.
func (s *Source) CallLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.log...)
}

func (s *Source) respond(ctx context.Context, key string) Response {
	s.calls.Add(1)
	s.mu.Lock()
	s.log = append(s.log, key)
	gate := s.gates[key]
	r, ok := s.responses[key]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Response{Err: ctx.Err()}
		}
		// Re-read so tests can change the response while held.
		s.mu.Lock()
		r, ok = s.responses[key]
		s.mu.Unlock()
	}
	if !ok {
		return Response{Err: fmt.Errorf("no scripted response for %s", key)}
	}
	return r
}

// FetchDiff implements source.DiffSource.
func (s *Source) FetchDiff(ctx context.Context, path string, staged bool, _ source.Options) ([]string, error) {
	r := s.respond(ctx, Key(path, source.KindDiff, staged))
	return r.Lines, r.Err
}

// FetchDiffUntracked implements source.DiffSource.
func (s *Source) FetchDiffUntracked(ctx context.Context, path string, _ source.Options) ([]string, error) {
	r := s.respond(ctx, Key(path, source.KindUntracked, false))
	return r.Lines, r.Err
}

// FetchSubmoduleRecordedSHA implements source.DiffSource.
func (s *Source) FetchSubmoduleRecordedSHA(ctx context.Context, path string, _ source.Options) (string, error) {
	r := s.respond(ctx, Key(path, source.KindSubmodule, false))
	return r.SHA, r.Err
}

// Scheduler collects posted callbacks so a test can run them on its own
// goroutine, one at a time.
type Scheduler struct {
	queue chan func()
}

// NewScheduler returns an empty manual scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{queue: make(chan func(), 1024)}
}

// Post implements source.Scheduler.
func (s *Scheduler) Post(fn func()) {
	s.queue <- fn
}

// RunNext waits for one posted callback and runs it.
func (s *Scheduler) RunNext(t testing.TB) {
	t.Helper()
	select {
	case fn := <-s.queue:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a posted callback")
	}
}

// Pending returns the number of callbacks waiting to run.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// ExpectIdle fails if a callback arrives within d.
func (s *Scheduler) ExpectIdle(t testing.TB, d time.Duration) {
	t.Helper()
	select {
	case <-s.queue:
		t.Fatal("unexpected callback posted")
	case <-time.After(d):
	}
}
