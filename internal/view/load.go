package view

import (
	"github.com/pseudocoder/hunkstage/internal/source"
)

// load fetches every target in ts that is not already cached and then calls
// done exactly once with the targets that are loaded. Commits need no fetch
// and are always passed through. Failed fetches are reported through OnError
// and left out, so done never touches their state.
//
// A target evicted while the batch is in flight (collapsed, or reset by a
// lower level) is left out too: its result is dropped and it keeps the
// state it was given meanwhile.
//
// With nothing to fetch, done runs before load returns.
func (s *Session) load(ts []target, done func(loaded []target)) {
	var (
		reqs    []source.Request
		pending []target
		gens    []uint64
		ready   []target
	)
	for _, t := range ts {
		if !t.fetchable() || s.Cached(t.key) {
			ready = append(ready, t)
			continue
		}
		reqs = append(reqs, s.request(t))
		pending = append(pending, t)
		gens = append(gens, s.gens[t.key])
	}

	if len(reqs) == 0 {
		done(ready)
		return
	}

	s.debugf("view: fetching %d of %d targets", len(reqs), len(ts))
	s.fetcher.FetchBatch(s.ctx, reqs, func(results []source.Result) {
		if s.closed {
			return
		}
		// Targets cached when the batch started may have been evicted since.
		var loaded []target
		for _, t := range ready {
			if !t.fetchable() || s.Cached(t.key) {
				loaded = append(loaded, t)
			}
		}
		for i, res := range results {
			t := pending[i]
			if s.stale(t.key, gens[i]) {
				continue
			}
			if res.Err != nil {
				s.fail(res.Request.Key, res.Err)
				continue
			}
			s.storeResult(res)
			loaded = append(loaded, t)
		}
		done(loaded)
	})
}

// loadOne fetches a single target, whether or not it is cached, and calls
// done on success. Nothing happens on failure beyond OnError, and nothing at
// all if t was evicted while the fetch was in flight.
func (s *Session) loadOne(t target, done func()) {
	gen := s.gens[t.key]
	s.fetcher.Fetch(s.ctx, s.request(t), func(res source.Result) {
		if s.closed || s.stale(t.key, gen) {
			return
		}
		if res.Err != nil {
			s.fail(res.Request.Key, res.Err)
			return
		}
		s.storeResult(res)
		done()
	})
}
