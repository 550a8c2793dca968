// Package loop runs posted functions one at a time on a single goroutine.
// Everything that mutates a view's state, including fetch completions,
// goes through a Loop so that no two mutations ever interleave.
package loop

import (
	"sync"
)

// DefaultQueueSize is the initial capacity of the pending queue.
const DefaultQueueSize = 256

// Loop is a single-goroutine executor.
type Loop struct {
	qmu      sync.Mutex    // Guards queue.
	queue    []func()      // Pending work, drained in order.
	wake     chan struct{} // Signals the run goroutine that work is queued.
	stopCh   chan struct{} // Signals the run goroutine to stop.
	doneCh   chan struct{} // Closes when the run goroutine exits.
	mu       sync.Mutex    // Guards lifecycle state.
	running  bool          // True while a run goroutine is active.
	stopping bool          // True while Stop is waiting for run to exit.
}

// New creates a stopped loop whose queue starts with room for queueSize
// functions. A size of zero or less uses DefaultQueueSize. The queue grows
// as needed.
func New(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		queue:  make([]func(), 0, queueSize),
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins draining the queue on a new goroutine.
// Start is safe to call after Stop; queued work is kept.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running || l.stopping {
		l.mu.Unlock()
		return
	}
	l.running = true
	// Recreate channels to allow restart after Stop
	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})
	l.mu.Unlock()

	go l.run()
}

// Stop halts the loop and waits for the function in progress to return.
// Work still queued stays queued.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running || l.stopping {
		l.mu.Unlock()
		return
	}
	l.stopping = true
	stopCh := l.stopCh
	doneCh := l.doneCh
	l.mu.Unlock()

	close(stopCh)
	<-doneCh

	l.mu.Lock()
	l.running = false
	l.stopping = false
	l.mu.Unlock()
}

// Done returns a channel that closes when the loop has stopped.
// Call it after Start to get the channel for that run.
func (l *Loop) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doneCh
}

// Post queues fn to run on the loop goroutine. It never blocks and may be
// called from any goroutine, including the loop itself. Functions run in
// the order they were posted.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.qmu.Lock()
	l.queue = append(l.queue, fn)
	l.qmu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Call posts fn and waits for it to finish. It must not be called from the
// loop goroutine.
func (l *Loop) Call(fn func()) {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}

func (l *Loop) run() {
	l.mu.Lock()
	stopCh, doneCh := l.stopCh, l.doneCh
	l.mu.Unlock()
	defer close(doneCh)

	for {
		for {
			select {
			case <-stopCh:
				return
			default:
			}
			fn := l.next()
			if fn == nil {
				break
			}
			fn()
		}

		select {
		case <-stopCh:
			return
		case <-l.wake:
		}
	}
}

// next pops the oldest queued function, or returns nil.
func (l *Loop) next() func() {
	l.qmu.Lock()
	defer l.qmu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}
