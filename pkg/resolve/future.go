package resolve

import (
	"sync"
	"sync/atomic"
)

// TreeFuture represents one in-flight resolution pass. It carries the
// interruption handshake between the thread running the pass and the
// foreground thread that may need the result sooner: the foreground
// requests an interrupt, the background parks a partial tree, and either
// side may resume it.
type TreeFuture struct {
	version int

	interruptRequested atomic.Bool
	foreground         atomic.Bool
	released           atomic.Bool

	mu      sync.Mutex
	done    chan struct{}
	doneSet bool
	result  *ResolvedTree
	err     error
}

// NewTreeFuture creates a future for the pass with the given version.
func NewTreeFuture(version int) *TreeFuture {
	return &TreeFuture{version: version, done: make(chan struct{})}
}

// Version returns the pass version this future resolves.
func (f *TreeFuture) Version() int {
	return f.version
}

// RequestInterrupt asks the running pass to park at the next safe point.
// It is a request, not a command; an uninterruptible pass ignores it.
func (f *TreeFuture) RequestInterrupt() {
	f.interruptRequested.Store(true)
}

// InterruptRequested reports whether an interrupt has been requested.
func (f *TreeFuture) InterruptRequested() bool {
	return f.interruptRequested.Load()
}

// MoveToForeground marks the future as owned by the foreground thread.
// From then on interrupt requests no longer apply: the pass runs to
// completion on the calling thread.
func (f *TreeFuture) MoveToForeground() {
	f.foreground.Store(true)
}

// OnForeground reports whether the future has been taken over by the
// foreground thread.
func (f *TreeFuture) OnForeground() bool {
	return f.foreground.Load()
}

// Release marks the future dead. Passes observing a released future stop
// producing output. Returns false if the future was already released.
func (f *TreeFuture) Release() bool {
	return f.released.CompareAndSwap(false, true)
}

// Released reports whether the future has been released.
func (f *TreeFuture) Released() bool {
	return f.released.Load()
}

// Complete publishes the pass result and wakes all waiters. Only the first
// call takes effect.
func (f *TreeFuture) Complete(result *ResolvedTree, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doneSet {
		return
	}
	f.result = result
	f.err = err
	f.doneSet = true
	close(f.done)
}

// Wait blocks until the pass completes and returns its result.
func (f *TreeFuture) Wait() (*ResolvedTree, error) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}

// TryResult returns the result if the pass has already completed.
func (f *TreeFuture) TryResult() (*ResolvedTree, error, bool) {
	select {
	case <-f.done:
	default:
		return nil, nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err, true
}
