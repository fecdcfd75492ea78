package resolve

import (
	"strings"
	"sync"

	"github.com/nextcore/tessera/pkg/component"
)

// keySeparator matches the ancestor-path separator used for global keys.
const keySeparator = ","

// StateUpdate transforms a component's state. Updates are enqueued from any
// thread and applied, in enqueue order, when the owning component is bound
// during a resolution pass.
type StateUpdate func(prev any) any

// TreeState holds committed and pending state for one tree, keyed by
// global key. It is shared between the enqueuing side and the resolving
// pass, and is the only mutable structure that outlives a pass.
type TreeState struct {
	mu        sync.Mutex
	committed map[string]any
	pending   map[string][]StateUpdate
	resolved  map[string]any
}

// NewTreeState creates an empty tree state.
func NewTreeState() *TreeState {
	return &TreeState{
		committed: make(map[string]any),
		pending:   make(map[string][]StateUpdate),
		resolved:  make(map[string]any),
	}
}

// Enqueue queues a state update for the component with the given global
// key. The update is applied during the next resolution pass and becomes
// visible to later passes once that pass commits.
func (t *TreeState) Enqueue(globalKey string, update StateUpdate) {
	if update == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[globalKey] = append(t.pending[globalKey], update)
}

// HasUncommittedUpdates reports whether any enqueued updates have not yet
// been committed.
func (t *TreeState) HasUncommittedUpdates() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending) > 0
}

// HasPendingUpdatesUnder reports whether any pending update targets the
// subtree rooted at the given global key. Keys are ancestor paths, so the
// subtree test is the key itself or any key extending it.
func (t *TreeState) HasPendingUpdatesUnder(globalKey string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix := globalKey + keySeparator
	for key := range t.pending {
		if key == globalKey || strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// ResolveState computes the state a component with the given key would see
// in the current pass: the committed value (or initial when none exists)
// with all pending updates applied. The pending queue is not consumed.
func (t *TreeState) ResolveState(globalKey string, initial any) any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolveLocked(globalKey, initial)
}

func (t *TreeState) resolveLocked(globalKey string, initial any) any {
	state, ok := t.committed[globalKey]
	if !ok {
		state = initial
	}
	for _, update := range t.pending[globalKey] {
		state = update(state)
	}
	return state
}

// ApplyStateUpdates resolves the state for a scoped context and stores it
// both on the scope and in the pass's resolved set, ready for commit.
func (t *TreeState) ApplyStateUpdates(sc *component.ScopedContext, initial any) {
	t.mu.Lock()
	state := t.resolveLocked(sc.GlobalKey(), initial)
	t.resolved[sc.GlobalKey()] = state
	t.mu.Unlock()
	sc.SetState(state)
}

// carryForward keeps a reused subtree's state alive across the commit of
// the pass that reused it.
func (t *TreeState) carryForward(globalKey string, state any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resolved[globalKey] = state
}

// Commit promotes the resolved state of the just-completed pass into the
// committed set and clears the pending queue. Called exactly once per
// committed pass.
func (t *TreeState) Commit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, state := range t.resolved {
		t.committed[key] = state
	}
	t.resolved = make(map[string]any)
	t.pending = make(map[string][]StateUpdate)
}

// CommittedState returns the committed state for a key, or nil.
func (t *TreeState) CommittedState(globalKey string) any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed[globalKey]
}
