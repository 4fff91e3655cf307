package state

import "sync"

// watchTable holds per-key change listeners for one observable container.
// Registration and cancellation are safe for concurrent use; delivery is
// performed by the container after its data lock has been released.
type watchTable struct {
	mu       sync.Mutex
	nextID   uint64
	watchers map[string]map[uint64]func()
}

// subscribe registers fn under key and returns an idempotent cancel.
func (t *watchTable) subscribe(key string, fn func()) func() {
	t.mu.Lock()
	if t.watchers == nil {
		t.watchers = make(map[string]map[uint64]func())
	}
	keyed, ok := t.watchers[key]
	if !ok {
		keyed = make(map[uint64]func())
		t.watchers[key] = keyed
	}
	t.nextID++
	id := t.nextID
	keyed[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		if keyed, ok := t.watchers[key]; ok {
			delete(keyed, id)
			if len(keyed) == 0 {
				delete(t.watchers, key)
			}
		}
		t.mu.Unlock()
	}
}

// collect snapshots the listeners for key so they can be invoked without
// holding any lock.
func (t *watchTable) collect(key string) []func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	keyed := t.watchers[key]
	if len(keyed) == 0 {
		return nil
	}
	out := make([]func(), 0, len(keyed))
	for _, fn := range keyed {
		out = append(out, fn)
	}
	return out
}

func notifyAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
