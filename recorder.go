package vselect

import "sync"

// accessSet maps object identity to the set of keys read on that object
// during one tracking pass. Insertion order is irrelevant; a pair is only
// ever present once.
type accessSet map[any]map[string]struct{}

func (s accessSet) add(obj any, key string) {
	keys, ok := s[obj]
	if !ok {
		keys = make(map[string]struct{}, 4)
		s[obj] = keys
	}
	keys[key] = struct{}{}
}

func (s accessSet) size() int {
	n := 0
	for _, keys := range s {
		n += len(keys)
	}
	return n
}

// accessSetPool recycles access sets between tracking passes. A set is
// cleared before reuse, never while subscriptions are still being opened
// from it.
var accessSetPool = sync.Pool{
	New: func() any {
		return make(accessSet, 8)
	},
}

func acquireAccessSet() accessSet {
	return accessSetPool.Get().(accessSet)
}

func releaseAccessSet(s accessSet) {
	clear(s)
	accessSetPool.Put(s)
}

// recorder collects the access set of a single tracking pass. The active
// flag is the tracking state: reads performed while it is off leave no
// trace, so reads after a pass has concluded cannot pollute the next pass.
//
// A recorder is owned by exactly one subscription and only toggled within
// the synchronous extent of a selector evaluation.
type recorder struct {
	active bool
	set    accessSet
}

// begin starts a fresh pass and returns the set that will collect it.
// The caller owns the returned set once end has been called.
func (r *recorder) begin() accessSet {
	r.set = acquireAccessSet()
	r.active = true
	return r.set
}

// end stops recording. The set handed out by begin stays valid; the
// recorder no longer writes to it.
func (r *recorder) end() {
	r.active = false
	r.set = nil
}

// record inserts the (object, key) pair into the current pass. No effect
// while inactive.
func (r *recorder) record(obj any, key string) {
	if !r.active {
		return
	}
	r.set.add(obj, key)
}
