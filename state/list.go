package state

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// LengthKey is the listener key notified when a list's length changes and
// subscribed by length reads.
const LengthKey = "length"

// List is a mutable observable sequence. Element listeners are keyed by
// the element's decimal index; length listeners use LengthKey.
type List struct {
	mu      sync.RWMutex
	items   []any
	version atomic.Uint64
	watch   watchTable
}

// NewList creates an observable list over the given elements.
func NewList(items ...any) *List {
	l := &List{items: make([]any, len(items))}
	copy(l.items, items)
	return l
}

// FromSlice recursively converts a plain slice into an observable list,
// converting nested maps and slices like FromMap.
func FromSlice(items []any) *List {
	l := &List{items: make([]any, len(items))}
	for i, v := range items {
		l.items[i] = fromValue(v)
	}
	return l
}

// Index returns the i-th element, or nil when out of range.
func (l *List) Index(i int) any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Len returns the number of elements.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// SetIndex stores v at index i and notifies the index's listeners.
// Out-of-range writes and writes of an equal value are no-ops.
func (l *List) SetIndex(i int, v any) {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return
	}
	if equalValues(l.items[i], v) {
		l.mu.Unlock()
		return
	}
	l.items[i] = v
	l.version.Add(1)
	l.mu.Unlock()

	notifyAll(l.watch.collect(strconv.Itoa(i)))
}

// Append adds elements to the end of the list, notifying the new index
// keys and the length key.
func (l *List) Append(items ...any) {
	if len(items) == 0 {
		return
	}
	l.mu.Lock()
	first := len(l.items)
	l.items = append(l.items, items...)
	l.version.Add(1)
	l.mu.Unlock()

	var fns []func()
	for i := range items {
		fns = append(fns, l.watch.collect(strconv.Itoa(first+i))...)
	}
	fns = append(fns, l.watch.collect(LengthKey)...)
	notifyAll(fns)
}

// SubscribeKey registers fn under an index key or LengthKey. The returned
// cancel is idempotent.
func (l *List) SubscribeKey(key string, fn func()) func() {
	return l.watch.subscribe(key, fn)
}

// Version returns a counter that increases with every effective mutation.
func (l *List) Version() uint64 {
	return l.version.Load()
}
