// Package state is the reference observable store for the vselect engine:
// mutable string-keyed objects and lists whose per-key changes can be
// listened to, plus snapshotting into plain immutable values.
//
// Containers notify synchronously, after their data lock has been
// released, on the goroutine that performed the mutation. Writing a value
// equal to the current one is not a change and does not notify.
package state

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Object is a mutable observable string-keyed object.
type Object struct {
	mu      sync.RWMutex
	entries map[string]any
	version atomic.Uint64
	watch   watchTable
}

// NewObject creates an empty observable object.
func NewObject() *Object {
	return &Object{entries: make(map[string]any)}
}

// FromMap recursively converts a plain graph into an observable one:
// nested map[string]any values become Objects and []any values become
// Lists. The input is not retained.
func FromMap(m map[string]any) *Object {
	o := NewObject()
	for k, v := range m {
		o.entries[k] = fromValue(v)
	}
	return o
}

func fromValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return FromMap(val)
	case []any:
		return FromSlice(val)
	default:
		return v
	}
}

// Get returns the value at key, or nil when absent.
func (o *Object) Get(key string) any {
	v, _ := o.Lookup(key)
	return v
}

// Lookup returns the value at key and whether the key exists.
func (o *Object) Lookup(key string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.entries[key]
	return v, ok
}

// Keys returns the object's current keys in unspecified order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	keys := make([]string, 0, len(o.entries))
	for k := range o.entries {
		keys = append(keys, k)
	}
	return keys
}

// Set stores v at key and notifies the key's listeners. Storing a value
// equal to the current one is a no-op.
func (o *Object) Set(key string, v any) {
	o.mu.Lock()
	old, existed := o.entries[key]
	if existed && equalValues(old, v) {
		o.mu.Unlock()
		return
	}
	o.entries[key] = v
	o.version.Add(1)
	o.mu.Unlock()

	notifyAll(o.watch.collect(key))
}

// Delete removes key and notifies its listeners. Deleting an absent key
// is a no-op.
func (o *Object) Delete(key string) {
	o.mu.Lock()
	if _, ok := o.entries[key]; !ok {
		o.mu.Unlock()
		return
	}
	delete(o.entries, key)
	o.version.Add(1)
	o.mu.Unlock()

	notifyAll(o.watch.collect(key))
}

// SubscribeKey registers fn to fire whenever the value at key changes.
// The returned cancel is idempotent.
func (o *Object) SubscribeKey(key string, fn func()) func() {
	return o.watch.subscribe(key, fn)
}

// Version returns a counter that increases with every effective mutation.
func (o *Object) Version() uint64 {
	return o.version.Load()
}

// equalValues reports whether two stored values are equal under ==.
// Values of identical non-comparable dynamic types are treated as
// unequal rather than panicking.
func equalValues(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return false
	}
	return a == b
}
