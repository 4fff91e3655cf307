package vselect

// CancelFunc releases a previously opened resource such as a key listener
// or a whole subscription. Calling it more than once is a no-op.
type CancelFunc func()

// Store is the observable-store collaborator the engine is wired against.
// The engine never assumes a singleton store; every entry point takes the
// store explicitly.
//
// Objects handed to a Store are opaque to the engine: it only compares them
// by identity and routes reads and key listeners through this interface.
// Keys are strings; list element reads use the element's decimal index as
// the key and length reads use the key "length".
type Store interface {
	// Get returns the value at key on obj and whether the key exists.
	Get(obj any, key string) (any, bool)

	// Index returns the i-th element of a list-like obj, or nil when out
	// of range.
	Index(obj any, i int) any

	// Len returns the length of a list-like obj, or 0 when obj is not
	// list-like.
	Len(obj any) int

	// SubscribeKey fires fn whenever the value at obj[key] changes by any
	// mutation path. The returned CancelFunc stops delivery and must be
	// safe to call more than once. Listeners can be opened on any object
	// reachable from a root, including objects created after the root.
	SubscribeKey(obj any, key string, fn func()) (CancelFunc, error)

	// IsObservable reports whether v belongs to this store's observable
	// family.
	IsObservable(v any) bool

	// Snapshot returns an immutable point-in-time copy of an observable
	// value. Non-observable values are returned as-is.
	Snapshot(v any) any
}
