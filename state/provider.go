package state

import (
	"errors"
	"strconv"

	vselect "github.com/ts-zen/valtio-select"
)

// ErrNotObservable is returned when a key listener is requested on a
// value the store does not manage.
var ErrNotObservable = errors.New("state: value is not observable")

// Provider implements vselect.Store over Objects and Lists. It carries no
// state of its own; containers own their watcher tables, so listeners can
// be opened on any object regardless of when or where it was created.
type Provider struct{}

// NewProvider returns the store adapter for this package's containers.
func NewProvider() *Provider {
	return &Provider{}
}

var _ vselect.Store = (*Provider)(nil)

// Get returns the value at key on obj. List-like objects answer index
// keys and the length key.
func (p *Provider) Get(obj any, key string) (any, bool) {
	switch o := obj.(type) {
	case *Object:
		return o.Lookup(key)
	case *List:
		if key == LengthKey {
			return o.Len(), true
		}
		if i, err := strconv.Atoi(key); err == nil {
			return o.Index(i), true
		}
		return nil, false
	default:
		return nil, false
	}
}

// Index returns the i-th element of a List, or nil otherwise.
func (p *Provider) Index(obj any, i int) any {
	if l, ok := obj.(*List); ok {
		return l.Index(i)
	}
	return nil
}

// Len returns the length of a List, or 0 otherwise.
func (p *Provider) Len(obj any) int {
	if l, ok := obj.(*List); ok {
		return l.Len()
	}
	return 0
}

// SubscribeKey opens a key listener on an Object or List.
func (p *Provider) SubscribeKey(obj any, key string, fn func()) (vselect.CancelFunc, error) {
	switch o := obj.(type) {
	case *Object:
		return o.SubscribeKey(key, fn), nil
	case *List:
		return o.SubscribeKey(key, fn), nil
	default:
		return nil, ErrNotObservable
	}
}

// IsObservable reports whether v is a container managed by this package.
func (p *Provider) IsObservable(v any) bool {
	return IsObservable(v)
}

// Snapshot returns a deep immutable copy of v: Objects become
// map[string]any and Lists become []any. Shared substructure stays shared
// in the copy and cyclic graphs terminate, so a snapshot is always
// bounded work. Non-observable values are returned as-is.
func (p *Provider) Snapshot(v any) any {
	return snapshotValue(v, make(map[any]any))
}

// Snapshot is the package-level form of Provider.Snapshot.
func Snapshot(v any) any {
	return snapshotValue(v, make(map[any]any))
}

// IsObservable reports whether v is a container managed by this package.
func IsObservable(v any) bool {
	switch v.(type) {
	case *Object, *List:
		return true
	default:
		return false
	}
}

// snapshotValue walks the graph with a visited map from container
// identity to its copy. Registering the copy before filling it is what
// lets cycles resolve to the already-created copy.
func snapshotValue(v any, visited map[any]any) any {
	switch o := v.(type) {
	case *Object:
		if copied, ok := visited[o]; ok {
			return copied
		}
		o.mu.RLock()
		entries := make(map[string]any, len(o.entries))
		for k, val := range o.entries {
			entries[k] = val
		}
		o.mu.RUnlock()

		m := make(map[string]any, len(entries))
		visited[o] = m
		for k, val := range entries {
			m[k] = snapshotValue(val, visited)
		}
		return m
	case *List:
		if copied, ok := visited[o]; ok {
			return copied
		}
		o.mu.RLock()
		items := make([]any, len(o.items))
		copy(items, o.items)
		o.mu.RUnlock()

		s := make([]any, len(items))
		visited[o] = s
		for i, val := range items {
			s[i] = snapshotValue(val, visited)
		}
		return s
	default:
		return v
	}
}
