package vselect

// Source adapts one (store, root, selector) triple to the host binding
// contract: a current-value read and a subscribe/unsubscribe pair. The
// host is responsible for comparing successive Current results for
// referential stability; the engine only promises a value recomputed
// honestly from current state.
type Source[R any] struct {
	store    Store
	root     any
	selector Selector[R]
	opts     []WatchOption
}

// NewSource creates a source over root for the given selector.
func NewSource[R any](store Store, root any, selector Selector[R], opts ...WatchOption) *Source[R] {
	return &Source[R]{store: store, root: root, selector: selector, opts: opts}
}

// Current evaluates the selector against the live graph with tracking
// disabled. A result that is itself observable is returned as an
// immutable snapshot rather than a live reference.
func (s *Source[R]) Current() (R, error) {
	return Current(s.store, s.root, s.selector)
}

// Subscribe starts tracking and returns the teardown handle. onChange
// fires after each completed rebuild.
func (s *Source[R]) Subscribe(onChange func(), opts ...WatchOption) (CancelFunc, error) {
	merged := s.opts
	if len(opts) > 0 {
		merged = append(append([]WatchOption{}, s.opts...), opts...)
	}
	sub, err := Watch(s.store, s.root, s.selector, onChange, merged...)
	if err != nil {
		return nil, err
	}
	return sub.Teardown, nil
}

// Current evaluates selector over root with tracking disabled: reads pass
// through unrecorded and no listeners are opened. Observable results are
// snapshotted.
func Current[R any](store Store, root any, selector Selector[R]) (R, error) {
	var rec recorder // never activated
	val, err := selector(newView(store, root, &rec))
	if err != nil {
		var zero R
		return zero, newEvalError("", err, "current")
	}
	return snapshotResult(store, val), nil
}

// snapshotResult unwraps a View returned by the selector and snapshots
// any observable value so callers never receive a live mutable reference.
func snapshotResult[R any](store Store, val R) R {
	switch v := any(val).(type) {
	case *View:
		if snap, ok := store.Snapshot(v.Target()).(R); ok {
			return snap
		}
	default:
		if store.IsObservable(v) {
			if snap, ok := store.Snapshot(v).(R); ok {
				return snap
			}
		}
	}
	return val
}
