package vselect

import "sync"

// openKeySubscriptions opens one store listener per (object, key) pair in
// the access set and returns a single CancelFunc covering all of them.
//
// The returned CancelFunc invokes every handle exactly once and is
// idempotent. If the store fails partway through, the listeners already
// opened in this batch are cancelled before the error is returned, so a
// partial open never leaks.
func openKeySubscriptions(store Store, set accessSet, onChange func()) (CancelFunc, error) {
	cancels := make([]CancelFunc, 0, set.size())

	for obj, keys := range set {
		for key := range keys {
			cancel, err := store.SubscribeKey(obj, key, onChange)
			if err != nil {
				for _, c := range cancels {
					c()
				}
				return nil, &SubscribeError{Key: key, Cause: err}
			}
			cancels = append(cancels, cancel)
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, c := range cancels {
				c()
			}
		})
	}, nil
}
