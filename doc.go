// Package vselect implements dynamic dependency-tracking subscriptions
// over an observable object graph.
//
// # Overview
//
// Given a mutable observable graph and a pure read function (a selector),
// the engine discovers exactly which (object, key) pairs the selector
// touched on a given evaluation, opens one change listener per pair
// against the store, and automatically tears that set down and rebuilds
// it whenever the graph's shape changes, so the listener set never goes
// stale relative to what the selector would currently read.
//
// Three pieces cooperate:
//
//  1. Views: the read surface a selector evaluates against, recording
//     every property read and lazily wrapping nested observables
//  2. Subscriptions: the rebuild controller keeping the listener set in
//     lockstep with the most recent evaluation
//  3. Sources: the adapter exposing a current-value/subscribe pair to a
//     host binding layer
//
// # Basic Usage
//
// Build an observable graph and watch a selector over it:
//
//	root := state.FromMap(map[string]any{
//	    "count": 0,
//	    "name":  "x",
//	})
//	store := state.NewProvider()
//
//	sub, err := vselect.Watch(store, root,
//	    func(v *vselect.View) (int, error) {
//	        return v.Int("count"), nil
//	    },
//	    func() {
//	        fmt.Println("count changed")
//	    },
//	)
//	defer sub.Teardown()
//
//	root.Set("count", 1) // fires the callback
//	root.Set("name", "y") // untracked, no callback
//
// # Tracking
//
// Every read through a View registers an access at that hop, so a chained
// read such as v.Obj("user").String("name") tracks both the "user" key on
// the root and the "name" key on the user object. Nested observables are
// wrapped lazily as they are reached; nothing is instrumented eagerly, and
// cyclic graphs are safe because wrapping only happens on an actual read.
//
// When any tracked pair changes, the whole listener set is rebuilt from a
// fresh evaluation rather than diffed: a selector may branch on current
// values, so recomputing from scratch is the only policy that is trivially
// correct under arbitrary selector logic. The change callback fires after
// the rebuild completes, so by the time the consumer re-reads the
// selector's result the new listeners are already in place.
//
// # Sources
//
// Source adapts a selector to the polling contract a UI binding layer
// expects:
//
//	src := vselect.NewSource(store, root, selectUser)
//
//	val, err := src.Current() // tracking-disabled read, snapshotted
//	stop, err := src.Subscribe(onChange)
//	defer stop()
//
// Current never opens listeners, and a result that is itself observable is
// returned as an immutable snapshot rather than a live reference.
//
// # Stores
//
// The engine is written against the Store interface and never assumes a
// singleton; the state package provides the reference implementation
// (state.Object, state.List, state.NewProvider). Any store whose key
// listeners deliver synchronously on a single goroutine can be plugged in.
//
// # Extensions
//
// Extensions hook the evaluate/rebuild lifecycle through a middleware
// chain:
//
//	type TimingExtension struct {
//	    vselect.BaseExtension
//	}
//
//	func (e *TimingExtension) Wrap(ctx context.Context, next func() (any, error), op *vselect.Operation) (any, error) {
//	    start := time.Now()
//	    result, err := next()
//	    log.Printf("%s took %v", op.Kind, time.Since(start))
//	    return result, err
//	}
//
//	sub, err := vselect.Watch(store, root, sel, onChange,
//	    vselect.WithExtension(&TimingExtension{
//	        BaseExtension: vselect.NewBaseExtension("timing"),
//	    }),
//	)
//
// The extensions package ships logging (log/slog) and access-set dumping
// extensions.
//
// # Errors
//
// Selector and store failures during Watch or Current return ordinary
// errors. A failure during a change-driven rebuild has no return path
// through the store's listener callback; it goes to the handler installed
// with WithErrorHandler, or panics at the mutating call site when no
// handler is installed. In both cases the previous listener set stays
// fully active, so a failed rebuild never corrupts the subscription.
//
// # Concurrency
//
// Tracking is synchronous by construction: a pass is one uninterrupted
// selector call, and change notifications are delivered on the store's
// single event goroutine. Subscriptions are confined to that goroutine;
// re-entrant use (tearing down from within the change callback, mutating
// from within the change callback) is safe.
package vselect
