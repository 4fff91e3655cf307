package vselect

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// Selector is a pure read function over an observable graph. It receives
// the root wrapped in a View and returns a derived value. Selectors must
// not mutate the graph and must not suspend; all tracking happens within
// one synchronous call.
type Selector[R any] func(*View) (R, error)

// SubscriptionState is the lifecycle state of a subscription.
type SubscriptionState int32

const (
	// StateIdle means the subscription has not been built yet.
	StateIdle SubscriptionState = iota

	// StateActive means key listeners are live and match the most recent
	// selector evaluation.
	StateActive

	// StateRebuilding is the transient state while a change-driven
	// re-evaluation replaces the subscription set.
	StateRebuilding

	// StateTornDown is terminal; no further callbacks will be delivered.
	StateTornDown
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateRebuilding:
		return "rebuilding"
	case StateTornDown:
		return "torn down"
	default:
		return "unknown"
	}
}

// WatchOption is a modifier for subscriptions
type WatchOption func(*watchConfig)

type watchConfig struct {
	extensions []Extension
	onError    func(error)
}

// WithExtension returns an option that attaches an extension to a
// subscription
func WithExtension(ext Extension) WatchOption {
	return func(c *watchConfig) {
		c.extensions = append(c.extensions, ext)
	}
}

// WithErrorHandler returns an option that receives errors raised by
// change-driven rebuilds. Those errors have no return path through the
// store's listener callback; without a handler the subscription panics
// with the *EvalError or *SubscribeError, surfacing it synchronously at
// the mutating call site.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(c *watchConfig) {
		c.onError = fn
	}
}

// Subscription tracks what one selector reads over one observable root
// and keeps a matching set of key listeners open. At any quiescent moment
// the open listeners are exactly the (object, key) pairs the most recent
// evaluation touched.
//
// A subscription is confined to the goroutine that delivers the store's
// change notifications. That is the store contract the engine is built
// for (a single cooperative event loop); it also makes re-entrant calls
// (teardown from within the change callback, mutation from within the
// change callback) safe without locking.
type Subscription[R any] struct {
	id       string
	store    Store
	root     any
	selector Selector[R]
	onChange func()

	state     SubscriptionState
	rec       recorder
	cancelAll CancelFunc

	// gen invalidates listeners from superseded subscription sets; a
	// late delivery whose generation no longer matches is ignored.
	gen uint64

	lastCount  int
	extensions []Extension
	onError    func(error)
}

// Watch evaluates selector over root with read tracking enabled, opens
// one store listener per (object, key) pair the selector touched, and
// returns the live subscription. Whenever a tracked pair changes, the
// whole listener set is rebuilt from a fresh evaluation and onChange is
// invoked after the rebuild completes, so new listeners are in place
// before the consumer re-reads the selector's result.
//
// A selector or store failure during the first build propagates here and
// leaves no listeners open.
func Watch[R any](store Store, root any, selector Selector[R], onChange func(), opts ...WatchOption) (*Subscription[R], error) {
	cfg := watchConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	sort.SliceStable(cfg.extensions, func(i, j int) bool {
		return cfg.extensions[i].Order() < cfg.extensions[j].Order()
	})

	if onChange == nil {
		onChange = func() {}
	}

	s := &Subscription[R]{
		id:         uuid.NewString(),
		store:      store,
		root:       root,
		selector:   selector,
		onChange:   onChange,
		extensions: cfg.extensions,
		onError:    cfg.onError,
	}

	for _, ext := range s.extensions {
		if err := ext.Init(s); err != nil {
			return nil, err
		}
	}

	if err := s.build(OpEvaluate); err != nil {
		return nil, err
	}
	s.state = StateActive

	return s, nil
}

// ID returns the subscription's unique identifier.
func (s *Subscription[R]) ID() string {
	return s.id
}

// State returns the subscription's lifecycle state.
func (s *Subscription[R]) State() SubscriptionState {
	return s.state
}

// AccessCount returns the number of (object, key) pairs the most recent
// evaluation touched.
func (s *Subscription[R]) AccessCount() int {
	return s.lastCount
}

// Teardown cancels every live key listener. Idempotent: calling it again,
// or calling it from within the onChange callback, is a no-op. A change
// notification that arrives after teardown is ignored.
func (s *Subscription[R]) Teardown() {
	if s.state == StateTornDown {
		return
	}
	s.state = StateTornDown
	s.gen++

	if s.cancelAll != nil {
		s.cancelAll()
		s.cancelAll = nil
	}

	for _, ext := range s.extensions {
		ext.OnTeardown(s)
	}
}

// build runs one full cycle: tracked evaluation, then swap the listener
// set. The new set is opened before the old one is cancelled, so a
// failure at any point leaves the previous set fully active (or, on the
// first build, no listeners at all).
func (s *Subscription[R]) build(kind OperationKind) error {
	set := s.rec.begin()
	view := newView(s.store, s.root, &s.rec)
	op := &Operation{Kind: kind, Subscription: s}

	next := func() (any, error) {
		val, err := s.selector(view)
		if err != nil {
			return nil, err
		}
		if len(s.extensions) > 0 {
			op.Accesses = accessList(set)
		}
		return val, nil
	}
	for i := len(s.extensions) - 1; i >= 0; i-- {
		ext := s.extensions[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(context.Background(), currentNext, op)
		}
	}

	_, err := next()
	s.rec.end()
	if err != nil {
		releaseAccessSet(set)
		evalErr := newEvalError(s.id, err, string(kind))
		for _, ext := range s.extensions {
			ext.OnError(evalErr, op)
		}
		return evalErr
	}

	gen := s.gen + 1
	cancelAll, err := openKeySubscriptions(s.store, set, func() {
		s.notify(gen)
	})
	count := set.size()
	releaseAccessSet(set)
	if err != nil {
		// s.gen is untouched: the previous set stays authoritative, and
		// anything that slipped out of the failed batch is stale.
		for _, ext := range s.extensions {
			ext.OnError(err, op)
		}
		return err
	}

	old := s.cancelAll
	s.cancelAll = cancelAll
	s.gen = gen
	s.lastCount = count
	if old != nil {
		old()
	}
	return nil
}

// notify is the listener wired to every key of one subscription set. The
// access set may have shifted for reasons unrelated to the key that fired
// (conditional branches), so the entire set is rebuilt rather than
// diffed; that is the trivially correct policy under arbitrary selector
// logic.
func (s *Subscription[R]) notify(gen uint64) {
	if s.state == StateTornDown || gen != s.gen {
		return
	}

	s.state = StateRebuilding
	err := s.build(OpRebuild)
	if err != nil {
		s.state = StateActive
		s.fail(err)
		return
	}

	s.state = StateActive
	s.onChange()
}

func (s *Subscription[R]) fail(err error) {
	if s.onError != nil {
		s.onError(err)
		return
	}
	panic(err)
}

func accessList(set accessSet) []Access {
	out := make([]Access, 0, set.size())
	for obj, keys := range set {
		for key := range keys {
			out = append(out, Access{Object: obj, Key: key})
		}
	}
	return out
}
