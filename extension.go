package vselect

import "context"

// Access is one recorded (object, key) read, exposed to extensions after a
// tracking pass.
type Access struct {
	Object any
	Key    string
}

// AnySubscription is a type-erased view of a subscription for extensions.
type AnySubscription interface {
	// ID returns the subscription's unique identifier.
	ID() string
	// State returns the subscription's lifecycle state.
	State() SubscriptionState
	// AccessCount returns the size of the most recent access set.
	AccessCount() int
}

// Extension provides hooks into a subscription's lifecycle
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is attached to a subscription
	Init(sub AnySubscription) error

	// Wrap intercepts operations (evaluate, rebuild)
	Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error)

	// OnError handles errors during evaluation or rebuild
	OnError(err error, op *Operation)

	// OnTeardown is called once when the subscription is torn down
	OnTeardown(sub AnySubscription)
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(sub AnySubscription) error {
	return nil
}

func (e *BaseExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnError(err error, op *Operation) {
}

func (e *BaseExtension) OnTeardown(sub AnySubscription) {
}

// Operation describes what operation is happening
type Operation struct {
	Kind         OperationKind
	Subscription AnySubscription

	// Accesses holds the pairs recorded by the pass, populated once the
	// selector has run. Shared, do not mutate.
	Accesses []Access
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpEvaluate indicates the initial tracked selector evaluation
	OpEvaluate OperationKind = "evaluate"
	// OpRebuild indicates a change-driven re-evaluation
	OpRebuild OperationKind = "rebuild"
)
