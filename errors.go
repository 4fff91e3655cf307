package vselect

import (
	"fmt"
	"runtime/debug"
)

// EvalError wraps a selector failure. The previous subscription set is
// untouched when the failure happened during a rebuild; no subscriptions
// exist when it happened on the first build.
type EvalError struct {
	SubscriptionID string
	Cause          error
	Context        string
	StackTrace     []byte
}

func (e *EvalError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("selector error in subscription %s during %s: %v", e.SubscriptionID, e.Context, e.Cause)
	}
	return fmt.Sprintf("selector error in subscription %s: %v", e.SubscriptionID, e.Cause)
}

func (e *EvalError) Unwrap() error {
	return e.Cause
}

func newEvalError(id string, cause error, context string) *EvalError {
	return &EvalError{
		SubscriptionID: id,
		Cause:          cause,
		Context:        context,
		StackTrace:     debug.Stack(),
	}
}

// SubscribeError wraps a store failure while opening a key listener for a
// discovered (object, key) pair. Listeners already opened in the same
// batch have been cancelled by the time this surfaces.
type SubscribeError struct {
	Key   string
	Cause error
}

func (e *SubscribeError) Error() string {
	return fmt.Sprintf("subscribing key %q: %v", e.Key, e.Cause)
}

func (e *SubscribeError) Unwrap() error {
	return e.Cause
}
