package optimistic

import (
	"errors"
	"fmt"
)

// ErrReconciliation matches every *ReconcileError via errors.Is.
var ErrReconciliation = errors.New("reconciliation failed")

// ReconcileError reports that the confirming request for an optimistic
// change failed and the change was rolled back.
type ReconcileError struct {
	Op  string // increment, decrement, set
	Err error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("%s rolled back: %v", e.Op, e.Err)
}

func (e *ReconcileError) Unwrap() []error {
	return []error{ErrReconciliation, e.Err}
}
