package optimistic

import "sync"

// Flag is a boolean that flips immediately on toggle and is set back when
// the confirming request fails.
type Flag struct {
	mu       sync.Mutex
	value    bool
	inflight int
	disposed bool
}

// NewFlag seeds a flag with the last known server state.
func NewFlag(initial bool) *Flag {
	return &Flag{value: initial}
}

// Value returns the displayed state.
func (f *Flag) Value() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Pending reports whether any flip is still unconfirmed.
func (f *Flag) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight > 0
}

// Dispose detaches the flag from its view.
func (f *Flag) Dispose() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposed = true
}

// Disposed reports whether Dispose has been called.
func (f *Flag) Disposed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposed
}

// Flip sets the flag to the opposite of its current value and returns the
// attempt carrying the new value.
func (f *Flag) Flip() *FlagAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()

	a := &FlagAttempt{flag: f, value: !f.value}
	if f.disposed {
		a.settled = true
		return a
	}
	f.value = a.value
	f.inflight++
	return a
}

// FlagAttempt is one unconfirmed flip.
type FlagAttempt struct {
	flag    *Flag
	value   bool
	settled bool
}

// Value is the state the flip moved the flag to.
func (a *FlagAttempt) Value() bool {
	return a.value
}

// Settle confirms the flip when err is nil. Otherwise the flag is set to
// the opposite of the attempted value and a *ReconcileError is returned.
func (a *FlagAttempt) Settle(err error) error {
	f := a.flag
	f.mu.Lock()
	defer f.mu.Unlock()

	if a.settled {
		return nil
	}
	a.settled = true
	f.inflight--

	if f.disposed || err == nil {
		return nil
	}
	f.value = !a.value
	return &ReconcileError{Op: "set", Err: err}
}
