// Package optimistic holds small state cells that apply a change locally
// before the server confirms it, then reconcile with the server's answer
// or roll the change back.
//
// A Counter tracks a displayed count (likes). A Flag tracks a boolean
// (liked, bookmarked). Each cell rolls back on its own, so a consumer that
// drives both gets two independent rollbacks from one failed call.
//
// Cells are scoped to whatever displays them. Call Dispose when the view
// goes away; outcomes that arrive afterwards are dropped.
package optimistic

import (
	"context"
	"sync"
)

// RemoteCount performs the confirming request and returns the server's
// authoritative count.
type RemoteCount func(ctx context.Context) (int, error)

// State is a snapshot of a Counter.
type State struct {
	Value   int
	Pending bool
}

// Option configures a Counter.
type Option func(*Counter)

// WithSequenceGuard makes the counter ignore successful responses that
// belong to a request older than the most recently issued one, and skip
// rolling back failures that were already overwritten by a newer response.
// Without it the last response to arrive wins.
func WithSequenceGuard() Option {
	return func(c *Counter) {
		c.guard = true
	}
}

// Counter is an integer that moves by +1/-1 immediately and is corrected
// to the server count when the confirming request returns.
//
// The value is not clamped: a decrement from 0 shows -1 until the
// response arrives.
type Counter struct {
	mu       sync.Mutex
	value    int
	inflight int
	issued   uint64 // sequence number of the newest attempt
	applied  uint64 // sequence number of the newest applied success
	guard    bool
	disposed bool
}

// NewCounter seeds a counter with the last known server count.
func NewCounter(initial int, opts ...Option) *Counter {
	c := &Counter{value: initial}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Value returns the best known count.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Pending reports whether any reconciliation is in flight.
func (c *Counter) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// State returns value and pending together.
func (c *Counter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Value: c.value, Pending: c.inflight > 0}
}

// Dispose detaches the counter from its view. Attempts settled after this
// leave the value untouched.
func (c *Counter) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
}

// Disposed reports whether Dispose has been called.
func (c *Counter) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Begin applies delta right away and returns the attempt that must later be
// settled with the server's answer. Event-loop callers use this to return
// control before the request runs.
func (c *Counter) Begin(delta int) *Attempt {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued++
	a := &Attempt{counter: c, delta: delta, seq: c.issued}
	if c.disposed {
		a.settled = true
		return a
	}
	c.value += delta
	c.inflight++
	return a
}

// Increment adds 1, calls remote, and reconciles. On failure the 1 is
// taken back and a *ReconcileError is returned.
func (c *Counter) Increment(ctx context.Context, remote RemoteCount) error {
	return c.run(ctx, 1, remote)
}

// Decrement subtracts 1, calls remote, and reconciles. On failure the 1 is
// given back and a *ReconcileError is returned.
func (c *Counter) Decrement(ctx context.Context, remote RemoteCount) error {
	return c.run(ctx, -1, remote)
}

func (c *Counter) run(ctx context.Context, delta int, remote RemoteCount) error {
	a := c.Begin(delta)
	count, err := remote(ctx)
	return a.Settle(count, err)
}

// Attempt is one optimistic adjustment waiting for its response.
type Attempt struct {
	counter *Counter
	delta   int
	seq     uint64
	settled bool
}

// Delta returns the adjustment applied by Begin.
func (a *Attempt) Delta() int {
	return a.delta
}

// Settle reconciles the attempt. With err == nil the value becomes count;
// otherwise the delta is reverted and a *ReconcileError wrapping err is
// returned. Settling twice, or after Dispose, changes nothing.
func (a *Attempt) Settle(count int, err error) error {
	c := a.counter
	c.mu.Lock()
	defer c.mu.Unlock()

	if a.settled {
		return nil
	}
	a.settled = true
	c.inflight--

	if c.disposed {
		return nil
	}

	if err != nil {
		if !c.guard || a.seq > c.applied {
			c.value -= a.delta
		}
		return &ReconcileError{Op: opForDelta(a.delta), Err: err}
	}

	if c.guard && a.seq != c.issued {
		return nil
	}
	c.value = count
	c.applied = a.seq
	return nil
}

func opForDelta(delta int) string {
	if delta < 0 {
		return "decrement"
	}
	return "increment"
}
