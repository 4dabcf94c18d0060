package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("connection refused")

func returns(n int) RemoteCount {
	return func(context.Context) (int, error) { return n, nil }
}

func fails(err error) RemoteCount {
	return func(context.Context) (int, error) { return 0, err }
}

func TestIncrementAppliesServerCount(t *testing.T) {
	c := NewCounter(10)

	var seen int
	err := c.Increment(context.Background(), func(context.Context) (int, error) {
		seen = c.Value()
		return 12, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 11, seen, "optimistic value visible while the call runs")
	assert.Equal(t, 12, c.Value())
	assert.False(t, c.Pending())
}

func TestIncrementFailureRestoresExactValue(t *testing.T) {
	for _, start := range []int{0, 1, 7, 1000} {
		c := NewCounter(start)
		err := c.Increment(context.Background(), fails(errRemote))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrReconciliation)
		assert.ErrorIs(t, err, errRemote)
		assert.Equal(t, start, c.Value())
	}
}

func TestDecrementFailureGivesBackOne(t *testing.T) {
	c := NewCounter(5)
	err := c.Decrement(context.Background(), fails(errRemote))

	var rerr *ReconcileError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "decrement", rerr.Op)
	assert.Equal(t, 5, c.Value())
}

func TestDecrementAtZeroIsNotClamped(t *testing.T) {
	c := NewCounter(0)

	var mid int
	err := c.Decrement(context.Background(), func(context.Context) (int, error) {
		mid = c.Value()
		return 0, nil
	})

	require.NoError(t, err)
	assert.Equal(t, -1, mid)
	assert.Equal(t, 0, c.Value())
}

func TestSuccessfulSequenceEndsOnLastServerCount(t *testing.T) {
	c := NewCounter(3)
	ctx := context.Background()

	require.NoError(t, c.Increment(ctx, returns(4)))
	require.NoError(t, c.Decrement(ctx, returns(9)))
	require.NoError(t, c.Increment(ctx, returns(2)))
	require.NoError(t, c.Decrement(ctx, returns(41)))

	assert.Equal(t, 41, c.Value())
}

func TestRapidToggleLastResolvedWins(t *testing.T) {
	c := NewCounter(10)

	like := c.Begin(1)
	assert.Equal(t, 11, c.Value())
	unlike := c.Begin(-1)
	assert.Equal(t, 10, c.Value())
	assert.True(t, c.Pending())

	// Responses arrive out of order.
	require.NoError(t, unlike.Settle(10, nil))
	assert.True(t, c.Pending())
	require.NoError(t, like.Settle(11, nil))

	assert.Equal(t, 11, c.Value())
	assert.False(t, c.Pending())
}

func TestSequenceGuardDropsStaleSuccess(t *testing.T) {
	c := NewCounter(10, WithSequenceGuard())

	like := c.Begin(1)
	unlike := c.Begin(-1)

	require.NoError(t, unlike.Settle(10, nil))
	require.NoError(t, like.Settle(11, nil))

	assert.Equal(t, 10, c.Value(), "older response must not overwrite newer one")
}

func TestSequenceGuardRollbackAfterStaleSuccess(t *testing.T) {
	c := NewCounter(10, WithSequenceGuard())

	like := c.Begin(1)
	unlike := c.Begin(-1)

	require.NoError(t, like.Settle(11, nil))
	assert.Equal(t, 10, c.Value())

	require.Error(t, unlike.Settle(0, errRemote))
	assert.Equal(t, 11, c.Value())
}

func TestSequenceGuardSkipsOverwrittenFailure(t *testing.T) {
	c := NewCounter(10, WithSequenceGuard())

	like := c.Begin(1)
	unlike := c.Begin(-1)

	require.NoError(t, unlike.Settle(10, nil))
	require.Error(t, like.Settle(0, errRemote))

	assert.Equal(t, 10, c.Value())
}

func TestSettleTwiceIsNoop(t *testing.T) {
	c := NewCounter(1)
	a := c.Begin(1)

	require.Error(t, a.Settle(0, errRemote))
	require.NoError(t, a.Settle(50, nil))

	assert.Equal(t, 1, c.Value())
	assert.False(t, c.Pending())
}

func TestDisposedCounterIgnoresLateResponses(t *testing.T) {
	c := NewCounter(4)
	a := c.Begin(1)
	c.Dispose()

	assert.NoError(t, a.Settle(99, nil))
	assert.Equal(t, 5, c.Value())

	b := c.Begin(1)
	assert.NoError(t, b.Settle(0, errRemote))
	assert.Equal(t, 5, c.Value())
	assert.True(t, c.Disposed())
}

func TestFlagRollsBackToOppositeOfAttempt(t *testing.T) {
	f := NewFlag(true)

	a := f.Flip()
	assert.False(t, a.Value())
	assert.False(t, f.Value())
	assert.True(t, f.Pending())

	err := a.Settle(errRemote)
	assert.ErrorIs(t, err, ErrReconciliation)
	assert.True(t, f.Value())
	assert.False(t, f.Pending())
}

func TestFlagAndCounterRollBackIndependently(t *testing.T) {
	t.Run("counter fails, flag confirmed", func(t *testing.T) {
		f := NewFlag(false)
		c := NewCounter(10)

		fa := f.Flip()
		ca := c.Begin(1)

		require.NoError(t, fa.Settle(nil))
		require.Error(t, ca.Settle(0, errRemote))

		assert.True(t, f.Value())
		assert.Equal(t, 10, c.Value())
	})

	t.Run("flag fails, counter confirmed", func(t *testing.T) {
		f := NewFlag(false)
		c := NewCounter(10)

		fa := f.Flip()
		ca := c.Begin(1)

		require.Error(t, fa.Settle(errRemote))
		require.NoError(t, ca.Settle(12, nil))

		assert.False(t, f.Value())
		assert.Equal(t, 12, c.Value())
	})
}

func TestCounterConcurrentUse(t *testing.T) {
	c := NewCounter(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = c.Increment(ctx, fails(errRemote))
			} else {
				_ = c.Decrement(ctx, fails(errRemote))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, State{Value: 0, Pending: false}, c.State())
}
