package locks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_AcquireAndRelease(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "product:mug-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// Held keys are reported busy, not blocked on.
	_, ok, err = locker.Acquire(ctx, "product:mug-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// Other keys are independent.
	_, ok, err = locker.Acquire(ctx, "product:mug-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, locker.Release(ctx, "product:mug-1", token))
	_, ok, err = locker.Acquire(ctx, "product:mug-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLocker_ReleaseRequiresMatchingToken(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "order:#1001", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, locker.Release(ctx, "order:#1001", "stale-token"))
	_, ok, err = locker.Acquire(ctx, "order:#1001", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locker.Release(ctx, "order:#1001", token))
}

func TestLocalLocker_ExpiredLeaseCanBeReacquired(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	_, ok, err := locker.Acquire(ctx, "customer:42", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok, err = locker.Acquire(ctx, "customer:42", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLocker_RejectsInvalidArguments(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	_, _, err := locker.Acquire(ctx, "", time.Minute)
	assert.Error(t, err)

	_, _, err = locker.Acquire(ctx, "key", 0)
	assert.Error(t, err)
}
