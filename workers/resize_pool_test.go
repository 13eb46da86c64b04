package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPool_RunsEveryPathOnce(t *testing.T) {
	pool := NewPool(3, zap.NewNop())
	var calls int32

	err := pool.Run(context.Background(), []string{"a", "b", "a", "c"}, func(ctx context.Context, path string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls)
}

func TestPool_CollectsEveryFailure(t *testing.T) {
	pool := NewPool(2, zap.NewNop())
	boom := errors.New("boom")
	var calls int32

	err := pool.Run(context.Background(), []string{"ok1", "bad1", "ok2", "bad2"}, func(ctx context.Context, path string) error {
		atomic.AddInt32(&calls, 1)
		if path == "bad1" || path == "bad2" {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	assert.EqualValues(t, 4, calls, "a failure does not stop the other files")
	assert.ErrorIs(t, err, boom)

	var fe *FileError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, []string{"bad1", "bad2"}, fe.Path)
	assert.Contains(t, err.Error(), "bad1")
	assert.Contains(t, err.Error(), "bad2")
}

func TestPool_CancelledContext(t *testing.T) {
	pool := NewPool(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	err := pool.Run(ctx, []string{"a", "b"}, func(ctx context.Context, path string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, calls)
}

func TestNewPool_ClampsWorkers(t *testing.T) {
	assert.Equal(t, 1, NewPool(0, nil).Workers)
	assert.Equal(t, 1, NewPool(-3, nil).Workers)
}
