package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachRunsEveryItem(t *testing.T) {
	var sum atomic.Int64
	err := ForEach(context.Background(), []int{1, 2, 3, 4}, 2, func(_ context.Context, v int) error {
		sum.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.Load())
}

func TestForEachRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	err := ForEach(context.Background(), make([]struct{}, 16), 3, func(context.Context, struct{}) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestForEachCancelsOnError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(context.Background(), []int{0, 1}, 0, func(ctx context.Context, v int) error {
		if v == 0 {
			return boom
		}
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, boom)
}

func TestMapKeepsOrder(t *testing.T) {
	out, err := Map(context.Background(), []string{"a", "bb", "ccc"}, 0, func(_ context.Context, s string) (int, error) {
		return len(s), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, out)
}
