package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAllKeepsTaskOrder(t *testing.T) {
	got, err := JoinAll(context.Background(),
		func(ctx context.Context) (int, error) { time.Sleep(20 * time.Millisecond); return 1, nil },
		func(ctx context.Context) (int, error) { return 2, nil },
		func(ctx context.Context) (int, error) { time.Sleep(5 * time.Millisecond); return 3, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestJoinAllFirstFailureCancelsSiblings(t *testing.T) {
	boom := errors.New("boom")
	cancelled := make(chan struct{})

	got, err := JoinAll(context.Background(),
		func(ctx context.Context) (string, error) {
			select {
			case <-ctx.Done():
				close(cancelled)
				return "", ctx.Err()
			case <-time.After(2 * time.Second):
				return "slow", nil
			}
		},
		func(ctx context.Context) (string, error) { return "", boom },
	)

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	select {
	case <-cancelled:
	default:
		t.Fatal("sibling task was not cancelled")
	}
}

func TestJoinAllNoTasks(t *testing.T) {
	got, err := JoinAll[int](context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
