package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int) (*redisLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	l, err := NewRedis(Options{Addr: mr.Addr(), Limit: limit})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	rl := l.(*redisLimiter)
	clock := time.Date(2026, 5, 4, 10, 0, 5, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	return rl, mr, &clock
}

func TestAllowBlocksAfterLimit(t *testing.T) {
	l, mr, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, d.Allowed, "hit %d", i+1)
		require.Equal(t, 2-i, d.Remaining)
	}
	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, 0, d.Remaining)
	require.Equal(t, time.Date(2026, 5, 4, 10, 1, 0, 0, time.UTC), d.ResetAt)

	other, err := l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, other.Allowed)

	key := fmt.Sprintf("%s:10.0.0.1:%d", DefaultPrefix, time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC).Unix())
	require.True(t, mr.Exists(key))
	require.Equal(t, DefaultWindow, mr.TTL(key))
}

func TestAllowResetsNextWindow(t *testing.T) {
	l, _, clock := newTestLimiter(t, 1)
	ctx := context.Background()

	d, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	require.True(t, d.Allowed)
	d, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	require.False(t, d.Allowed)

	*clock = clock.Add(time.Minute)
	d, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestAllowFailsOpen(t *testing.T) {
	l, mr, _ := newTestLimiter(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(context.Background(), "ip")
		require.Error(t, err)
		require.True(t, d.Allowed)
	}
}

func TestNewRedisValidates(t *testing.T) {
	_, err := NewRedis(Options{Limit: 1})
	require.Error(t, err)
	_, err = NewRedis(Options{Addr: "localhost:6379"})
	require.Error(t, err)
}
