package antispam

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, cfg Config) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, cfg), mr
}

func TestRedisHitBlocksAndExpires(t *testing.T) {
	s, mr := newRedisStore(t, Config{MaxRequests: 2, Window: time.Minute, BlockDuration: 5 * time.Minute})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		over, err := s.Hit(ctx, "198.51.100.1")
		require.NoError(t, err)
		assert.False(t, over)
	}
	over, err := s.Hit(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, over)

	// The block key keeps the IP out even after the rate window lapses.
	mr.FastForward(2 * time.Minute)
	over, err = s.Hit(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, over)

	mr.FastForward(10 * time.Minute)
	over, err = s.Hit(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.False(t, over)
}

func TestRedisStrikesSurviveAcrossStores(t *testing.T) {
	s, mr := newRedisStore(t, Config{StrikeTTL: time.Hour})

	ctx := context.Background()
	n, err := s.Strike(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second instance pointed at the same redis sees the same counter.
	rdb2 := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb2.Close() })
	s2 := NewRedisStore(rdb2, Config{StrikeTTL: time.Hour})
	n, err = s2.Strike(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mr.FastForward(2 * time.Hour)
	n, err = s.Strike(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRedisBlacklistIsShared(t *testing.T) {
	s, mr := newRedisStore(t, Config{})

	ctx := context.Background()
	require.NoError(t, s.Blacklist(ctx, "198.51.100.9"))

	rdb2 := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb2.Close() })
	s2 := NewRedisStore(rdb2, Config{})

	listed, err := s2.IsBlacklisted(ctx, "198.51.100.9")
	require.NoError(t, err)
	assert.True(t, listed)

	listed, err = s2.IsBlacklisted(ctx, "198.51.100.10")
	require.NoError(t, err)
	assert.False(t, listed)
}
