package cache

import (
	"context"
	"testing"
	"time"

	repo "evmarket/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisContinuationStore_ConsumeOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisContinuationStore(rdb)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists(continuationPrefix+"jti-1"))

	ok, err := s.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisContinuationStore_Expired(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisContinuationStore(rdb)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "jti-2", time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := s.Consume(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryContinuationStore(t *testing.T) {
	var s repo.ContinuationStore = NewMemoryContinuationStore()
	mem := s.(*memoryContinuationStore)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", time.Minute))
	require.NoError(t, s.Save(ctx, "b", time.Minute))

	ok, _ := s.Consume(ctx, "a")
	assert.True(t, ok)
	ok, _ = s.Consume(ctx, "a")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = s.Consume(ctx, "b")
	assert.False(t, ok)
}
