package cache

import (
	"context"
	"testing"
	"time"

	"receita-facil/internal/infrastructure/config"
	"receita-facil/internal/pkg/common"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int) *CacheManager {
	t.Helper()
	m := NewManager(config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             time.Minute,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestNewManagerDisabled(t *testing.T) {
	require.Nil(t, NewManager(config.CacheConfig{Enabled: false}))
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 10)

	_, err := m.Get(ctx, "prompt")
	require.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "prompt", "resposta"))
	got, err := m.Get(ctx, "prompt")
	require.NoError(t, err)
	require.Equal(t, "resposta", got)

	stats := m.GetStats()
	require.EqualValues(t, 1, stats["hits"])
	require.EqualValues(t, 1, stats["misses"])
}

func TestExpiredEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 10)

	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "p", "v"))

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := m.Get(ctx, "p")
	require.ErrorIs(t, err, common.ErrCacheMiss)
	require.Equal(t, 0, m.GetStats()["size"])
}

func TestEvictLeastUsedWhenFull(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 2)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	require.ErrorIs(t, err, common.ErrCacheMiss)
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "1", got)
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 1)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "a", "2"))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "2", got)
}
