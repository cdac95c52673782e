package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pbarros/chessclub/internal/platform/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "responses.db"), logging.NewNop())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_TTLBoundary(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }

	ctx := context.Background()
	s.Set(ctx, "club/demo-club", []byte(`{"name":"Demo"}`), 10*time.Second)

	s.now = func() time.Time { return t0.Add(9 * time.Second) }
	body, ok := s.Get(ctx, "club/demo-club")
	require.True(t, ok, "entry must be retrievable before expiry")
	require.Equal(t, `{"name":"Demo"}`, string(body))

	s.now = func() time.Time { return t0.Add(11 * time.Second) }
	_, ok = s.Get(ctx, "club/demo-club")
	require.False(t, ok, "entry must be a miss after expiry")

	// The expired row was deleted lazily by the failed read.
	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Total)
}

func TestStore_SetOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, "k", []byte("old"), time.Hour)
	s.Set(ctx, "k", []byte("new"), time.Hour)

	body, ok := s.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, "new", string(body))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Total)
}

func TestStore_ClearAndPurgeExpired(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }
	ctx := context.Background()

	s.Set(ctx, "short", []byte("a"), time.Minute)
	s.Set(ctx, "long", []byte("bb"), time.Hour)

	s.now = func() time.Time { return t0.Add(10 * time.Minute) }

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, 1, stats.Active)
	require.Equal(t, 1, stats.Expired)
	require.Equal(t, int64(3), stats.SizeBytes)

	purged, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, purged)

	cleared, err := s.Clear(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, cleared)

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Total)
}

func TestStore_UnavailableStorageDegrades(t *testing.T) {
	t.Parallel()

	// A directory path cannot be opened as a database file; every operation
	// must silently become a no-op.
	s := NewStore(t.TempDir(), logging.NewNop())
	ctx := context.Background()

	s.Set(ctx, "k", []byte("v"), time.Hour)
	_, ok := s.Get(ctx, "k")
	require.False(t, ok)

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, Stats{}, stats)
}

func TestStore_EmptyKeyIsMiss(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, "", []byte("v"), time.Hour)
	_, ok := s.Get(ctx, "")
	require.False(t, ok)
}
