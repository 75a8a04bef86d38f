package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"integrity/internal/platform/cache"
	"integrity/internal/platform/metrics"
)

// faultyCache simulates an unavailable cache backend with per-op switches.
type faultyCache struct {
	inner      *cache.Memory
	failGet    bool
	failSet    bool
	failDelete bool
}

var errCacheDown = errors.New("cache backend down")

func (f *faultyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errCacheDown
	}
	return f.inner.Get(ctx, key)
}

func (f *faultyCache) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errCacheDown
	}
	return f.inner.Set(ctx, key, value)
}

func (f *faultyCache) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errCacheDown
	}
	return f.inner.Delete(ctx, key)
}

func (f *faultyCache) Purge(ctx context.Context) error {
	return f.inner.Purge(ctx)
}

func newFaultyCached(t *testing.T) (*CachedStore, *InMemoryStore, *faultyCache) {
	t.Helper()
	store := NewInMemoryStore()
	fc := &faultyCache{inner: cache.NewMemory()}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cached := NewCachedStore(store, fc, log, metrics.NewWithRegistry(prometheus.NewRegistry()))
	return cached, store, fc
}

// Reads must degrade to the authoritative store when the cache backend is
// down; cache unavailability is an always-permitted fallback path.
func TestGetDegradesWhenCacheUnavailable(t *testing.T) {
	cached, store, fc := newFaultyCached(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, &Setting{PolicyName: "forum", ContextID: 10, Enabled: true})
	require.NoError(t, err)

	fc.failGet = true
	fc.failSet = true

	setting, err := cached.Get(ctx, "forum", 10)
	require.NoError(t, err)
	require.NotNil(t, setting)
	require.True(t, setting.Enabled)

	enabled, err := cached.IsEnabled(ctx, "forum", 10)
	require.NoError(t, err)
	require.True(t, enabled)
}

// A failed cache refresh after a successful write falls back to eviction, so
// the next read goes through to the store and observes the new value.
func TestWriteFallsBackToEviction(t *testing.T) {
	cached, _, fc := newFaultyCached(t)
	ctx := context.Background()

	_, err := cached.SetEnabled(ctx, "forum", 10, true, 1)
	require.NoError(t, err)

	fc.failSet = true
	_, err = cached.SetEnabled(ctx, "forum", 10, false, 1)
	require.NoError(t, err, "eviction fallback keeps the write succeeding")

	fc.failSet = false
	enabled, err := cached.IsEnabled(ctx, "forum", 10)
	require.NoError(t, err)
	require.False(t, enabled, "read-through sees the authoritative value")
}

// When both refresh and eviction fail a stale entry would survive forever, so
// the mutation must surface the storage error.
func TestWriteFailsWhenRefreshAndEvictionFail(t *testing.T) {
	cached, _, fc := newFaultyCached(t)
	ctx := context.Background()

	_, err := cached.SetEnabled(ctx, "forum", 10, true, 1)
	require.NoError(t, err)

	fc.failSet = true
	fc.failDelete = true
	_, err = cached.SetEnabled(ctx, "forum", 10, false, 1)
	require.Error(t, err)
}
